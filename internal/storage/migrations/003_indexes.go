package migrations

import "gorm.io/gorm"

var indexes = []struct {
	name string
	sql  string
}{
	{"idx_positions_status_order", "CREATE INDEX IF NOT EXISTS idx_positions_status_order ON positions (status, display_order)"},
	{"idx_candidates_name", "CREATE INDEX IF NOT EXISTS idx_candidates_name ON candidates (last_name, first_name)"},
	{"idx_ballot_entries_position", "CREATE INDEX IF NOT EXISTS idx_ballot_entries_position ON ballot_entries (position_id)"},
	{"idx_ballot_entries_candidates", "CREATE INDEX IF NOT EXISTS idx_ballot_entries_candidates ON ballot_entries USING GIN (candidate_ids)"},
}

// migration003Up creates the lookup indexes AutoMigrate does not cover
func migration003Up(db *gorm.DB) error {
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration003Down drops those indexes
func migration003Down(db *gorm.DB) error {
	for i := len(indexes) - 1; i >= 0; i-- {
		if err := db.Exec("DROP INDEX IF EXISTS " + indexes[i].name).Error; err != nil {
			return err
		}
	}
	return nil
}
