package migrations

import "gorm.io/gorm"

// migration004Up adds check constraints and the trigger that refuses ballots
// outside the voting stage
func migration004Up(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE positions
            ADD CONSTRAINT chk_positions_selectable
            CHECK (min_selectable >= 0 AND max_selectable >= 1 AND min_selectable <= max_selectable)`,

		`ALTER TABLE positions
            ADD CONSTRAINT chk_positions_winners
            CHECK (number_of_winners >= 0)`,

		`ALTER TABLE election_settings
            ADD CONSTRAINT chk_election_settings_single_row
            CHECK (id = 1)`,

		`ALTER TABLE ballot_entries
            ADD CONSTRAINT chk_ballot_entries_not_empty
            CHECK (cardinality(candidate_ids) > 0)`,

		`CREATE OR REPLACE FUNCTION reject_ballot_outside_voting()
        RETURNS TRIGGER AS $$
        DECLARE
            current_stage election_stage;
        BEGIN
            SELECT stage INTO current_stage FROM election_settings WHERE id = 1;

            IF current_stage IS DISTINCT FROM 'voting' THEN
                RAISE EXCEPTION 'Ballots are only accepted while voting is open (stage: %)',
                    COALESCE(current_stage::text, 'unset');
            END IF;

            RETURN NEW;
        END;
        $$ LANGUAGE plpgsql`,

		`CREATE TRIGGER trg_ballots_voting_open
            BEFORE INSERT ON ballots
            FOR EACH ROW EXECUTE FUNCTION reject_ballot_outside_voting()`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// migration004Down removes the trigger, its function and the constraints
func migration004Down(db *gorm.DB) error {
	statements := []string{
		"DROP TRIGGER IF EXISTS trg_ballots_voting_open ON ballots",
		"DROP FUNCTION IF EXISTS reject_ballot_outside_voting()",
		"ALTER TABLE ballot_entries DROP CONSTRAINT IF EXISTS chk_ballot_entries_not_empty",
		"ALTER TABLE election_settings DROP CONSTRAINT IF EXISTS chk_election_settings_single_row",
		"ALTER TABLE positions DROP CONSTRAINT IF EXISTS chk_positions_winners",
		"ALTER TABLE positions DROP CONSTRAINT IF EXISTS chk_positions_selectable",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
