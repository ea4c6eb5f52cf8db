package migrations

import "gorm.io/gorm"

// migration005Up creates the per-candidate vote totals view. Candidates
// without votes appear with zero.
func migration005Up(db *gorm.DB) error {
	return db.Exec(`
        CREATE VIEW candidate_vote_totals AS
        SELECT
            c.id AS candidate_id,
            c.position_id,
            COUNT(be.id)::INTEGER AS votes
        FROM candidates c
        LEFT JOIN ballot_entries be
            ON be.position_id = c.position_id
           AND c.id = ANY(be.candidate_ids)
        GROUP BY c.id, c.position_id
    `).Error
}

// migration005Down drops the view
func migration005Down(db *gorm.DB) error {
	return db.Exec("DROP VIEW IF EXISTS candidate_vote_totals").Error
}
