package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE election_stage AS ENUM (
            'setup',
            'voting',
            'closed'
        )
    `).Error; err != nil {
		return err
	}

	return db.Exec(`
        CREATE TYPE position_status AS ENUM (
            'active',
            'inactive'
        )
    `).Error
}

// migration001Down drops custom types
func migration001Down(db *gorm.DB) error {
	if err := db.Exec("DROP TYPE IF EXISTS position_status CASCADE").Error; err != nil {
		return err
	}

	// NOTE: the uuid extension stays, other schemas may use it
	return db.Exec("DROP TYPE IF EXISTS election_stage CASCADE").Error
}
