package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
)

// SettingsRepository stores the single election settings row
type SettingsRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewSettingsRepository creates a new PostgreSQL settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{
		db:  db,
		log: logger.Repository("election_settings"),
	}
}

// Get returns the settings row, creating it in setup stage when missing.
func (r *SettingsRepository) Get(ctx context.Context) (*election.Settings, error) {
	settings := election.NewSettings()
	err := r.db.WithContext(ctx).
		Where(election.Settings{ID: election.SettingsID}).
		FirstOrCreate(settings).Error
	if err != nil {
		r.log.Error("Failed to load election settings", "error", err)
		return nil, fmt.Errorf("failed to load election settings: %w", err)
	}
	return settings, nil
}

// GetForUpdate locks the settings row for the rest of the transaction.
func (r *SettingsRepository) GetForUpdate(ctx context.Context) (*election.Settings, error) {
	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}

	var settings election.Settings
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&settings, "id = ?", election.SettingsID).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to lock election settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *election.Settings) error {
	settings.ID = election.SettingsID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		r.log.Error("Failed to save election settings", "error", err)
		return fmt.Errorf("failed to save election settings: %w", err)
	}

	r.log.Info("Election settings saved", "stage", settings.Stage)
	return nil
}
