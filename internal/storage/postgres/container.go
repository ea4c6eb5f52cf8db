package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
)

var _ election.Store = (*Container)(nil)

// Container holds every repository over one connection or transaction
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	positionRepo  *PositionRepository
	candidateRepo *CandidateRepository
	settingsRepo  *SettingsRepository
	ballotRepo    *BallotRepository
	stats         *StatsReader
}

// NewContainer connects, migrates and returns a ready container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(ctx, db); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(ctx); err != nil {
		_ = Close(db)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		positionRepo:  NewPositionRepository(db),
		candidateRepo: NewCandidateRepository(db),
		settingsRepo:  NewSettingsRepository(db),
		ballotRepo:    NewBallotRepository(db),
		stats:         NewStatsReader(db),
	}
}

func (c *Container) Positions() election.PositionRepository {
	return c.positionRepo
}

func (c *Container) Candidates() election.CandidateRepository {
	return c.candidateRepo
}

func (c *Container) Settings() election.SettingsRepository {
	return c.settingsRepo
}

func (c *Container) Ballots() election.BallotRepository {
	return c.ballotRepo
}

func (c *Container) Stats() *StatsReader {
	return c.stats
}

// GetDB returns the underlying database connection
func (c *Container) GetDB() *gorm.DB {
	return c.db
}

// Transaction runs fn with a container bound to one database transaction.
// Returning an error rolls it back.
func (c *Container) Transaction(ctx context.Context, fn func(tx election.Store) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c.log.Debug("Database transaction started")
		return fn(NewContainerWithDB(tx))
	})
}

// Health pings the database and touches every table the API reads
func (c *Container) Health(ctx context.Context) error {
	if err := HealthCheck(ctx, c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, table := range electionTables {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("table %s health check failed: %w", table, err)
		}
	}

	c.log.Debug("Container health check completed")
	return nil
}

// Close releases the database connection
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")
	if err := Close(c.db); err != nil {
		return err
	}
	c.db = nil
	return nil
}
