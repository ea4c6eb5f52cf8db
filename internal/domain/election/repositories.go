package election

import (
	"context"

	"github.com/google/uuid"
)

// Repository interfaces for the election services

type PositionRepository interface {
	Create(ctx context.Context, position *Position) error
	GetByID(ctx context.Context, id uuid.UUID) (*Position, error)
	List(ctx context.Context, filter PositionFilter) ([]*Position, error)
	Update(ctx context.Context, position *Position) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)
	List(ctx context.Context, positionID *uuid.UUID) ([]*Candidate, error)
	Update(ctx context.Context, candidate *Candidate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

type BallotRepository interface {
	Create(ctx context.Context, ballot *Ballot) error
	HasVoted(ctx context.Context, voterID string) (bool, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Totals(ctx context.Context) ([]VoteTotal, error)
}

// Store groups the repositories and runs work in one transaction.
type Store interface {
	Positions() PositionRepository
	Candidates() CandidateRepository
	Settings() SettingsRepository
	Ballots() BallotRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
