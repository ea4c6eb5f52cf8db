package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
)

// BallotRepository implements election.BallotRepository using GORM
type BallotRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewBallotRepository creates a new PostgreSQL ballot repository
func NewBallotRepository(db *gorm.DB) *BallotRepository {
	return &BallotRepository{
		db:  db,
		log: logger.Repository("ballot"),
	}
}

// Create stores a ballot with its entries. A second ballot for the same
// voter fails with ErrAlreadyVoted; a ballot outside the voting stage is
// refused by the database with ErrVotingNotOpen.
func (r *BallotRepository) Create(ctx context.Context, ballot *election.Ballot) error {
	r.log.Debug("Recording ballot", "voter_id", ballot.VoterID, "entries", len(ballot.Entries))

	err := r.db.WithContext(ctx).Create(ballot).Error
	if err != nil {
		switch {
		case isUniqueViolation(err, "voter"):
			r.log.Warn("Duplicate ballot rejected", "voter_id", ballot.VoterID)
			return ErrAlreadyVoted
		case pgCode(err) == raiseException:
			return ErrVotingNotOpen
		}
		r.log.Error("Failed to record ballot", "voter_id", ballot.VoterID, "error", err)
		return fmt.Errorf("failed to record ballot: %w", err)
	}

	r.log.Info("Ballot recorded", "id", ballot.ID, "voter_id", ballot.VoterID)
	return nil
}

func (r *BallotRepository) HasVoted(ctx context.Context, voterID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&election.Ballot{}).
		Where("voter_id = ?", voterID).
		Count(&count).Error
	if err != nil {
		r.log.Error("Failed to check ballot", "voter_id", voterID, "error", err)
		return false, fmt.Errorf("failed to check ballot: %w", err)
	}
	return count > 0, nil
}

func (r *BallotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&election.Ballot{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// DeleteAll removes every ballot; entries go with them by cascade.
func (r *BallotRepository) DeleteAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&election.Ballot{})
	if result.Error != nil {
		r.log.Error("Failed to delete ballots", "error", result.Error)
		return 0, fmt.Errorf("failed to delete ballots: %w", result.Error)
	}

	r.log.Warn("All ballots deleted", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

// Totals reads per-candidate counts from the candidate_vote_totals view.
func (r *BallotRepository) Totals(ctx context.Context) ([]election.VoteTotal, error) {
	var totals []election.VoteTotal
	if err := r.db.WithContext(ctx).Find(&totals).Error; err != nil {
		r.log.Error("Failed to read vote totals", "error", err)
		return nil, fmt.Errorf("failed to read vote totals: %w", err)
	}
	return totals, nil
}
