package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
)

// CandidateRepository implements election.CandidateRepository using GORM
type CandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewCandidateRepository creates a new PostgreSQL candidate repository
func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *CandidateRepository) Create(ctx context.Context, candidate *election.Candidate) error {
	r.log.Debug("Creating candidate", "first_name", candidate.FirstName, "last_name", candidate.LastName)

	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Omit("Position").Create(candidate).Error
	if err != nil {
		if pgCode(err) == foreignKeyViolation {
			return ErrPositionNotFound
		}
		r.log.Error("Failed to create candidate", "error", err)
		return fmt.Errorf("failed to create candidate: %w", err)
	}

	r.log.Info("Candidate created", "id", candidate.ID, "position_id", candidate.PositionID)
	return r.loadPosition(ctx, candidate)
}

func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*election.Candidate, error) {
	var candidate election.Candidate
	err := r.db.WithContext(ctx).Preload("Position").First(&candidate, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCandidateNotFound
		}
		r.log.Error("Failed to get candidate", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return &candidate, nil
}

// List returns every candidate, or only those of one position, sorted by
// last name then first name.
func (r *CandidateRepository) List(ctx context.Context, positionID *uuid.UUID) ([]*election.Candidate, error) {
	query := r.db.WithContext(ctx).Preload("Position")
	if positionID != nil {
		query = query.Where("position_id = ?", *positionID)
	}

	var candidates []*election.Candidate
	if err := query.Order("last_name ASC").Order("first_name ASC").Find(&candidates).Error; err != nil {
		r.log.Error("Failed to list candidates", "error", err)
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	r.log.Debug("Listed candidates", "count", len(candidates))
	return candidates, nil
}

func (r *CandidateRepository) Update(ctx context.Context, candidate *election.Candidate) error {
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("candidate validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).Model(candidate).Omit("Position").
		Select("first_name", "last_name", "position_id", "portrait_ref").
		Updates(candidate)
	if result.Error != nil {
		if pgCode(result.Error) == foreignKeyViolation {
			return ErrPositionNotFound
		}
		r.log.Error("Failed to update candidate", "id", candidate.ID, "error", result.Error)
		return fmt.Errorf("failed to update candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}

	r.log.Info("Candidate updated", "id", candidate.ID)
	return r.loadPosition(ctx, candidate)
}

func (r *CandidateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&election.Candidate{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("Failed to delete candidate", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete candidate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCandidateNotFound
	}

	r.log.Info("Candidate deleted", "id", id)
	return nil
}

func (r *CandidateRepository) loadPosition(ctx context.Context, candidate *election.Candidate) error {
	var ref election.PositionRef
	if err := r.db.WithContext(ctx).First(&ref, "id = ?", candidate.PositionID).Error; err != nil {
		if isNotFound(err) {
			return ErrPositionNotFound
		}
		return fmt.Errorf("failed to load candidate position: %w", err)
	}
	candidate.Position = ref
	return nil
}
