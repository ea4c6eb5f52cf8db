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

// PositionRepository implements election.PositionRepository using GORM
type PositionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPositionRepository creates a new PostgreSQL position repository
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{
		db:  db,
		log: logger.Repository("position"),
	}
}

func (r *PositionRepository) Create(ctx context.Context, position *election.Position) error {
	r.log.Debug("Creating position", "name", position.Name)

	if err := position.Validate(); err != nil {
		r.log.Error("Position validation failed", "error", err)
		return fmt.Errorf("position validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		if isUniqueViolation(err, "name") {
			return ErrDuplicatePosition
		}
		r.log.Error("Failed to create position", "error", err, "name", position.Name)
		return fmt.Errorf("failed to create position: %w", err)
	}

	r.log.Info("Position created", "id", position.ID, "name", position.Name)
	return nil
}

func (r *PositionRepository) GetByID(ctx context.Context, id uuid.UUID) (*election.Position, error) {
	var position election.Position
	if err := r.db.WithContext(ctx).First(&position, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			r.log.Debug("Position not found", "id", id)
			return nil, ErrPositionNotFound
		}
		r.log.Error("Failed to get position", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return &position, nil
}

// List returns positions matching the filter. SortBy "order" sorts by the
// voting order, "name" alphabetically; anything else by creation time.
func (r *PositionRepository) List(ctx context.Context, filter election.PositionFilter) ([]*election.Position, error) {
	query := r.db.WithContext(ctx).Model(&election.Position{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	switch filter.SortBy {
	case "order":
		query = query.Order("display_order ASC").Order("name ASC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at ASC")
	}

	var positions []*election.Position
	if err := query.Find(&positions).Error; err != nil {
		r.log.Error("Failed to list positions", "error", err)
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	r.log.Debug("Listed positions", "count", len(positions), "sort_by", filter.SortBy)
	return positions, nil
}

func (r *PositionRepository) Update(ctx context.Context, position *election.Position) error {
	if err := position.Validate(); err != nil {
		return fmt.Errorf("position validation failed: %w", err)
	}

	result := r.db.WithContext(ctx).Model(position).Select(
		"name", "description", "display_order", "status",
		"min_selectable", "max_selectable", "number_of_winners",
	).Updates(position)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "name") {
			return ErrDuplicatePosition
		}
		r.log.Error("Failed to update position", "id", position.ID, "error", result.Error)
		return fmt.Errorf("failed to update position: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPositionNotFound
	}

	r.log.Info("Position updated", "id", position.ID)
	return nil
}

func (r *PositionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&election.Position{}, "id = ?", id)
	if result.Error != nil {
		if pgCode(result.Error) == foreignKeyViolation {
			return ErrPositionInUse
		}
		r.log.Error("Failed to delete position", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete position: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPositionNotFound
	}

	r.log.Info("Position deleted", "id", id)
	return nil
}
