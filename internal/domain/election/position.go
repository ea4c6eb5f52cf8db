package election

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gravadigital/election-portal/internal/selection"
	"gorm.io/gorm"
)

// Position is an elected seat voters choose candidates for.
type Position struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name            string         `json:"name" gorm:"not null;uniqueIndex"`
	Description     string         `json:"description" gorm:"type:text"`
	Order           int            `json:"order" gorm:"column:display_order;not null;default:0"`
	Status          PositionStatus `json:"status" gorm:"type:position_status;not null;default:'active'"`
	MinSelectable   int            `json:"minSelectable" gorm:"not null;default:0"`
	MaxSelectable   int            `json:"maxSelectable" gorm:"not null;default:1"`
	NumberOfWinners int            `json:"numberOfWinners" gorm:"not null;default:1"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Position) TableName() string {
	return "positions"
}

// BeforeCreate sets a UUID before creating the record
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether voters see the position.
func (p *Position) IsActive() bool {
	return p.Status == StatusActive
}

// Limits returns the selection bounds.
func (p *Position) Limits() selection.Limits {
	return selection.Limits{Min: p.MinSelectable, Max: p.MaxSelectable}
}

// Validate checks if the position data is valid
func (p *Position) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.MaxSelectable < 1 {
		return fmt.Errorf("maxSelectable must be at least 1")
	}
	if err := p.Limits().Validate(); err != nil {
		return err
	}
	if p.NumberOfWinners < 0 {
		return fmt.Errorf("numberOfWinners must not be negative")
	}
	return nil
}

// PositionFilter narrows position listings.
type PositionFilter struct {
	Status *PositionStatus
	SortBy string
}

// PositionRef is the minimal position embedded in candidate payloads.
type PositionRef struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name string    `json:"name"`
}

func (PositionRef) TableName() string {
	return "positions"
}
