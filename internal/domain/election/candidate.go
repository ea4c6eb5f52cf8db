package election

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is a person running for one position.
type Candidate struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FirstName   string      `json:"firstName" gorm:"not null"`
	LastName    string      `json:"lastName" gorm:"not null"`
	PositionID  uuid.UUID   `json:"-" gorm:"type:uuid;not null;index"`
	PortraitRef string      `json:"portraitRef,omitempty"`
	Position    PositionRef `json:"position" gorm:"foreignKey:PositionID"`
	CreatedAt   time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// BeforeCreate sets a UUID before creating the record
func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name.
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("firstName is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("lastName is required")
	}
	if c.PositionID == uuid.Nil {
		return fmt.Errorf("position is required")
	}
	return nil
}
