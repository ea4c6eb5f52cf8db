package election

import (
	"fmt"
	"slices"
	"time"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// Settings holds the election lifecycle. There is exactly one row.
type Settings struct {
	ID             int        `json:"-" gorm:"primaryKey"`
	Stage          Stage      `json:"stage" gorm:"type:election_stage;not null;default:'setup'"`
	VotingOpenedAt *time.Time `json:"votingOpenedAt,omitempty"`
	VotingClosedAt *time.Time `json:"votingClosedAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Settings) TableName() string {
	return "election_settings"
}

// NewSettings returns the initial settings row.
func NewSettings() *Settings {
	return &Settings{ID: SettingsID, Stage: StageSetup}
}

// IsVotingOpen reports whether ballots are accepted.
func (s *Settings) IsVotingOpen() bool {
	return s.Stage == StageVoting
}

// CanTransitionTo checks if the election can move to a new stage
func (s *Settings) CanTransitionTo(next Stage) bool {
	transitions := map[Stage][]Stage{
		StageSetup:  {StageVoting},
		StageVoting: {StageClosed},
		StageClosed: {StageVoting, StageSetup},
	}

	allowed, exists := transitions[s.Stage]
	if !exists {
		return false
	}
	return slices.Contains(allowed, next)
}

// UpdateStage moves to next if the transition is valid and stamps the time.
func (s *Settings) UpdateStage(next Stage, at time.Time) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("cannot transition from %s to %s", s.Stage, next)
	}
	switch next {
	case StageVoting:
		s.VotingOpenedAt = &at
		s.VotingClosedAt = nil
	case StageClosed:
		s.VotingClosedAt = &at
	case StageSetup:
		s.VotingOpenedAt = nil
		s.VotingClosedAt = nil
	}
	s.Stage = next
	return nil
}
