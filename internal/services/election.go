package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

// StatsSource reports database counts for the admin status.
type StatsSource interface {
	Election(ctx context.Context) (*postgres.ElectionStats, error)
}

// AdminStatus is what administrators see about the election lifecycle
type AdminStatus struct {
	Stage          election.Stage          `json:"stage"`
	IsVotingOpen   bool                    `json:"isVotingOpen"`
	VotingOpenedAt *time.Time              `json:"votingOpenedAt,omitempty"`
	VotingClosedAt *time.Time              `json:"votingClosedAt,omitempty"`
	Stats          *postgres.ElectionStats `json:"stats,omitempty"`
}

// ElectionService drives the election lifecycle
type ElectionService struct {
	store election.Store
	stats StatsSource
	now   func() time.Time
	log   *log.Logger
}

// NewElectionService creates a new election service. stats may be nil.
func NewElectionService(store election.Store, stats StatsSource) *ElectionService {
	return &ElectionService{
		store: store,
		stats: stats,
		now:   time.Now,
		log:   logger.Service("election"),
	}
}

// IsVotingOpen reports whether ballots are accepted right now.
func (s *ElectionService) IsVotingOpen(ctx context.Context) (bool, error) {
	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsVotingOpen(), nil
}

// VotingStatus returns the lifecycle state plus database counts. Failing
// counts are logged and left out.
func (s *ElectionService) VotingStatus(ctx context.Context) (*AdminStatus, error) {
	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		return nil, err
	}
	status := statusOf(settings)
	if s.stats != nil {
		stats, err := s.stats.Election(ctx)
		if err != nil {
			s.log.Warn("Failed to read election stats", "error", err)
		} else {
			status.Stats = stats
		}
	}
	return status, nil
}

// OpenVoting moves the election to voting. At least one active position
// with candidates is required.
func (s *ElectionService) OpenVoting(ctx context.Context) (*AdminStatus, error) {
	var status *AdminStatus
	err := s.store.Transaction(ctx, func(tx election.Store) error {
		settings, err := tx.Settings().GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if settings.IsVotingOpen() {
			return &ConflictError{Message: "Voting is already open."}
		}
		if !settings.CanTransitionTo(election.StageVoting) {
			return &ConflictError{Message: "Voting cannot be opened from stage " + settings.Stage.String() + "."}
		}

		active := election.StatusActive
		positions, err := tx.Positions().List(ctx, election.PositionFilter{Status: &active})
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			return &ConflictError{Message: "Add at least one active position before opening voting."}
		}
		candidates, err := tx.Candidates().List(ctx, nil)
		if err != nil {
			return err
		}
		if !anyCandidateFor(positions, candidates) {
			return &ConflictError{Message: "Add candidates to an active position before opening voting."}
		}

		if err := settings.UpdateStage(election.StageVoting, s.now().UTC()); err != nil {
			return &ConflictError{Message: err.Error()}
		}
		if err := tx.Settings().Save(ctx, settings); err != nil {
			return err
		}
		status = statusOf(settings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Voting opened", "at", status.VotingOpenedAt)
	return status, nil
}

// CloseVoting ends the voting stage.
func (s *ElectionService) CloseVoting(ctx context.Context) (*AdminStatus, error) {
	var status *AdminStatus
	err := s.store.Transaction(ctx, func(tx election.Store) error {
		settings, err := tx.Settings().GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if !settings.IsVotingOpen() {
			return &ConflictError{Message: "Voting is not open."}
		}
		if err := settings.UpdateStage(election.StageClosed, s.now().UTC()); err != nil {
			return &ConflictError{Message: err.Error()}
		}
		if err := tx.Settings().Save(ctx, settings); err != nil {
			return err
		}
		status = statusOf(settings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Voting closed", "at", status.VotingClosedAt)
	return status, nil
}

// ClearDatabase removes every ballot and returns the election to setup.
// Positions and candidates are kept.
func (s *ElectionService) ClearDatabase(ctx context.Context) (int64, error) {
	var removed int64
	err := s.store.Transaction(ctx, func(tx election.Store) error {
		settings, err := tx.Settings().GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if settings.IsVotingOpen() {
			return &ForbiddenError{Message: "Close voting before clearing the database."}
		}

		removed, err = tx.Ballots().DeleteAll(ctx)
		if err != nil {
			return err
		}

		if settings.Stage != election.StageSetup {
			if err := settings.UpdateStage(election.StageSetup, s.now().UTC()); err != nil {
				return &ConflictError{Message: err.Error()}
			}
			return tx.Settings().Save(ctx, settings)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Warn("Election data cleared", "ballots_removed", removed)
	return removed, nil
}

func statusOf(settings *election.Settings) *AdminStatus {
	return &AdminStatus{
		Stage:          settings.Stage,
		IsVotingOpen:   settings.IsVotingOpen(),
		VotingOpenedAt: settings.VotingOpenedAt,
		VotingClosedAt: settings.VotingClosedAt,
	}
}

func anyCandidateFor(positions []*election.Position, candidates []*election.Candidate) bool {
	active := make(map[string]bool, len(positions))
	for _, p := range positions {
		active[p.ID.String()] = true
	}
	for _, c := range candidates {
		if active[c.PositionID.String()] {
			return true
		}
	}
	return false
}
