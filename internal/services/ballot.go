package services

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/selection"
)

const msgVoteRecorded = "Your vote has been successfully submitted!"

// BallotService records votes
type BallotService struct {
	store election.Store
	log   *log.Logger
}

// NewBallotService creates a new ballot service
func NewBallotService(store election.Store) *BallotService {
	return &BallotService{
		store: store,
		log:   logger.Service("ballots"),
	}
}

// HasVoted reports whether the voter already cast a ballot.
func (s *BallotService) HasVoted(ctx context.Context, voterID string) (bool, error) {
	return s.store.Ballots().HasVoted(ctx, voterID)
}

// Cast validates and stores one voter's ballot. votes maps position ids to
// chosen candidate ids. The settings row is locked for the duration so that
// closing voting cannot interleave with a cast.
func (s *BallotService) Cast(ctx context.Context, voterID string, votes map[string][]string) (string, error) {
	total := 0
	for _, ids := range votes {
		total += len(ids)
	}
	if total == 0 {
		return "", &ValidationError{Message: "Please select at least one candidate to vote."}
	}

	err := s.store.Transaction(ctx, func(tx election.Store) error {
		settings, err := tx.Settings().GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if !settings.IsVotingOpen() {
			return &ForbiddenError{Message: msgVotingClosed}
		}

		voted, err := tx.Ballots().HasVoted(ctx, voterID)
		if err != nil {
			return err
		}
		if voted {
			return &ConflictError{Message: msgAlreadyVoted}
		}

		parsed, err := s.resolve(ctx, tx, votes)
		if err != nil {
			return err
		}
		return translate(tx.Ballots().Create(ctx, election.NewBallot(voterID, parsed)))
	})
	if err != nil {
		return "", err
	}

	s.log.Info("Ballot cast", "voter_id", voterID, "selections", total)
	return msgVoteRecorded, nil
}

// resolve checks every position and candidate of the payload against the
// directory and the selection limits.
func (s *BallotService) resolve(ctx context.Context, tx election.Store, votes map[string][]string) (map[uuid.UUID][]uuid.UUID, error) {
	active := election.StatusActive
	positions, err := tx.Positions().List(ctx, election.PositionFilter{Status: &active, SortBy: "order"})
	if err != nil {
		return nil, err
	}
	candidates, err := tx.Candidates().List(ctx, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*election.Position, len(positions))
	limits := make(map[string]selection.Limits, len(positions))
	order := make([]string, 0, len(positions))
	for _, p := range positions {
		id := p.ID.String()
		byID[id] = p
		limits[id] = p.Limits()
		order = append(order, id)
	}
	owners := make(map[string]string, len(candidates))
	for _, c := range candidates {
		owners[c.ID.String()] = c.PositionID.String()
	}

	parsed := make(map[uuid.UUID][]uuid.UUID, len(votes))
	counts := make(map[string]int, len(votes))
	seen := make(map[uuid.UUID]bool)
	for rawPosition, rawCandidates := range votes {
		if len(rawCandidates) == 0 {
			continue
		}
		positionID, err := uuid.Parse(rawPosition)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid position id %q.", rawPosition)}
		}
		position, ok := byID[positionID.String()]
		if !ok {
			return nil, &ValidationError{Message: fmt.Sprintf("Position %s is not open for voting.", rawPosition)}
		}
		// Keys that spell the same id differently must not merge.
		if _, dup := parsed[positionID]; dup {
			return nil, &ValidationError{Message: fmt.Sprintf("Position %s appears more than once.", rawPosition)}
		}

		for _, raw := range rawCandidates {
			candidateID, err := uuid.Parse(raw)
			if err != nil {
				return nil, &ValidationError{Message: fmt.Sprintf("Invalid candidate id %q.", raw)}
			}
			owner, ok := owners[candidateID.String()]
			if !ok {
				return nil, &ValidationError{Message: fmt.Sprintf("Candidate %s does not exist.", raw)}
			}
			if owner != positionID.String() {
				return nil, &ValidationError{Message: fmt.Sprintf("Candidate %s is not running for %s.", raw, position.Name)}
			}
			if seen[candidateID] {
				return nil, &ValidationError{Message: fmt.Sprintf("Candidate %s was selected more than once.", raw)}
			}
			seen[candidateID] = true
			parsed[positionID] = append(parsed[positionID], candidateID)
		}
		counts[positionID.String()] = len(parsed[positionID])
	}

	if breach := selection.CheckBounds(counts, limits, order); breach != nil {
		position := byID[breach.PositionID]
		if breach.Kind == selection.TooMany {
			return nil, &ValidationError{Message: fmt.Sprintf("For %s, you can select a maximum of %d candidates. You selected %d.",
				position.Name, position.MaxSelectable, breach.Count)}
		}
		return nil, &ValidationError{Message: fmt.Sprintf("Please select at least %d candidate(s) for %s.", position.MinSelectable, position.Name)}
	}
	return parsed, nil
}
