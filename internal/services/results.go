package services

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

// ResultsService builds results snapshots from the vote totals view
type ResultsService struct {
	store election.Store
	log   *log.Logger
}

// NewResultsService creates a new results service
func NewResultsService(store election.Store) *ResultsService {
	return &ResultsService{
		store: store,
		log:   logger.Service("results"),
	}
}

// Results returns per-position totals for active positions in voting order.
// While voting is open the snapshot only carries the flag. Candidates are
// sorted by votes descending, ties broken by last name, first name and id.
func (s *ResultsService) Results(ctx context.Context) (tabulation.Snapshot, error) {
	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	if settings.IsVotingOpen() {
		return tabulation.Snapshot{IsVotingOpen: true, Positions: []tabulation.PositionTally{}}, nil
	}

	active := election.StatusActive
	positions, err := s.store.Positions().List(ctx, election.PositionFilter{Status: &active, SortBy: "order"})
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	candidates, err := s.store.Candidates().List(ctx, nil)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	totals, err := s.store.Ballots().Totals(ctx)
	if err != nil {
		return tabulation.Snapshot{}, err
	}

	votes := make(map[string]int, len(totals))
	for _, t := range totals {
		votes[t.CandidateID.String()] = t.Votes
	}

	snapshot := tabulation.Snapshot{Positions: make([]tabulation.PositionTally, 0, len(positions))}
	for _, p := range positions {
		tally := tabulation.PositionTally{
			PositionID:      p.ID.String(),
			PositionName:    p.Name,
			NumberOfWinners: p.NumberOfWinners,
			Candidates:      []tabulation.CandidateTally{},
		}
		for _, c := range candidates {
			if c.PositionID != p.ID {
				continue
			}
			tally.Candidates = append(tally.Candidates, tabulation.CandidateTally{
				ID:          c.ID.String(),
				FirstName:   c.FirstName,
				LastName:    c.LastName,
				PortraitRef: c.PortraitRef,
				Votes:       votes[c.ID.String()],
			})
		}
		sortTallies(tally.Candidates)
		snapshot.Positions = append(snapshot.Positions, tally)
	}

	s.log.Debug("Results built", "positions", len(snapshot.Positions), "totals", len(totals))
	return snapshot, nil
}

func sortTallies(tallies []tabulation.CandidateTally) {
	sort.SliceStable(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})
}
