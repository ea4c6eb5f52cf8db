package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

// memStore is an in-memory election.Store. Transactions run inline without
// rollback.
type memStore struct {
	positions  map[uuid.UUID]*election.Position
	candidates []*election.Candidate
	settings   *election.Settings
	ballots    []*election.Ballot
	txCount    int
}

func newMemStore() *memStore {
	return &memStore{
		positions: map[uuid.UUID]*election.Position{},
		settings:  election.NewSettings(),
	}
}

func (m *memStore) Positions() election.PositionRepository   { return memPositions{m} }
func (m *memStore) Candidates() election.CandidateRepository { return memCandidates{m} }
func (m *memStore) Settings() election.SettingsRepository    { return memSettings{m} }
func (m *memStore) Ballots() election.BallotRepository       { return memBallots{m} }

func (m *memStore) Transaction(ctx context.Context, fn func(tx election.Store) error) error {
	m.txCount++
	return fn(m)
}

func (m *memStore) setStage(stage election.Stage) {
	m.settings.Stage = stage
}

func (m *memStore) addPosition(name string, order, min, max, winners int) *election.Position {
	p := &election.Position{
		ID:              uuid.New(),
		Name:            name,
		Order:           order,
		Status:          election.StatusActive,
		MinSelectable:   min,
		MaxSelectable:   max,
		NumberOfWinners: winners,
	}
	m.positions[p.ID] = p
	return p
}

func (m *memStore) addCandidate(first, last string, position *election.Position) *election.Candidate {
	c := &election.Candidate{ID: uuid.New(), FirstName: first, LastName: last, PositionID: position.ID}
	m.candidates = append(m.candidates, c)
	return c
}

type memPositions struct{ m *memStore }

func (r memPositions) Create(ctx context.Context, p *election.Position) error {
	for _, existing := range r.m.positions {
		if existing.Name == p.Name {
			return postgres.ErrDuplicatePosition
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.m.positions[p.ID] = p
	return nil
}

func (r memPositions) GetByID(ctx context.Context, id uuid.UUID) (*election.Position, error) {
	p, ok := r.m.positions[id]
	if !ok {
		return nil, postgres.ErrPositionNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPositions) List(ctx context.Context, filter election.PositionFilter) ([]*election.Position, error) {
	var out []*election.Position
	for _, p := range r.m.positions {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.SortBy == "order" && out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memPositions) Update(ctx context.Context, p *election.Position) error {
	if _, ok := r.m.positions[p.ID]; !ok {
		return postgres.ErrPositionNotFound
	}
	r.m.positions[p.ID] = p
	return nil
}

func (r memPositions) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.m.positions[id]; !ok {
		return postgres.ErrPositionNotFound
	}
	for _, c := range r.m.candidates {
		if c.PositionID == id {
			return postgres.ErrPositionInUse
		}
	}
	delete(r.m.positions, id)
	return nil
}

type memCandidates struct{ m *memStore }

func (r memCandidates) Create(ctx context.Context, c *election.Candidate) error {
	if _, ok := r.m.positions[c.PositionID]; !ok {
		return postgres.ErrPositionNotFound
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.m.candidates = append(r.m.candidates, c)
	return nil
}

func (r memCandidates) GetByID(ctx context.Context, id uuid.UUID) (*election.Candidate, error) {
	for _, c := range r.m.candidates {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, postgres.ErrCandidateNotFound
}

func (r memCandidates) List(ctx context.Context, positionID *uuid.UUID) ([]*election.Candidate, error) {
	var out []*election.Candidate
	for _, c := range r.m.candidates {
		if positionID == nil || c.PositionID == *positionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCandidates) Update(ctx context.Context, c *election.Candidate) error {
	for i, existing := range r.m.candidates {
		if existing.ID == c.ID {
			r.m.candidates[i] = c
			return nil
		}
	}
	return postgres.ErrCandidateNotFound
}

func (r memCandidates) Delete(ctx context.Context, id uuid.UUID) error {
	for i, c := range r.m.candidates {
		if c.ID == id {
			r.m.candidates = append(r.m.candidates[:i], r.m.candidates[i+1:]...)
			return nil
		}
	}
	return postgres.ErrCandidateNotFound
}

type memSettings struct{ m *memStore }

func (r memSettings) Get(ctx context.Context) (*election.Settings, error) {
	cp := *r.m.settings
	return &cp, nil
}

func (r memSettings) GetForUpdate(ctx context.Context) (*election.Settings, error) {
	return r.Get(ctx)
}

func (r memSettings) Save(ctx context.Context, s *election.Settings) error {
	cp := *s
	r.m.settings = &cp
	return nil
}

type memBallots struct{ m *memStore }

func (r memBallots) Create(ctx context.Context, b *election.Ballot) error {
	if !r.m.settings.IsVotingOpen() {
		return postgres.ErrVotingNotOpen
	}
	for _, existing := range r.m.ballots {
		if existing.VoterID == b.VoterID {
			return postgres.ErrAlreadyVoted
		}
	}
	r.m.ballots = append(r.m.ballots, b)
	return nil
}

func (r memBallots) HasVoted(ctx context.Context, voterID string) (bool, error) {
	for _, b := range r.m.ballots {
		if b.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (r memBallots) Count(ctx context.Context) (int64, error) {
	return int64(len(r.m.ballots)), nil
}

func (r memBallots) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(r.m.ballots))
	r.m.ballots = nil
	return n, nil
}

func (r memBallots) Totals(ctx context.Context) ([]election.VoteTotal, error) {
	votes := map[uuid.UUID]int{}
	for _, b := range r.m.ballots {
		for _, e := range b.Entries {
			for _, raw := range e.CandidateIDs {
				votes[uuid.MustParse(raw)]++
			}
		}
	}
	var out []election.VoteTotal
	for _, c := range r.m.candidates {
		out = append(out, election.VoteTotal{CandidateID: c.ID, PositionID: c.PositionID, Votes: votes[c.ID]})
	}
	return out, nil
}

var _ election.Store = (*memStore)(nil)
