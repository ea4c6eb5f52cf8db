package ballot

import (
	"context"
	"errors"
)

type stubSources struct {
	open       bool
	openErr    error
	voted      bool
	votedErr   error
	positions  []Position
	posErr     error
	candidates []Candidate
	candErr    error

	calls []string
}

func (s *stubSources) VotingOpen(context.Context) (bool, error) {
	s.calls = append(s.calls, "status")
	return s.open, s.openErr
}

func (s *stubSources) HasVoted(context.Context) (bool, error) {
	s.calls = append(s.calls, "user-status")
	return s.voted, s.votedErr
}

func (s *stubSources) ActivePositions(context.Context) ([]Position, error) {
	s.calls = append(s.calls, "positions")
	return s.positions, s.posErr
}

func (s *stubSources) Candidates(context.Context) ([]Candidate, error) {
	s.calls = append(s.calls, "candidates")
	return s.candidates, s.candErr
}

func (s *stubSources) sources() Sources {
	return Sources{Election: s, Votes: s, Positions: s, Candidates: s}
}

type stubSink struct {
	message  string
	err      error
	payloads []Payload
}

func (s *stubSink) CastVote(_ context.Context, p Payload) (string, error) {
	s.payloads = append(s.payloads, p)
	return s.message, s.err
}

var errBoom = errors.New("boom")

// boardAndAudit is a board of three seats (pick one to three) and a single
// audit seat (pick exactly one). Audit is listed first but ordered second.
func boardAndAudit() *stubSources {
	return &stubSources{
		open: true,
		positions: []Position{
			{ID: "Audit", Name: "Audit", Order: 2, MinSelectable: 1, MaxSelectable: 1, NumberOfWinners: 1},
			{ID: "BOD", Name: "BOD", Order: 1, MinSelectable: 1, MaxSelectable: 3, NumberOfWinners: 3},
		},
		candidates: []Candidate{
			{ID: "candA", FirstName: "Ana", LastName: "Alvarez", PositionID: "BOD", PositionName: "BOD"},
			{ID: "candB", FirstName: "Bruno", LastName: "Baez", PositionID: "BOD", PositionName: "BOD"},
			{ID: "candC", FirstName: "Carla", LastName: "Cruz", PositionID: "BOD", PositionName: "BOD"},
			{ID: "candD", FirstName: "Diego", LastName: "Diaz", PositionID: "BOD", PositionName: "BOD"},
			{ID: "candX", FirstName: "Ximena", LastName: "Xu", PositionID: "Audit", PositionName: "Audit"},
			{ID: "candY", FirstName: "Yago", LastName: "Yanez", PositionID: "Audit", PositionName: "Audit"},
			{ID: "orphan", FirstName: "Olga", LastName: "Ortiz"},
		},
	}
}

func loadWorkflow(src *stubSources) *Workflow {
	return New(Load(context.Background(), src.sources()))
}
