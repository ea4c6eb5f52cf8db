// Package ballot drives a voter through one stage per electable position and
// a final review, enforcing selection limits and assembling the vote
// submission payload.
//
// A Workflow is owned by a single event loop. Collaborator calls (loading and
// submission) happen outside of it and their results are fed back in, so the
// Workflow itself never blocks and needs no locking.
package ballot

import (
	"fmt"
	"strings"

	"github.com/gravadigital/election-portal/internal/selection"
)

// ReviewStageName is the name of the trailing pseudo-stage.
const ReviewStageName = "Review"

// Position is an electable seat as the position directory reports it.
type Position struct {
	ID              string
	Name            string
	Description     string
	Order           int
	MinSelectable   int
	MaxSelectable   int
	NumberOfWinners int
}

// Limits returns the selection bounds of the position.
func (p Position) Limits() selection.Limits {
	return selection.Limits{Min: p.MinSelectable, Max: p.MaxSelectable}
}

// SelectionHint describes how many candidates the voter has to pick.
func (p Position) SelectionHint() string {
	if p.Limits().Exact() {
		return fmt.Sprintf("Select exactly %d candidate(s) for %s.", p.MaxSelectable, p.Name)
	}
	return fmt.Sprintf("Select between %d and %d candidate(s) for %s.", p.MinSelectable, p.MaxSelectable, p.Name)
}

// Candidate is a person running for a position.
type Candidate struct {
	ID           string
	FirstName    string
	LastName     string
	PositionID   string
	PositionName string
	PortraitRef  string
}

// FullName joins first and last name.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Payload is what the vote sink receives: the chosen candidate ids of each
// position, in directory order. Positions without a choice are absent.
type Payload struct {
	VotesByPosition map[string][]string `json:"votesByPosition"`
}

// Total counts every chosen candidate in the payload.
func (p Payload) Total() int {
	n := 0
	for _, ids := range p.VotesByPosition {
		n += len(ids)
	}
	return n
}

// ReviewEntry lists the chosen candidates of one position on the review stage.
type ReviewEntry struct {
	Position Position
	Chosen   []Candidate
}
