package ballot

import (
	"context"
	"sort"

	"github.com/gravadigital/election-portal/internal/selection"
)

const defaultConfirmation = "Your vote has been successfully submitted!"

// Workflow is the voter's ballot session.
type Workflow struct {
	state State

	positions  []Position
	candidates []Candidate
	byID       map[string]Candidate
	owners     selection.Ownership
	selections selection.Set

	loadErr      error
	notice       error
	submitErr    error
	confirmation string
	submitting   bool
}

// Loading returns a workflow waiting for its collaborators.
func Loading() *Workflow {
	return &Workflow{
		state:      State{Kind: KindLoading},
		byID:       map[string]Candidate{},
		owners:     selection.Ownership{},
		selections: selection.Set{},
	}
}

// New builds a workflow from load results. Closed, already-voted and failed
// loads yield a terminal workflow; otherwise the voter starts on the first
// stage with nothing selected.
func New(res LoadResult) *Workflow {
	w := Loading()

	kind, err := res.Resolve()
	w.loadErr = err
	if kind != KindPosition {
		w.state = State{Kind: kind}
		return w
	}

	w.positions = append([]Position(nil), res.Positions.Value...)
	sort.SliceStable(w.positions, func(i, j int) bool {
		return w.positions[i].Order < w.positions[j].Order
	})

	w.candidates = append([]Candidate(nil), res.Candidates.Value...)
	ids := make([]string, 0, len(w.candidates))
	for _, c := range w.candidates {
		w.byID[c.ID] = c
		if c.PositionID != "" {
			w.owners[c.ID] = c.PositionID
		}
		ids = append(ids, c.ID)
	}
	w.selections = selection.NewSet(ids)
	w.state = w.stateAt(0)
	return w
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	return w.state
}

// Err returns why the session ended without a ballot (closed, already voted,
// load failure), or nil.
func (w *Workflow) Err() error {
	return w.loadErr
}

// Notice returns the last blocking notice raised by Toggle or Next.
func (w *Workflow) Notice() error {
	return w.notice
}

// SubmitError returns the pending submission error shown on review.
func (w *Workflow) SubmitError() error {
	return w.submitErr
}

// Confirmation returns the sink's confirmation once submitted.
func (w *Workflow) Confirmation() string {
	return w.confirmation
}

// Submitting reports whether a submission is in flight.
func (w *Workflow) Submitting() bool {
	return w.submitting
}

// Positions returns the active positions in voting order.
func (w *Workflow) Positions() []Position {
	return w.positions
}

// StageNames returns the ordered position names followed by the review stage.
func (w *Workflow) StageNames() []string {
	names := make([]string, 0, len(w.positions)+1)
	for _, p := range w.positions {
		names = append(names, p.Name)
	}
	return append(names, ReviewStageName)
}

// CurrentPosition returns the position of the current stage. It is false on
// review and outside of voting.
func (w *Workflow) CurrentPosition() (Position, bool) {
	if w.state.Kind != KindPosition {
		return Position{}, false
	}
	return w.positions[w.state.Stage], true
}

// StageTitle is the heading of the current stage.
func (w *Workflow) StageTitle() string {
	switch w.state.Kind {
	case KindReview:
		return "Review Your Selections"
	case KindPosition:
		return "Vote for: " + w.positions[w.state.Stage].Name
	case KindLoading:
		return "Loading Position..."
	default:
		return ""
	}
}

// CandidatesForStage lists the candidates of the current position in
// directory order.
func (w *Workflow) CandidatesForStage() []Candidate {
	pos, ok := w.CurrentPosition()
	if !ok {
		return nil
	}
	return w.candidatesOf(pos.ID)
}

// IsSelected reports whether a candidate is chosen.
func (w *Workflow) IsSelected(candidateID string) bool {
	return w.selections.IsSelected(candidateID)
}

// SelectedCount counts chosen candidates of a position.
func (w *Workflow) SelectedCount(positionID string) int {
	return w.owners.Count(w.selections, positionID)
}

// ReviewSummary lists the chosen candidates of every position in voting order.
func (w *Workflow) ReviewSummary() []ReviewEntry {
	entries := make([]ReviewEntry, 0, len(w.positions))
	for _, p := range w.positions {
		entry := ReviewEntry{Position: p}
		for _, c := range w.candidatesOf(p.ID) {
			if w.selections.IsSelected(c.ID) {
				entry.Chosen = append(entry.Chosen, c)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Payload groups the current selections by position.
func (w *Workflow) Payload() Payload {
	order := make([]string, 0, len(w.candidates))
	for _, c := range w.candidates {
		order = append(order, c.ID)
	}
	return Payload{VotesByPosition: w.owners.Group(w.selections, order)}
}

// Toggle flips the chosen flag of one candidate of the current stage.
//
// Unknown candidates, candidates without a position, and toggles outside a
// position stage are ignored. A candidate of another position, or a
// selection beyond the position's maximum, is rejected with a *Violation.
func (w *Workflow) Toggle(candidateID string) error {
	c, ok := w.byID[candidateID]
	if !ok || c.PositionID == "" {
		return nil
	}
	pos, ok := w.CurrentPosition()
	if !ok {
		return nil
	}
	if c.PositionID != pos.ID {
		return w.raise(&Violation{Kind: WrongPosition, Position: pos.Name})
	}

	if !w.selections.IsSelected(candidateID) {
		current := w.owners.Count(w.selections, pos.ID)
		if !pos.Limits().CanAdd(current) {
			return w.raise(&Violation{Kind: LimitReached, Position: pos.Name, Limit: pos.MaxSelectable, Selected: current})
		}
	}

	w.selections.Toggle(candidateID)
	w.notice = nil
	return nil
}

// Next advances one stage once the current position's minimum is met. It is
// a no-op on review and before loading finished.
func (w *Workflow) Next() error {
	if w.state.Kind != KindPosition {
		return nil
	}
	pos := w.positions[w.state.Stage]
	if count := w.owners.Count(w.selections, pos.ID); !pos.Limits().MinimumMet(count) {
		return w.raise(&Violation{Kind: MinimumNotMet, Position: pos.Name, Limit: pos.MinSelectable, Selected: count})
	}
	w.state = w.stateAt(w.state.Stage + 1)
	w.notice = nil
	return nil
}

// Previous goes back one stage without re-validating and clears pending
// submission messages.
func (w *Workflow) Previous() {
	if !w.state.Voting() || w.state.Stage == 0 || w.submitting {
		return
	}
	w.state = w.stateAt(w.state.Stage - 1)
	w.notice = nil
	w.submitErr = nil
	w.confirmation = ""
}

// PrepareSubmission validates the selections on review and marks the
// workflow as submitting. It returns nil and no error when submitting is not
// possible right now (not on review, already submitted, or in flight).
func (w *Workflow) PrepareSubmission() (*Payload, error) {
	if w.state.Kind != KindReview || w.submitting {
		return nil, nil
	}
	w.submitErr = nil
	w.confirmation = ""

	if w.selections.Total() == 0 {
		return nil, w.reject(&Violation{Kind: EmptyBallot})
	}

	payload := w.Payload()
	counts := w.owners.CountByPosition(w.selections)
	limits := make(map[string]selection.Limits, len(w.positions))
	order := make([]string, 0, len(w.positions))
	for _, p := range w.positions {
		limits[p.ID] = p.Limits()
		order = append(order, p.ID)
	}
	if breach := selection.CheckMax(counts, limits, order); breach != nil {
		pos := w.positionByID(breach.PositionID)
		return nil, w.reject(&Violation{Kind: OverLimit, Position: pos.Name, Limit: pos.MaxSelectable, Selected: breach.Count})
	}

	w.submitting = true
	return &payload, nil
}

// CompleteSubmission records the sink's answer to a prepared submission.
// Acceptance ends the workflow and clears the selections; rejection keeps
// the voter on review and returns a *SubmissionError.
func (w *Workflow) CompleteSubmission(message string, err error) error {
	if !w.submitting {
		return nil
	}
	w.submitting = false

	if err != nil {
		return w.reject(&SubmissionError{Err: err})
	}

	if message == "" {
		message = defaultConfirmation
	}
	w.confirmation = message
	w.selections.Clear()
	w.state = State{Kind: KindSubmitted}
	return nil
}

// Submit validates, hands the payload to the sink and records the outcome.
// After a successful submission it does nothing.
func (w *Workflow) Submit(ctx context.Context, sink VoteSink) error {
	payload, err := w.PrepareSubmission()
	if err != nil || payload == nil {
		return err
	}
	message, err := sink.CastVote(ctx, *payload)
	return w.CompleteSubmission(message, err)
}

func (w *Workflow) stateAt(stage int) State {
	if stage >= len(w.positions) {
		return State{Kind: KindReview, Stage: len(w.positions)}
	}
	return State{Kind: KindPosition, Stage: stage}
}

func (w *Workflow) candidatesOf(positionID string) []Candidate {
	var out []Candidate
	for _, c := range w.candidates {
		if c.PositionID == positionID {
			out = append(out, c)
		}
	}
	return out
}

func (w *Workflow) positionByID(id string) Position {
	for _, p := range w.positions {
		if p.ID == id {
			return p
		}
	}
	return Position{ID: id, Name: id}
}

func (w *Workflow) raise(err error) error {
	w.notice = err
	return err
}

func (w *Workflow) reject(err error) error {
	w.submitErr = err
	return err
}
