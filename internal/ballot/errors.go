package ballot

import (
	"errors"
	"fmt"
)

var (
	ErrVotingClosed = errors.New("voting is currently closed")
	ErrAlreadyVoted = errors.New("you have already submitted your vote for this election")
)

// ViolationKind names a selection rule the voter tripped over.
type ViolationKind int

const (
	WrongPosition ViolationKind = iota + 1
	LimitReached
	MinimumNotMet
	EmptyBallot
	OverLimit
)

// Violation is a recoverable constraint breach. It is reported to the voter
// as a notice and never aborts the workflow.
type Violation struct {
	Kind     ViolationKind
	Position string
	Limit    int
	Selected int
}

func (v *Violation) Error() string {
	switch v.Kind {
	case WrongPosition:
		return fmt.Sprintf("You are trying to select a candidate from a different position. Please only select candidates for %s.", v.Position)
	case LimitReached:
		return fmt.Sprintf("You can select a maximum of %d candidate(s) for %s.", v.Limit, v.Position)
	case MinimumNotMet:
		return fmt.Sprintf("Please select at least %d candidate(s) for %s to proceed.", v.Limit, v.Position)
	case EmptyBallot:
		return "Please select at least one candidate to vote."
	case OverLimit:
		return fmt.Sprintf("For %s, you can select a maximum of %d candidates. You selected %d.", v.Position, v.Limit, v.Selected)
	default:
		return "invalid selection"
	}
}

// IsViolation reports whether err is a constraint violation of the given kind.
func IsViolation(err error, kind ViolationKind) bool {
	var v *Violation
	return errors.As(err, &v) && v.Kind == kind
}

const defaultSubmitFailure = "Failed to submit your vote. Please try again."

// Reasoner is implemented by sink errors that carry a voter-facing reason
// apart from their diagnostic text. An empty reason means none was given.
type Reasoner interface {
	Reason() string
}

// SubmissionError is a rejection by the vote sink. The voter stays on review
// and may retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	var r Reasoner
	if errors.As(e.Err, &r) {
		if reason := r.Reason(); reason != "" {
			return reason
		}
		return defaultSubmitFailure
	}
	if e.Err == nil || e.Err.Error() == "" {
		return defaultSubmitFailure
	}
	return e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// LoadError is a failed directory or status fetch. It ends the session.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
