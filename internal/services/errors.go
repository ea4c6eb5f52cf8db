package services

import (
	"errors"

	"github.com/gravadigital/election-portal/internal/storage/postgres"
)

// ValidationError is a request the caller has to fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError names a missing resource.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError is a request that clashes with current state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ForbiddenError is a request not allowed in the current election stage.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

const (
	msgVotingClosed   = "Voting is currently closed."
	msgAlreadyVoted   = "You have already voted."
	msgLockedByVoting = "The ballot cannot be changed while voting is open."
)

// translate maps repository sentinels to service errors. Other errors pass
// through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, postgres.ErrPositionNotFound):
		return &NotFoundError{Message: "Position not found."}
	case errors.Is(err, postgres.ErrCandidateNotFound):
		return &NotFoundError{Message: "Candidate not found."}
	case errors.Is(err, postgres.ErrDuplicatePosition):
		return &ConflictError{Message: "A position with this name already exists."}
	case errors.Is(err, postgres.ErrPositionInUse):
		return &ConflictError{Message: "Remove the candidates of this position before deleting it."}
	case errors.Is(err, postgres.ErrAlreadyVoted):
		return &ConflictError{Message: msgAlreadyVoted}
	case errors.Is(err, postgres.ErrVotingNotOpen):
		return &ForbiddenError{Message: msgVotingClosed}
	default:
		return err
	}
}
