package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/response"
	"github.com/gravadigital/election-portal/internal/services"
	"github.com/gravadigital/election-portal/internal/validation"
)

// PositionService is what the position routes need
type PositionService interface {
	List(ctx context.Context, status, sortBy string) ([]*election.Position, error)
	Get(ctx context.Context, id string) (*election.Position, error)
	Create(ctx context.Context, req services.PositionRequest) (*election.Position, error)
	Update(ctx context.Context, id string, req services.PositionRequest) (*election.Position, error)
	Delete(ctx context.Context, id string) error
}

// CandidateService is what the candidate routes need
type CandidateService interface {
	List(ctx context.Context, positionID string) ([]*election.Candidate, error)
	Get(ctx context.Context, id string) (*election.Candidate, error)
	Create(ctx context.Context, req services.CandidateRequest) (*election.Candidate, error)
	Update(ctx context.Context, id string, req services.CandidateRequest) (*election.Candidate, error)
	SetPortrait(ctx context.Context, id, ref string) (*election.Candidate, error)
	Delete(ctx context.Context, id string) error
}

// ElectionService is what the lifecycle routes need
type ElectionService interface {
	IsVotingOpen(ctx context.Context) (bool, error)
	VotingStatus(ctx context.Context) (*services.AdminStatus, error)
	OpenVoting(ctx context.Context) (*services.AdminStatus, error)
	CloseVoting(ctx context.Context) (*services.AdminStatus, error)
	ClearDatabase(ctx context.Context) (int64, error)
}

// BallotService is what the vote routes need
type BallotService interface {
	HasVoted(ctx context.Context, voterID string) (bool, error)
	Cast(ctx context.Context, voterID string, votes map[string][]string) (string, error)
}

// errorResponse writes err with the status its type calls for. Unknown
// errors are logged and answered with fallback.
func errorResponse(c *gin.Context, l *log.Logger, err error, fallback string) {
	var (
		validationErr *services.ValidationError
		fieldErr      *validation.FieldError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.ConflictError
		forbiddenErr  *services.ForbiddenError
	)

	switch {
	case errors.As(err, &validationErr):
		response.BadRequestError(c, validationErr.Message)
	case errors.As(err, &fieldErr):
		response.BadRequestError(c, fieldErr.Error())
	case errors.As(err, &notFoundErr):
		response.NotFoundError(c, notFoundErr.Message)
	case errors.As(err, &conflictErr):
		response.ConflictError(c, conflictErr.Message)
	case errors.As(err, &forbiddenErr):
		response.ForbiddenError(c, forbiddenErr.Message)
	default:
		l.Error(fallback, "error", err, "path", c.FullPath())
		response.ErrorResponseWithMessage(c, http.StatusInternalServerError, fallback)
	}
}

func bindJSON(c *gin.Context, l *log.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		l.Warn("invalid request payload", "path", c.FullPath(), "error", err)
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}
