package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrSettingsNotFound  = errors.New("election settings not found")
	ErrDuplicatePosition = errors.New("a position with this name already exists")
	ErrPositionInUse     = errors.New("position still has candidates")
	ErrAlreadyVoted      = errors.New("voter has already cast a ballot")
	ErrVotingNotOpen     = errors.New("ballots are only accepted while voting is open")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	raiseException      = "P0001"
)

// pgCode extracts the SQLSTATE of a postgres error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || strings.Contains(pgErr.ConstraintName, constraint)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
