package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("Board", "name"))

	err := ValidateRequired("  ", "name")
	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "name", fieldErr.Field)
	assert.EqualError(t, err, "name is required")
}

func TestValidateMaxLengthCountsRunes(t *testing.T) {
	assert.NoError(t, ValidateMaxLength("ñandú", 5, "name"))
	assert.EqualError(t, ValidateMaxLength(strings.Repeat("a", 6), 5, "name"), "name must be at most 5 characters long")
}

func TestValidateUUID(t *testing.T) {
	want := uuid.New()

	got, err := ValidateUUID(" "+want.String()+" ", "positionId")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = ValidateUUID("nope", "positionId")
	assert.EqualError(t, err, "positionId must be a valid UUID")
}

func TestPositionValidationSelectable(t *testing.T) {
	v := PositionValidation{}

	assert.NoError(t, v.ValidateSelectable(0, 1))
	assert.NoError(t, v.ValidateSelectable(2, 2))
	assert.EqualError(t, v.ValidateSelectable(-1, 2), "minSelectable must not be negative")
	assert.EqualError(t, v.ValidateSelectable(0, 0), "maxSelectable must be at least 1")
	assert.EqualError(t, v.ValidateSelectable(3, 2), "minSelectable cannot be greater than maxSelectable")
	assert.EqualError(t, v.ValidateWinners(-1), "numberOfWinners must not be negative")
}

func TestCandidateValidationName(t *testing.T) {
	v := CandidateValidation{}

	assert.NoError(t, v.ValidateName("Ana", "Alvarez"))
	assert.EqualError(t, v.ValidateName("Ana", ""), "lastName is required")
	assert.EqualError(t, v.ValidateName("", "Alvarez"), "firstName is required")
}
