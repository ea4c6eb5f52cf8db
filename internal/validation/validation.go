package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FieldError is a request field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

// ValidateRequired checks a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: fieldName, Message: "is required"}
	}
	return nil
}

// ValidateMaxLength checks the rune length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return &FieldError{Field: fieldName, Message: fmt.Sprintf("must be at most %d characters long", maxLength)}
	}
	return nil
}

// ValidateUUID parses a uuid field
func ValidateUUID(value, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &FieldError{Field: fieldName, Message: "must be a valid UUID"}
	}
	return id, nil
}

// ValidateNonNegative checks an integer field is zero or more
func ValidateNonNegative(value int, fieldName string) error {
	if value < 0 {
		return &FieldError{Field: fieldName, Message: "must not be negative"}
	}
	return nil
}

// PositionValidation holds the checks for position requests
type PositionValidation struct{}

func (v PositionValidation) ValidateName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "name")
}

func (v PositionValidation) ValidateDescription(description string) error {
	return ValidateMaxLength(description, 1000, "description")
}

// ValidateSelectable checks 0 <= min <= max and max >= 1
func (v PositionValidation) ValidateSelectable(minSelectable, maxSelectable int) error {
	if err := ValidateNonNegative(minSelectable, "minSelectable"); err != nil {
		return err
	}
	if maxSelectable < 1 {
		return &FieldError{Field: "maxSelectable", Message: "must be at least 1"}
	}
	if minSelectable > maxSelectable {
		return &FieldError{Field: "minSelectable", Message: "cannot be greater than maxSelectable"}
	}
	return nil
}

func (v PositionValidation) ValidateWinners(numberOfWinners int) error {
	return ValidateNonNegative(numberOfWinners, "numberOfWinners")
}

// CandidateValidation holds the checks for candidate requests
type CandidateValidation struct{}

func (v CandidateValidation) ValidateName(firstName, lastName string) error {
	fields := []struct{ name, value string }{
		{"firstName", firstName},
		{"lastName", lastName},
	}
	for _, f := range fields {
		if err := ValidateRequired(f.value, f.name); err != nil {
			return err
		}
		if err := ValidateMaxLength(f.value, 100, f.name); err != nil {
			return err
		}
	}
	return nil
}

func (v CandidateValidation) ValidatePortraitRef(ref string) error {
	return ValidateMaxLength(ref, 512, "portraitRef")
}
