package election

import (
	"database/sql/driver"
	"fmt"
)

// Stage is the lifecycle phase of the election.
type Stage byte

const (
	StageSetup Stage = iota
	StageVoting
	StageClosed
)

func (s Stage) String() string {
	switch s {
	case StageSetup:
		return "setup"
	case StageVoting:
		return "voting"
	case StageClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StageFromString converts a string to a Stage
func StageFromString(s string) (Stage, bool) {
	switch s {
	case "setup":
		return StageSetup, true
	case "voting":
		return StageVoting, true
	case "closed":
		return StageClosed, true
	default:
		return StageSetup, false
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Stage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Stage) UnmarshalJSON(data []byte) error {
	stage, valid := StageFromString(unquote(data))
	if !valid {
		return fmt.Errorf("invalid stage: %s", data)
	}
	*s = stage
	return nil
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Stage) Scan(value interface{}) error {
	if value == nil {
		*s = StageSetup
		return nil
	}
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into Stage", value)
	}
	stage, valid := StageFromString(str)
	if !valid {
		return fmt.Errorf("invalid stage value: %s", str)
	}
	*s = stage
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Stage) Value() (driver.Value, error) {
	return s.String(), nil
}

// PositionStatus tells whether a position takes part in the election.
type PositionStatus byte

const (
	StatusActive PositionStatus = iota
	StatusInactive
)

func (s PositionStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// PositionStatusFromString converts a string to a PositionStatus
func PositionStatusFromString(s string) (PositionStatus, bool) {
	switch s {
	case "active":
		return StatusActive, true
	case "inactive":
		return StatusInactive, true
	default:
		return StatusActive, false
	}
}

func (s PositionStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *PositionStatus) UnmarshalJSON(data []byte) error {
	status, valid := PositionStatusFromString(unquote(data))
	if !valid {
		return fmt.Errorf("invalid position status: %s", data)
	}
	*s = status
	return nil
}

func (s *PositionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = StatusActive
		return nil
	}
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("cannot scan %T into PositionStatus", value)
	}
	status, valid := PositionStatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid position status value: %s", str)
	}
	*s = status
	return nil
}

func (s PositionStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func unquote(data []byte) string {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	return str
}

// postgres enums arrive as string or []byte depending on the driver path
func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", value)
	}
}
