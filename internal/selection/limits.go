package selection

import (
	"errors"
	"fmt"
)

var ErrInvalidLimits = errors.New("invalid selection limits")

// Limits are the inclusive bounds on how many candidates a voter may choose
// for one position.
type Limits struct {
	Min int
	Max int
}

// Validate checks 0 <= Min <= Max.
func (l Limits) Validate() error {
	if l.Min < 0 {
		return fmt.Errorf("%w: minimum %d is negative", ErrInvalidLimits, l.Min)
	}
	if l.Max < l.Min {
		return fmt.Errorf("%w: minimum %d exceeds maximum %d", ErrInvalidLimits, l.Min, l.Max)
	}
	return nil
}

// CanAdd reports whether one more choice fits next to current ones.
func (l Limits) CanAdd(current int) bool {
	return current < l.Max
}

// MinimumMet reports whether count satisfies the minimum. A zero minimum is
// always met.
func (l Limits) MinimumMet(count int) bool {
	return l.Min <= 0 || count >= l.Min
}

// Exact reports whether the bounds pin a single count.
func (l Limits) Exact() bool {
	return l.Min == l.Max
}

// BreachKind tells which bound a count broke.
type BreachKind int

const (
	TooFew BreachKind = iota + 1
	TooMany
)

func (k BreachKind) String() string {
	switch k {
	case TooFew:
		return "too_few"
	case TooMany:
		return "too_many"
	default:
		return "unknown"
	}
}

// Breach reports a position whose count falls outside its limits.
type Breach struct {
	PositionID string
	Kind       BreachKind
	Count      int
	Limits     Limits
}

func (b *Breach) Error() string {
	if b.Kind == TooFew {
		return fmt.Sprintf("position %s needs at least %d selection(s), got %d", b.PositionID, b.Limits.Min, b.Count)
	}
	return fmt.Sprintf("position %s allows at most %d selection(s), got %d", b.PositionID, b.Limits.Max, b.Count)
}

// CheckMax returns the first position, walking order, whose count exceeds its
// maximum. Positions without limits are skipped.
func CheckMax(counts map[string]int, limits map[string]Limits, order []string) *Breach {
	for _, positionID := range order {
		count, present := counts[positionID]
		lim, known := limits[positionID]
		if !present || !known {
			continue
		}
		if count > lim.Max {
			return &Breach{PositionID: positionID, Kind: TooMany, Count: count, Limits: lim}
		}
	}
	return nil
}

// CheckBounds is CheckMax plus the minimum, applied only to positions that
// have at least one choice.
func CheckBounds(counts map[string]int, limits map[string]Limits, order []string) *Breach {
	if breach := CheckMax(counts, limits, order); breach != nil {
		return breach
	}
	for _, positionID := range order {
		count, present := counts[positionID]
		lim, known := limits[positionID]
		if !present || !known || count == 0 {
			continue
		}
		if !lim.MinimumMet(count) {
			return &Breach{PositionID: positionID, Kind: TooFew, Count: count, Limits: lim}
		}
	}
	return nil
}
