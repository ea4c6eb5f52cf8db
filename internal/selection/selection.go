// Package selection holds a voter's in-progress choices and the
// per-position counting rules shared by the ballot workflow and the API.
//
// Choices are stored flat, keyed by candidate. Every rule is expressed as a
// count grouped by position; iteration order of the flat set carries no
// meaning.
package selection

// Set maps a candidate id to its chosen flag.
type Set map[string]bool

// NewSet returns a set with every given candidate unselected.
func NewSet(candidateIDs []string) Set {
	s := make(Set, len(candidateIDs))
	for _, id := range candidateIDs {
		s[id] = false
	}
	return s
}

// IsSelected reports whether the candidate is chosen.
func (s Set) IsSelected(candidateID string) bool {
	return s[candidateID]
}

// Toggle flips one entry and returns its new value.
func (s Set) Toggle(candidateID string) bool {
	s[candidateID] = !s[candidateID]
	return s[candidateID]
}

// Total counts chosen candidates across all positions.
func (s Set) Total() int {
	n := 0
	for _, chosen := range s {
		if chosen {
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (s Set) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// Ownership maps a candidate id to the id of the position it runs for.
// Candidates without a position are simply absent.
type Ownership map[string]string

// PositionOf returns the owning position of a candidate.
func (o Ownership) PositionOf(candidateID string) (string, bool) {
	positionID, ok := o[candidateID]
	if !ok || positionID == "" {
		return "", false
	}
	return positionID, true
}

// Count returns how many chosen candidates belong to positionID.
func (o Ownership) Count(s Set, positionID string) int {
	n := 0
	for id, chosen := range s {
		if !chosen {
			continue
		}
		if owner, ok := o.PositionOf(id); ok && owner == positionID {
			n++
		}
	}
	return n
}

// CountByPosition groups chosen candidates by position and counts them.
// Chosen candidates with no known position are not counted.
func (o Ownership) CountByPosition(s Set) map[string]int {
	counts := make(map[string]int)
	for id, chosen := range s {
		if !chosen {
			continue
		}
		if owner, ok := o.PositionOf(id); ok {
			counts[owner]++
		}
	}
	return counts
}

// Group returns the chosen candidates of each position. Candidates appear in
// the order given by candidateOrder; positions with no choice are omitted.
func (o Ownership) Group(s Set, candidateOrder []string) map[string][]string {
	grouped := make(map[string][]string)
	for _, id := range candidateOrder {
		if !s[id] {
			continue
		}
		if owner, ok := o.PositionOf(id); ok {
			grouped[owner] = append(grouped[owner], id)
		}
	}
	return grouped
}
