package ballot

// Kind is the variant of the workflow state.
type Kind int

const (
	KindLoading Kind = iota
	KindPosition
	KindReview
	KindSubmitted
	KindClosed
	KindAlreadyVoted
	KindLoadFailed
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindPosition:
		return "position"
	case KindReview:
		return "review"
	case KindSubmitted:
		return "submitted"
	case KindClosed:
		return "closed"
	case KindAlreadyVoted:
		return "already_voted"
	case KindLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves this kind.
func (k Kind) Terminal() bool {
	switch k {
	case KindSubmitted, KindClosed, KindAlreadyVoted, KindLoadFailed:
		return true
	default:
		return false
	}
}

// State is the single explicit value describing where the voter is.
// Stage indexes the stage list and is meaningful only for KindPosition and
// KindReview.
type State struct {
	Kind  Kind
	Stage int
}

// Voting reports whether the voter is on a position stage or on review.
func (s State) Voting() bool {
	return s.Kind == KindPosition || s.Kind == KindReview
}
