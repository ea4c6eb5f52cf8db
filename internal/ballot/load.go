package ballot

import "context"

// PositionDirectory lists the active positions.
type PositionDirectory interface {
	ActivePositions(ctx context.Context) ([]Position, error)
}

// CandidateDirectory lists every candidate.
type CandidateDirectory interface {
	Candidates(ctx context.Context) ([]Candidate, error)
}

// ElectionStatus reports whether voting is open.
type ElectionStatus interface {
	VotingOpen(ctx context.Context) (bool, error)
}

// VoteStatus reports whether the current voter already voted.
type VoteStatus interface {
	HasVoted(ctx context.Context) (bool, error)
}

// VoteSink accepts a payload and returns a confirmation message, or an error
// whose text is a human-readable reason.
type VoteSink interface {
	CastVote(ctx context.Context, payload Payload) (string, error)
}

// Sources bundles the collaborators needed to build a workflow.
type Sources struct {
	Election   ElectionStatus
	Votes      VoteStatus
	Positions  PositionDirectory
	Candidates CandidateDirectory
}

// Fetch is the outcome of one collaborator call. Done is false when the call
// was never made because an earlier result already decided the session.
type Fetch[T any] struct {
	Value T
	Err   error
	Done  bool
}

func fetch[T any](ctx context.Context, call func(context.Context) (T, error)) Fetch[T] {
	value, err := call(ctx)
	return Fetch[T]{Value: value, Err: err, Done: true}
}

// LoadResult holds one explicit result per collaborator.
type LoadResult struct {
	VotingOpen Fetch[bool]
	HasVoted   Fetch[bool]
	Positions  Fetch[[]Position]
	Candidates Fetch[[]Candidate]
}

// Load queries the collaborators in order: election status, vote status,
// active positions, candidates. It stops as soon as the session is decided
// (voting closed, already voted, or a failed call). Nothing is retried.
func Load(ctx context.Context, src Sources) LoadResult {
	var res LoadResult

	res.VotingOpen = fetch(ctx, src.Election.VotingOpen)
	if res.VotingOpen.Err != nil || !res.VotingOpen.Value {
		return res
	}

	res.HasVoted = fetch(ctx, src.Votes.HasVoted)
	if res.HasVoted.Err != nil || res.HasVoted.Value {
		return res
	}

	res.Positions = fetch(ctx, src.Positions.ActivePositions)
	if res.Positions.Err != nil {
		return res
	}

	res.Candidates = fetch(ctx, src.Candidates.Candidates)
	return res
}

// Resolve folds the load results into the initial state kind. KindPosition
// stands for "ready to vote"; New turns it into the first real stage.
func (r LoadResult) Resolve() (Kind, error) {
	switch {
	case !r.VotingOpen.Done:
		return KindLoading, nil
	case r.VotingOpen.Err != nil:
		return KindLoadFailed, &LoadError{Resource: "election status", Err: r.VotingOpen.Err}
	case !r.VotingOpen.Value:
		return KindClosed, ErrVotingClosed
	case !r.HasVoted.Done:
		return KindLoading, nil
	case r.HasVoted.Err != nil:
		return KindLoadFailed, &LoadError{Resource: "vote status", Err: r.HasVoted.Err}
	case r.HasVoted.Value:
		return KindAlreadyVoted, ErrAlreadyVoted
	case !r.Positions.Done:
		return KindLoading, nil
	case r.Positions.Err != nil:
		return KindLoadFailed, &LoadError{Resource: "positions", Err: r.Positions.Err}
	case !r.Candidates.Done:
		return KindLoading, nil
	case r.Candidates.Err != nil:
		return KindLoadFailed, &LoadError{Resource: "candidates", Err: r.Candidates.Err}
	default:
		return KindPosition, nil
	}
}
