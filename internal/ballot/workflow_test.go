package ballot

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrdersStagesAndStartsUnselected(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	assert.Equal(t, State{Kind: KindPosition, Stage: 0}, w.State())
	assert.Equal(t, []string{"BOD", "Audit", "Review"}, w.StageNames())
	assert.Equal(t, "Vote for: BOD", w.StageTitle())
	assert.Equal(t, 0, w.SelectedCount("BOD"))
	assert.False(t, w.IsSelected("candA"))
	assert.NoError(t, w.Err())

	ids := []string{}
	for _, c := range w.CandidatesForStage() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"candA", "candB", "candC", "candD"}, ids)
}

func TestNewWithoutPositionsGoesStraightToReview(t *testing.T) {
	src := boardAndAudit()
	src.positions = nil

	w := loadWorkflow(src)

	assert.Equal(t, KindReview, w.State().Kind)
	assert.Equal(t, []string{"Review"}, w.StageNames())
	assert.Equal(t, "Review Your Selections", w.StageTitle())
}

func TestToggleRejectsFourthBoardCandidate(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	require.NoError(t, w.Toggle("candA"))
	require.NoError(t, w.Toggle("candB"))
	require.NoError(t, w.Toggle("candC"))

	err := w.Toggle("candD")
	require.Error(t, err)
	assert.True(t, IsViolation(err, LimitReached))
	assert.Equal(t, "You can select a maximum of 3 candidate(s) for BOD.", err.Error())
	assert.Equal(t, err, w.Notice())
	assert.False(t, w.IsSelected("candD"))
	assert.Equal(t, 3, w.SelectedCount("BOD"))
}

func TestToggleDeselectIsAlwaysAllowed(t *testing.T) {
	w := loadWorkflow(boardAndAudit())
	for _, id := range []string{"candA", "candB", "candC"} {
		require.NoError(t, w.Toggle(id))
	}
	require.Error(t, w.Toggle("candD"))

	require.NoError(t, w.Toggle("candB"))
	assert.Nil(t, w.Notice())
	assert.Equal(t, 2, w.SelectedCount("BOD"))
	require.NoError(t, w.Toggle("candD"))
	assert.True(t, w.IsSelected("candD"))
}

func TestToggleRejectsCandidateOfAnotherPosition(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	err := w.Toggle("candX")

	assert.True(t, IsViolation(err, WrongPosition))
	assert.Contains(t, err.Error(), "Please only select candidates for BOD.")
	assert.False(t, w.IsSelected("candX"))
}

func TestToggleIgnoresStaleReferences(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	assert.NoError(t, w.Toggle("ghost"))
	assert.NoError(t, w.Toggle("orphan"))
	assert.False(t, w.IsSelected("orphan"))
	assert.Nil(t, w.Notice())

	require.NoError(t, w.Toggle("candA"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Toggle("candX"))
	require.NoError(t, w.Next())
	require.Equal(t, KindReview, w.State().Kind)

	assert.NoError(t, w.Toggle("candB"))
	assert.False(t, w.IsSelected("candB"))
}

func TestNextRequiresMinimum(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	err := w.Next()
	require.Error(t, err)
	assert.True(t, IsViolation(err, MinimumNotMet))
	assert.Equal(t, "Please select at least 1 candidate(s) for BOD to proceed.", err.Error())
	assert.Equal(t, 0, w.State().Stage)

	require.NoError(t, w.Toggle("candA"))
	require.NoError(t, w.Next())
	assert.Equal(t, State{Kind: KindPosition, Stage: 1}, w.State())
	assert.Equal(t, "Vote for: Audit", w.StageTitle())
	assert.Nil(t, w.Notice())
}

func TestNextIsNoOpOnReview(t *testing.T) {
	w := reviewWorkflow(t)

	assert.NoError(t, w.Next())
	assert.Equal(t, State{Kind: KindReview, Stage: 2}, w.State())
}

func TestPreviousNextRoundTripKeepsSelections(t *testing.T) {
	w := loadWorkflow(boardAndAudit())
	require.NoError(t, w.Toggle("candA"))
	require.NoError(t, w.Toggle("candC"))
	require.NoError(t, w.Next())
	before := maps.Clone(w.selections)

	w.Previous()
	assert.Equal(t, 0, w.State().Stage)
	require.NoError(t, w.Next())

	assert.Equal(t, 1, w.State().Stage)
	assert.Equal(t, before, w.selections)
}

func TestPreviousOnFirstStageDoesNothing(t *testing.T) {
	w := loadWorkflow(boardAndAudit())

	w.Previous()

	assert.Equal(t, State{Kind: KindPosition, Stage: 0}, w.State())
}

func TestPreviousClearsSubmissionError(t *testing.T) {
	w := reviewWorkflow(t)
	sink := &stubSink{err: fmt.Errorf("server unavailable")}
	require.Error(t, w.Submit(context.Background(), sink))
	require.Error(t, w.SubmitError())

	w.Previous()

	assert.Nil(t, w.SubmitError())
	assert.Equal(t, State{Kind: KindPosition, Stage: 1}, w.State())
}

func TestSelectedCountNeverExceedsMaximum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := loadWorkflow(boardAndAudit())
	all := []string{"candA", "candB", "candC", "candD", "candX", "candY", "orphan", "ghost"}

	for i := 0; i < 500; i++ {
		switch rng.Intn(6) {
		case 0:
			_ = w.Next()
		case 1:
			w.Previous()
		default:
			_ = w.Toggle(all[rng.Intn(len(all))])
		}
		assert.LessOrEqual(t, w.SelectedCount("BOD"), 3)
		assert.LessOrEqual(t, w.SelectedCount("Audit"), 1)
		if w.State().Kind == KindPosition && w.State().Stage == 1 {
			assert.GreaterOrEqual(t, w.SelectedCount("BOD"), 1)
		}
	}
}

func TestSubmitPayloadOmitsEmptyPositions(t *testing.T) {
	src := boardAndAudit()
	src.positions[1].MinSelectable = 0
	w := loadWorkflow(src)

	require.NoError(t, w.Next())
	require.NoError(t, w.Toggle("candX"))
	require.NoError(t, w.Next())

	sink := &stubSink{message: "Vote recorded"}
	require.NoError(t, w.Submit(context.Background(), sink))

	require.Len(t, sink.payloads, 1)
	assert.Equal(t, map[string][]string{"Audit": {"candX"}}, sink.payloads[0].VotesByPosition)
	assert.NotContains(t, sink.payloads[0].VotesByPosition, "BOD")
}

func TestSubmitAcceptedEndsWorkflow(t *testing.T) {
	w := reviewWorkflow(t)
	sink := &stubSink{message: "Thanks for voting"}

	require.NoError(t, w.Submit(context.Background(), sink))

	assert.Equal(t, KindSubmitted, w.State().Kind)
	assert.True(t, w.State().Kind.Terminal())
	assert.Equal(t, "Thanks for voting", w.Confirmation())
	assert.False(t, w.IsSelected("candA"))
	assert.Equal(t, 0, w.selections.Total())
	assert.Equal(t, map[string][]string{"BOD": {"candA", "candC"}, "Audit": {"candX"}}, sink.payloads[0].VotesByPosition)
}

func TestSubmitUsesDefaultConfirmation(t *testing.T) {
	w := reviewWorkflow(t)

	require.NoError(t, w.Submit(context.Background(), &stubSink{}))

	assert.Equal(t, "Your vote has been successfully submitted!", w.Confirmation())
}

func TestSubmitIsIdempotentAfterAcceptance(t *testing.T) {
	w := reviewWorkflow(t)
	sink := &stubSink{}
	require.NoError(t, w.Submit(context.Background(), sink))

	assert.NoError(t, w.Submit(context.Background(), sink))
	w.Previous()
	assert.NoError(t, w.Toggle("candA"))

	assert.Len(t, sink.payloads, 1)
	assert.Equal(t, KindSubmitted, w.State().Kind)
}

func TestSubmitWhileInFlightIsNoOp(t *testing.T) {
	w := reviewWorkflow(t)

	payload, err := w.PrepareSubmission()
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.True(t, w.Submitting())

	again, err := w.PrepareSubmission()
	assert.Nil(t, again)
	assert.NoError(t, err)

	w.Previous()
	assert.Equal(t, KindReview, w.State().Kind)

	require.NoError(t, w.CompleteSubmission("ok", nil))
	assert.False(t, w.Submitting())
	assert.Equal(t, KindSubmitted, w.State().Kind)
}

func TestSubmitRejectionStaysOnReview(t *testing.T) {
	w := reviewWorkflow(t)
	sink := &stubSink{err: fmt.Errorf("You have already voted")}

	err := w.Submit(context.Background(), sink)

	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "You have already voted", err.Error())
	assert.Equal(t, KindReview, w.State().Kind)
	assert.Equal(t, err, w.SubmitError())
	assert.True(t, w.IsSelected("candA"))

	sink.err = nil
	require.NoError(t, w.Submit(context.Background(), sink))
	assert.Len(t, sink.payloads, 2)
	assert.Nil(t, w.SubmitError())
}

func TestSubmitRejectionWithoutReasonUsesGenericMessage(t *testing.T) {
	w := reviewWorkflow(t)

	err := w.Submit(context.Background(), &stubSink{err: errors.New("")})

	assert.Equal(t, "Failed to submit your vote. Please try again.", err.Error())
}

type reasonErr struct{ reason string }

func (e reasonErr) Error() string  { return "status 502: " + e.reason }
func (e reasonErr) Reason() string { return e.reason }

func TestSubmitRejectionPrefersReason(t *testing.T) {
	w := reviewWorkflow(t)

	err := w.Submit(context.Background(), &stubSink{err: reasonErr{reason: "Voting is currently closed."}})
	assert.Equal(t, "Voting is currently closed.", err.Error())

	err = w.Submit(context.Background(), &stubSink{err: fmt.Errorf("cast: %w", reasonErr{})})
	assert.Equal(t, "Failed to submit your vote. Please try again.", err.Error())
}

func TestSubmitRejectsEmptyBallot(t *testing.T) {
	src := boardAndAudit()
	src.positions[0].MinSelectable = 0
	src.positions[1].MinSelectable = 0
	w := loadWorkflow(src)
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	sink := &stubSink{}

	err := w.Submit(context.Background(), sink)

	assert.True(t, IsViolation(err, EmptyBallot))
	assert.Equal(t, "Please select at least one candidate to vote.", err.Error())
	assert.Empty(t, sink.payloads)
	assert.Equal(t, KindReview, w.State().Kind)
}

func TestSubmitRejectsOverLimitSelections(t *testing.T) {
	w := reviewWorkflow(t)
	w.selections["candY"] = true
	sink := &stubSink{}

	err := w.Submit(context.Background(), sink)

	assert.True(t, IsViolation(err, OverLimit))
	assert.Equal(t, "For Audit, you can select a maximum of 1 candidates. You selected 2.", err.Error())
	assert.Empty(t, sink.payloads)
	assert.False(t, w.Submitting())
}

func TestSubmitOutsideReviewIsNoOp(t *testing.T) {
	w := loadWorkflow(boardAndAudit())
	require.NoError(t, w.Toggle("candA"))
	sink := &stubSink{}

	assert.NoError(t, w.Submit(context.Background(), sink))
	assert.Empty(t, sink.payloads)
}

func TestReviewSummaryListsChoicesPerPosition(t *testing.T) {
	w := reviewWorkflow(t)

	summary := w.ReviewSummary()

	require.Len(t, summary, 2)
	assert.Equal(t, "BOD", summary[0].Position.Name)
	require.Len(t, summary[0].Chosen, 2)
	assert.Equal(t, "Ana Alvarez", summary[0].Chosen[0].FullName())
	assert.Equal(t, "Carla Cruz", summary[0].Chosen[1].FullName())
	assert.Equal(t, "Audit", summary[1].Position.Name)
	require.Len(t, summary[1].Chosen, 1)
	assert.Equal(t, "candX", summary[1].Chosen[0].ID)
}

func TestSelectionHint(t *testing.T) {
	w := loadWorkflow(boardAndAudit())
	positions := w.Positions()

	assert.Equal(t, "Select between 1 and 3 candidate(s) for BOD.", positions[0].SelectionHint())
	assert.Equal(t, "Select exactly 1 candidate(s) for Audit.", positions[1].SelectionHint())
}

// reviewWorkflow selects candA and candC on BOD and candX on Audit and stops
// on review.
func reviewWorkflow(t *testing.T) *Workflow {
	t.Helper()
	w := loadWorkflow(boardAndAudit())
	require.NoError(t, w.Toggle("candA"))
	require.NoError(t, w.Toggle("candC"))
	require.NoError(t, w.Next())
	require.NoError(t, w.Toggle("candX"))
	require.NoError(t, w.Next())
	require.Equal(t, KindReview, w.State().Kind)
	return w
}
