package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/election-portal/internal/domain/election"
)

func TestResultsService_HiddenWhileVoting(t *testing.T) {
	store := newMemStore()
	store.addPosition("Board", 1, 0, 1, 1)
	store.setStage(election.StageVoting)

	snapshot, err := NewResultsService(store).Results(t.Context())
	require.NoError(t, err)
	assert.True(t, snapshot.IsVotingOpen)
	assert.Empty(t, snapshot.Positions)
}

func TestResultsService_SortsByVotes(t *testing.T) {
	store := newMemStore()
	audit := store.addPosition("Audit", 2, 0, 1, 1)
	board := store.addPosition("Board", 1, 0, 1, 2)
	zed := store.addCandidate("Zoe", "Zed", board)
	amy := store.addCandidate("Amy", "Abel", board)
	top := store.addCandidate("Tom", "Top", board)
	store.addCandidate("Ida", "Idle", audit)
	store.setStage(election.StageVoting)

	ballots := NewBallotService(store)
	for i, pick := range []*election.Candidate{top, top, zed, amy} {
		_, err := ballots.Cast(t.Context(), fmt.Sprintf("voter-%d", i), map[string][]string{
			board.ID.String(): {pick.ID.String()},
		})
		require.NoError(t, err)
	}
	store.setStage(election.StageClosed)

	snapshot, err := NewResultsService(store).Results(t.Context())
	require.NoError(t, err)
	assert.False(t, snapshot.IsVotingOpen)
	require.Len(t, snapshot.Positions, 2)

	first := snapshot.Positions[0]
	assert.Equal(t, "Board", first.PositionName)
	assert.Equal(t, 2, first.NumberOfWinners)
	require.Len(t, first.Candidates, 3)
	assert.Equal(t, "Top", first.Candidates[0].LastName)
	assert.Equal(t, 2, first.Candidates[0].Votes)
	assert.Equal(t, "Abel", first.Candidates[1].LastName, "ties break on last name")
	assert.Equal(t, "Zed", first.Candidates[2].LastName)

	second := snapshot.Positions[1]
	require.Len(t, second.Candidates, 1)
	assert.Zero(t, second.Candidates[0].Votes)
}
