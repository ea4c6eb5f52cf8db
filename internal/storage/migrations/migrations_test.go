package migrations

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMigrationsAreOrderedAndComplete(t *testing.T) {
	all := GetMigrations()

	require.Len(t, all, 6)
	for i, m := range all {
		id, err := strconv.Atoi(m.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, id, "migration %s out of order", m.ID)
		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up)
		assert.NotNil(t, m.Down)
	}
}

func TestSampleElectionIsConsistent(t *testing.T) {
	sample, err := loadSampleElection()
	require.NoError(t, err)
	require.NotEmpty(t, sample.Positions)

	positions := map[string]bool{}
	for _, p := range sample.Positions {
		assert.LessOrEqual(t, p.MinSelectable, p.MaxSelectable, p.Name)
		assert.GreaterOrEqual(t, p.MaxSelectable, 1, p.Name)
		positions[p.ID] = true
	}
	for _, c := range sample.Candidates {
		assert.True(t, positions[c.Position], "candidate %s %s has unknown position", c.FirstName, c.LastName)
	}
}

func TestAllModelsMatchDropOrder(t *testing.T) {
	assert.Len(t, coreTables, len(AllModels()))
	assert.Equal(t, "ballot_entries", coreTables[0])
	assert.Equal(t, "positions", coreTables[len(coreTables)-1])
}
