package migrations

import "github.com/gravadigital/election-portal/internal/domain/election"

// AllModels lists the tables AutoMigrate creates, parents first.
func AllModels() []any {
	return []any{
		&election.Position{},
		&election.Candidate{},
		&election.Settings{},
		&election.Ballot{},
		&election.BallotEntry{},
	}
}

// coreTables lists the same tables children first, for dropping.
var coreTables = []string{
	"ballot_entries",
	"ballots",
	"election_settings",
	"candidates",
	"positions",
}
