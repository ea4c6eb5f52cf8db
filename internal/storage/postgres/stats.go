package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/election-portal/internal/logger"
)

var electionTables = []string{"positions", "candidates", "election_settings", "ballots", "ballot_entries"}

// TableStats is the size of one election table
type TableStats struct {
	TableName string `json:"tableName"`
	RowCount  int64  `json:"rowCount"`
	TotalSize string `json:"totalSize"`
}

// ElectionStats summarizes what the database holds for the admin dashboard
type ElectionStats struct {
	Positions       int64           `json:"positions"`
	ActivePositions int64           `json:"activePositions"`
	Candidates      int64           `json:"candidates"`
	BallotsCast     int64           `json:"ballotsCast"`
	Tables          []TableStats    `json:"tables,omitempty"`
	Connections     DatabaseMetrics `json:"connections"`
}

// StatsReader reads row counts and table sizes
type StatsReader struct {
	db  *gorm.DB
	log *log.Logger
}

func NewStatsReader(db *gorm.DB) *StatsReader {
	return &StatsReader{
		db:  db,
		log: logger.Repository("stats"),
	}
}

// Election counts positions, candidates and ballots. Table sizes are best
// effort and left out when the catalog query fails.
func (s *StatsReader) Election(ctx context.Context) (*ElectionStats, error) {
	stats := &ElectionStats{}

	counts := []struct {
		table string
		where string
		dest  *int64
	}{
		{"positions", "", &stats.Positions},
		{"positions", "status = 'active'", &stats.ActivePositions},
		{"candidates", "", &stats.Candidates},
		{"ballots", "", &stats.BallotsCast},
	}
	for _, c := range counts {
		query := s.db.WithContext(ctx).Table(c.table)
		if c.where != "" {
			query = query.Where(c.where)
		}
		if err := query.Count(c.dest).Error; err != nil {
			s.log.Error("Failed to count rows", "table", c.table, "error", err)
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	tables, err := s.tableStats(ctx)
	if err != nil {
		s.log.Warn("Failed to get table stats", "error", err)
	} else {
		stats.Tables = tables
	}

	stats.Connections = *GetDatabaseMetrics(s.db)
	return stats, nil
}

func (s *StatsReader) tableStats(ctx context.Context) ([]TableStats, error) {
	query := `
		SELECT relname AS table_name,
			n_live_tup AS row_count,
			pg_size_pretty(pg_total_relation_size(relid)) AS total_size
		FROM pg_stat_user_tables
		WHERE relname IN ?
		ORDER BY relname`

	var stats []TableStats
	if err := s.db.WithContext(ctx).Raw(query, electionTables).Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
