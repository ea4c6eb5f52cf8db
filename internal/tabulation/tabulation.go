// Package tabulation turns a results snapshot into ranked, display-ready rows.
// It never counts votes itself; totals come from the results source already
// sorted by votes descending.
package tabulation

import (
	"context"
	"math"
)

const (
	PendingNotice       = "Voting is currently open. Results will be available once voting has closed."
	EmptyNotice         = "No election results are currently available."
	NoCandidatesNotice  = "No candidates or votes recorded for this position."
	TiedForLastSeatNote = "Tied for last winning seat"
)

// Source fetches the latest results snapshot.
type Source interface {
	Results(ctx context.Context) (Snapshot, error)
}

// CandidateTally is one candidate's vote count.
type CandidateTally struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PortraitRef string `json:"portraitRef,omitempty"`
	Votes       int    `json:"votes"`
}

// PositionTally holds a position's candidates, highest votes first.
type PositionTally struct {
	PositionID      string           `json:"positionId"`
	PositionName    string           `json:"positionName"`
	NumberOfWinners int              `json:"numberOfWinners"`
	Candidates      []CandidateTally `json:"candidates"`
}

// Snapshot is the whole results payload. It is replaced on every fetch.
type Snapshot struct {
	IsVotingOpen bool            `json:"isVotingOpen"`
	Positions    []PositionTally `json:"positions"`
}

// Row is a candidate with its derived standing.
type Row struct {
	CandidateTally
	Rank            int
	Share           float64
	Winner          bool
	TiedForLastSeat bool
}

// Percent is the share rounded half away from zero.
func (r Row) Percent() int {
	return int(math.Round(r.Share))
}

// PositionView is the tabulated form of one position.
type PositionView struct {
	PositionID      string
	PositionName    string
	NumberOfWinners int
	TotalVotes      int
	Rows            []Row
}

// View is what a results screen renders. When Pending is set no rows are
// produced at all.
type View struct {
	Pending   bool
	Positions []PositionView
}

// Notice returns the banner for pending or empty results, or "".
func (v View) Notice() string {
	switch {
	case v.Pending:
		return PendingNotice
	case len(v.Positions) == 0:
		return EmptyNotice
	default:
		return ""
	}
}

// Tabulate ranks every position of the snapshot. Candidate order is kept as
// delivered.
func Tabulate(s Snapshot) View {
	if s.IsVotingOpen {
		return View{Pending: true}
	}

	view := View{Positions: make([]PositionView, 0, len(s.Positions))}
	for _, p := range s.Positions {
		view.Positions = append(view.Positions, tabulatePosition(p))
	}
	return view
}

func tabulatePosition(p PositionTally) PositionView {
	pv := PositionView{
		PositionID:      p.PositionID,
		PositionName:    p.PositionName,
		NumberOfWinners: p.NumberOfWinners,
		Rows:            make([]Row, 0, len(p.Candidates)),
	}
	for _, c := range p.Candidates {
		pv.TotalVotes += c.Votes
	}

	winners := p.NumberOfWinners
	boundary := 0
	hasBoundary := winners > 0 && len(p.Candidates) >= winners
	if hasBoundary {
		boundary = p.Candidates[winners-1].Votes
	}

	for i, c := range p.Candidates {
		row := Row{CandidateTally: c, Rank: i + 1}
		row.Winner = row.Rank <= winners
		if pv.TotalVotes > 0 {
			row.Share = float64(c.Votes) / float64(pv.TotalVotes) * 100
		}
		row.TiedForLastSeat = !row.Winner && hasBoundary && boundary > 0 && c.Votes == boundary
		pv.Rows = append(pv.Rows, row)
	}
	return pv
}
