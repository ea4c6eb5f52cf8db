package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravadigital/election-portal/internal/ballot"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5B8DEF")).Padding(0, 1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	winnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	currentStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5B8DEF")).Padding(0, 1)
)

// View renders the current screen.
func (a *App) View() string {
	var body string
	if a.screen == screenResults {
		body = a.resultsView()
	} else {
		body = a.ballotView()
	}

	tabs := []string{"Ballot", "Results"}
	tabs[a.screen] = currentStyle.Render(tabs[a.screen])

	box := boxStyle
	if a.width > 40 {
		box = box.Width(a.width - 2)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Election Portal")+"  "+strings.Join(tabs, mutedStyle.Render(" | ")),
		"",
		box.Render(body),
		a.help.View(a.keys),
	)
}

func (a *App) ballotView() string {
	w := a.workflow
	state := w.State()

	switch state.Kind {
	case ballot.KindLoading:
		return a.spinner.View() + " " + w.StageTitle()
	case ballot.KindClosed, ballot.KindAlreadyVoted:
		return noticeStyle.Render(sentence(w.Err()))
	case ballot.KindLoadFailed:
		return errorStyle.Render(w.Err().Error()) + "\n" + mutedStyle.Render("Press r to try again.")
	case ballot.KindSubmitted:
		return successStyle.Render(w.Confirmation())
	}

	var b strings.Builder
	b.WriteString(progressLine(w.StageNames(), state.Stage))
	b.WriteString("\n\n")
	b.WriteString(headingStyle.Render(w.StageTitle()))
	b.WriteString("\n")

	if state.Kind == ballot.KindReview {
		a.writeReview(&b)
	} else {
		a.writeStage(&b)
	}
	return b.String()
}

func (a *App) writeStage(b *strings.Builder) {
	w := a.workflow
	pos, _ := w.CurrentPosition()

	if pos.Description != "" {
		b.WriteString(mutedStyle.Render(pos.Description) + "\n")
	}
	b.WriteString(pos.SelectionHint() + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Selected %d of %d", w.SelectedCount(pos.ID), pos.MaxSelectable)) + "\n\n")

	candidates := w.CandidatesForStage()
	if len(candidates) == 0 {
		b.WriteString(mutedStyle.Render("No candidates are running for this position.") + "\n")
	}
	for i, c := range candidates {
		cursor := "  "
		if i == a.cursor {
			cursor = accentStyle.Render("› ")
		}
		box := "[ ]"
		if w.IsSelected(c.ID) {
			box = successStyle.Render("[x]")
		}
		b.WriteString(cursor + box + " " + c.FullName() + "\n")
	}

	if notice := w.Notice(); notice != nil {
		b.WriteString("\n" + noticeStyle.Render(notice.Error()) + "\n")
	}
}

func (a *App) writeReview(b *strings.Builder) {
	w := a.workflow
	for _, entry := range w.ReviewSummary() {
		b.WriteString("\n" + headingStyle.Render(entry.Position.Name) + "\n")
		if len(entry.Chosen) == 0 {
			b.WriteString(mutedStyle.Render("  No selection") + "\n")
			continue
		}
		for _, c := range entry.Chosen {
			b.WriteString("  • " + c.FullName() + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case w.Submitting():
		b.WriteString(a.spinner.View() + " Submitting your vote...")
	case w.SubmitError() != nil:
		b.WriteString(errorStyle.Render(w.SubmitError().Error()))
	default:
		b.WriteString(mutedStyle.Render("Press enter to submit your vote."))
	}
}

func (a *App) resultsView() string {
	switch {
	case a.resultsLoading:
		return a.spinner.View() + " Loading results..."
	case a.resultsErr != nil:
		return errorStyle.Render("Failed to load results: "+a.resultsErr.Error()) + "\n" + mutedStyle.Render("Press r to try again.")
	case !a.resultsLoaded:
		return mutedStyle.Render("Press r to load results.")
	}
	return renderResults(a.view)
}

// renderResults draws a tabulated view. It is pure so tests can call it.
func renderResults(view tabulation.View) string {
	if notice := view.Notice(); notice != "" {
		return noticeStyle.Render(notice)
	}

	var b strings.Builder
	for i, p := range view.Positions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(p.PositionName) + "\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Winners: %d · Total votes: %d", p.NumberOfWinners, p.TotalVotes)) + "\n")

		if len(p.Rows) == 0 {
			b.WriteString(mutedStyle.Render(tabulation.NoCandidatesNotice) + "\n")
			continue
		}
		for _, row := range p.Rows {
			line := fmt.Sprintf("%2d. %-28s %5d votes %4d%%", row.Rank, fullName(row.CandidateTally), row.Votes, row.Percent())
			switch {
			case row.Winner:
				line = winnerStyle.Render(line + "  ★ Winner")
			case row.TiedForLastSeat:
				line = noticeStyle.Render(line + "  " + tabulation.TiedForLastSeatNote)
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func progressLine(names []string, current int) string {
	parts := make([]string, len(names))
	for i, name := range names {
		switch {
		case i == current:
			parts[i] = currentStyle.Render(name)
		case i < current:
			parts[i] = successStyle.Render(name)
		default:
			parts[i] = mutedStyle.Render(name)
		}
	}
	return strings.Join(parts, mutedStyle.Render(" › "))
}

func fullName(c tabulation.CandidateTally) string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// sentence capitalizes an error message for display.
func sentence(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}
