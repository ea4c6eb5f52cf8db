// Package tui is the terminal voting client. A single bubbletea event loop
// owns the ballot workflow; collaborator calls run as commands and report
// back as messages.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/gravadigital/election-portal/internal/ballot"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

// screen is which view the app shows
type screen int

const (
	screenBallot screen = iota
	screenResults
)

type ballotLoadedMsg struct {
	result ballot.LoadResult
}

type voteSubmittedMsg struct {
	message string
	err     error
}

type resultsLoadedMsg struct {
	snapshot tabulation.Snapshot
	err      error
}

// Option customizes App construction.
type Option func(*App)

// WithResultsFirst opens the results screen on start.
func WithResultsFirst() Option {
	return func(a *App) {
		a.screen = screenResults
	}
}

// App is the bubbletea model of the voting client.
type App struct {
	ctx     context.Context
	sources ballot.Sources
	sink    ballot.VoteSink
	results tabulation.Source

	screen   screen
	workflow *ballot.Workflow
	loading  bool
	cursor   int

	view           tabulation.View
	resultsLoaded  bool
	resultsLoading bool
	resultsErr     error

	spinner spinner.Model
	keys    keyMap
	help    help.Model
	width   int
	log     *log.Logger
}

// New creates the app. ctx bounds every collaborator call.
func New(ctx context.Context, sources ballot.Sources, sink ballot.VoteSink, results tabulation.Source, opts ...Option) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	a := &App{
		ctx:      ctx,
		sources:  sources,
		sink:     sink,
		results:  results,
		screen:   screenBallot,
		workflow: ballot.Loading(),
		spinner:  sp,
		keys:     defaultKeyMap(),
		help:     help.New(),
		log:      logger.Ballot(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init starts loading the ballot, and the results when they are shown first.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.startLoad(), a.spinner.Tick}
	if a.screen == screenResults {
		cmds = append(cmds, a.startResults())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the next model and command.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ballotLoadedMsg:
		a.loading = false
		a.cursor = 0
		a.workflow = ballot.New(msg.result)
		if err := a.workflow.Err(); err != nil {
			a.log.Info("ballot unavailable", "state", a.workflow.State().Kind, "reason", err)
		}
		return a, nil

	case voteSubmittedMsg:
		if err := a.workflow.CompleteSubmission(msg.message, msg.err); err != nil {
			a.log.Warn("vote rejected", "reason", err)
		} else {
			a.log.Info("vote submitted")
		}
		return a, nil

	case resultsLoadedMsg:
		a.resultsLoading = false
		a.resultsErr = msg.err
		if msg.err == nil {
			a.view = tabulation.Tabulate(msg.snapshot)
			a.resultsLoaded = true
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil
	case key.Matches(msg, a.keys.Switch):
		return a.switchScreen()
	case key.Matches(msg, a.keys.Reload):
		return a.reload()
	}

	if a.screen != screenBallot || a.loading {
		return a, nil
	}

	w := a.workflow
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(w.CandidatesForStage())-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Toggle):
		candidates := w.CandidatesForStage()
		if a.cursor < len(candidates) {
			_ = w.Toggle(candidates[a.cursor].ID)
		}
	case key.Matches(msg, a.keys.Next):
		if err := w.Next(); err == nil {
			a.cursor = 0
		}
	case key.Matches(msg, a.keys.Previous):
		stage := w.State().Stage
		w.Previous()
		if w.State().Stage != stage {
			a.cursor = 0
		}
	case key.Matches(msg, a.keys.Submit):
		return a.submit()
	}
	return a, nil
}

func (a *App) switchScreen() (tea.Model, tea.Cmd) {
	if a.screen == screenBallot {
		a.screen = screenResults
		if !a.resultsLoaded && !a.resultsLoading {
			return a, tea.Batch(a.startResults(), a.spinner.Tick)
		}
		return a, nil
	}
	a.screen = screenBallot
	return a, nil
}

// reload refetches what the current screen shows. A ballot in flight or
// already submitted is left alone.
func (a *App) reload() (tea.Model, tea.Cmd) {
	if a.screen == screenResults {
		if a.resultsLoading {
			return a, nil
		}
		return a, tea.Batch(a.startResults(), a.spinner.Tick)
	}
	if a.loading || a.workflow.Submitting() || a.workflow.State().Kind == ballot.KindSubmitted {
		return a, nil
	}
	return a, tea.Batch(a.startLoad(), a.spinner.Tick)
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	payload, err := a.workflow.PrepareSubmission()
	if err != nil || payload == nil {
		return a, nil
	}

	a.log.Info("submitting vote", "selections", payload.Total())
	ctx, sink := a.ctx, a.sink
	submitCmd := func() tea.Msg {
		message, err := sink.CastVote(ctx, *payload)
		return voteSubmittedMsg{message: message, err: err}
	}
	return a, tea.Batch(submitCmd, a.spinner.Tick)
}

func (a *App) startLoad() tea.Cmd {
	a.loading = true
	a.workflow = ballot.Loading()
	ctx, sources := a.ctx, a.sources
	return func() tea.Msg {
		return ballotLoadedMsg{result: ballot.Load(ctx, sources)}
	}
}

func (a *App) startResults() tea.Cmd {
	a.resultsLoading = true
	ctx, source := a.ctx, a.results
	return func() tea.Msg {
		snapshot, err := source.Results(ctx)
		return resultsLoadedMsg{snapshot: snapshot, err: err}
	}
}

func (a *App) busy() bool {
	return a.loading || a.resultsLoading || a.workflow.Submitting()
}
