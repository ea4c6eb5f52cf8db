package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravadigital/election-portal/internal/client"
	"github.com/gravadigital/election-portal/internal/config"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/tui"
)

func main() {
	cfg := config.Load()

	results := flag.Bool("results", false, "Open the results screen first")
	apiURL := flag.String("api", cfg.Client.APIURL, "Election API base URL")
	flag.Parse()

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger.InitializeWithWriter(cfg.Log.Level, logFile)

	if cfg.Client.Token == "" {
		fmt.Fprintln(os.Stderr, "BALLOT_TOKEN is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Client.APIURL = *apiURL
	api := client.NewFromConfig(cfg)

	var opts []tui.Option
	if *results {
		opts = append(opts, tui.WithResultsFirst())
	}
	app := tui.New(ctx, api.Sources(), api, api, opts...)

	logger.Ballot().Info("Starting ballot client", "api", *apiURL)
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Ballot().Error("Ballot client failed", "error", err)
		fmt.Fprintf(os.Stderr, "ballot: %v\n", err)
		os.Exit(1)
	}
}
