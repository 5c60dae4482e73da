package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tgienger/taskflow/internal/config"
	"github.com/tgienger/taskflow/internal/db"
	"github.com/tgienger/taskflow/internal/service"
	"github.com/tgienger/taskflow/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("taskflow %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = db.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving database path: %v\n", err)
			os.Exit(1)
		}
	}

	database, err := db.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	svc := service.New(database, logger)
	if _, err := svc.EnsureSeedData(); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding database: %v\n", err)
		os.Exit(1)
	}

	app := ui.NewApp(svc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path, err := config.Path()
	if err != nil {
		return config.Default(), err
	}
	return config.Load(path)
}

// newLogger builds the service logger. Logs go to the configured file;
// without one they are discarded, since writing to stderr would tear
// the TUI.
func newLogger(cfg config.Config) (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeLog := func() {}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closeLog, nil
}
