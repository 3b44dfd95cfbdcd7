// Package cli carries the machlink command line: flag handling, command
// routing, and the shared workspace bootstrap used by every subcommand.
package cli

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/machlink/machlink/internal/config"
)

// App represents the machlink application
type App struct {
	flags *Flags
}

// NewApp creates a new application instance
func NewApp() *App {
	return &App{}
}

// Initialize sets up the application with flags and configuration
func (app *App) Initialize() {
	log.SetFlags(0) // Remove timestamp from log output
	ParseFlags(Usage)
	app.flags = GlobalFlags
}

// Run executes the application logic with the provided runner
func (app *App) Run(runner *Runner) {
	// Handle version flag
	if *app.flags.Version {
		ShowVersion()
		return
	}

	// Get command arguments
	args := flag.Args()
	if len(args) < 1 {
		Usage()
		os.Exit(1)
	}

	// Execute the command
	runner.Execute(args[0], args[1:])
}

// LoadConfigWithFlags loads the YAML config and layers the command line
// flags on top of it.
func LoadConfigWithFlags() (*config.Config, error) {
	cfg, err := config.Load(*GlobalFlags.Config)
	if err != nil {
		return nil, err
	}
	if *GlobalFlags.Workspace != "" {
		cfg.Workspace.Root = *GlobalFlags.Workspace
	}
	if *GlobalFlags.NoRemote {
		cfg.Remote.Enabled = false
	}
	if *GlobalFlags.Verbose {
		cfg.Log.Level = "debug"
	}
	if *GlobalFlags.Debounce != "" {
		if d, err := time.ParseDuration(*GlobalFlags.Debounce); err == nil {
			cfg.Watch.Debounce = config.Duration(d)
		}
	}
	return cfg, nil
}

// NewLogger builds the slog logger used by commands, honoring the
// configured level.
func NewLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}
