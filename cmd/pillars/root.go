// ABOUTME: Root Cobra command for pillars CLI.
// ABOUTME: Opens the store via the single-flight initializer in PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/pillars/internal/charm"
	"github.com/harperreed/pillars/internal/config"
	"github.com/harperreed/pillars/internal/storage"
	"github.com/spf13/cobra"
)

var (
	appConfig   *config.Config
	initializer *storage.Initializer
	repo        *storage.DB
)

var rootCmd = &cobra.Command{
	Use:   "pillars",
	Short: "Barbell training tracker",
	Long: `Pillars is a CLI tool for tracking your primary barbell lifts.

WHAT IT TRACKS:

  Pillars      Primary lifts (squat, deadlift, bench press, ...) on a
               training cadence, each with a qualifying minimum weight
               and a regression floor
  Sessions     Workouts logging one or more lifts at a weight
  Accessories  Supporting exercises attached to sessions

PRs, last-trained dates, and workout counts are derived automatically
from your session history.

QUICK START:

  $ pillars pillar list                      # See the lift catalog
  $ pillars log back_squat 100               # Log a squat at 100 kg
  $ pillars log deadlift 140 bench_press 80  # Log two lifts in one session
  $ pillars session list                     # Review recent sessions
  $ pillars pillar show back_squat           # PR, history, and cadence status

THRESHOLDS:

  $ pillars pillar edit back_squat --min 110   # Raise the qualifying minimum

  Sets below the minimum are logged but don't count toward PRs or
  workout totals. Sets below the floor get a regression warning.

SYNC:

  $ pillars sync push     # Back up to Charm Cloud
  $ pillars sync pull     # Restore from Charm Cloud
  $ pillars sync status   # Account and backup info

MCP INTEGRATION:

  Run 'pillars mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "pillars": { "command": "pillars", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data lives in a SQLite database at ~/.local/share/pillars/pillars.db.
  Schema migrations and catalog seeding run automatically on startup.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		appConfig, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		initializer = storage.NewInitializer(appConfig.DBPath())
		repo, err = initializer.Get()
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		if appConfig.AutoBackup {
			repo.SetChangeListener(pushBackup)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if initializer != nil {
			return initializer.Close()
		}
		return nil
	},
}

// pushBackup is the auto-backup change listener: one full-state push per
// committed mutation. Failures are logged by the notifier, never surfaced
// to the command that triggered them.
func pushBackup() error {
	client, err := charm.NewClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Push(repo)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
