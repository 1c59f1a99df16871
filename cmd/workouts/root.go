// ABOUTME: Root Cobra command for workouts CLI.
// ABOUTME: Loads config, sets the log level and opens storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/workouts/internal/charm"
	"github.com/harperreed/workouts/internal/config"
	"github.com/harperreed/workouts/internal/storage"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg         *config.Config
	repo        storage.Repository
	charmClient *charm.Client

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "workouts",
	Short: "Workout planner and training log",
	Long: `Workouts is a CLI tool for planning workouts and logging training sessions.

HOW IT FITS TOGETHER:

  Exercise   a reusable movement (Squat, Bench Press, Run)
  Workout    a named collection of exercises, each with planned sets
  Template   a workout marked as reusable
  Session    a workout with a log: started, then completed
  Set log    what you actually did for a planned set (weight, reps, note)

QUICK START:

  $ workouts exercise add Squat
  $ workouts workout add "Leg Day" --template
  $ workouts plan add-exercise 1 1          # workout 1, exercise 1
  $ workouts plan add-set 1 work --pause 120
  $ workouts workout start 1                # new session from template 1
  $ workouts set log 2 --weight 100 --reps 5
  $ workouts workout complete 2

STORAGE:

  SQLite at ~/.local/share/workouts/workouts.db by default. Set
  WORKOUTS_BACKEND=postgres and WORKOUTS_DATABASE_URL to use Postgres.
  Settings live in ~/.config/workouts/config.json; a .env file in the
  working directory and WORKOUTS_* variables override it.

MCP INTEGRATION:

  Run 'workouts mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "workouts": { "command": "workouts", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetOutput(os.Stderr)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		level, err := cfg.GetLogLevel()
		if err != nil {
			return err
		}
		log.SetLevel(level)

		if skipStorage(cmd) {
			return nil
		}

		repo, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if charmClient != nil {
			if err := charmClient.Close(); err != nil {
				log.Warn("close charm client", "err", err)
			}
		}
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

// skipStorage reports whether cmd runs without opening the database.
func skipStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "install-skill":
		return true
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "workouts %s\n", version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.AddCommand(versionCmd)
}
