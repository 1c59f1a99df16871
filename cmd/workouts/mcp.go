// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/workouts/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to plan workouts and log sessions through a
standardized protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "workouts": {
        "command": "workouts",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_workout        Create a workout, template or started session
  list_workouts         List workouts by role
  get_workout           Get a workout with exercises, sets and logs
  delete_workout        Delete a workout and everything under it
  create_exercise       Create an exercise definition
  list_exercises        List exercise definitions
  attach_exercise       Append an exercise to a workout
  add_set               Append a planned set
  record_set            Record what was done for a set
  start_from_template   Start a session from a template
  complete_workout      Complete a session

AVAILABLE RESOURCES:

  workouts://recent       Recent sessions
  workouts://templates    Templates with their plans
  workouts://in-progress  Sessions not yet completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
