// ABOUTME: CLI commands for Charm Cloud snapshot backups.
// ABOUTME: Supports push, list, restore and delete of full workout exports.
package main

import (
	"fmt"

	"github.com/harperreed/workouts/internal/charm"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up workout data to Charm Cloud",
	Long: `Back up workout data to Charm Cloud.

Each push stores a full export as a snapshot in the Charm KV database
"workouts". Snapshots are E2E encrypted with your SSH key and synced to
every device linked to your Charm account.

COMMANDS:

  push              Store a snapshot of everything
  list              List snapshots, newest first
  restore <id>      Import a snapshot into an empty database
  delete <id>       Remove a snapshot

Snapshot IDs can be shortened to any unique prefix.`,
}

func openCharm() (*charm.Client, error) {
	if charmClient != nil {
		return charmClient, nil
	}
	c, err := charm.InitClient()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize charm client: %w", err)
	}
	charmClient = c
	return c, nil
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Store a snapshot of all data",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := repo.GetAllData(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		c, err := openCharm()
		if err != nil {
			return err
		}
		id, err := c.PushSnapshot(data)
		if err != nil {
			return err
		}

		counts := data.Counts()
		out := cmd.OutOrStdout()
		printSuccess(out, "Pushed snapshot %s", id[:8])
		fmt.Fprintf(out, "  %d workouts, %d exercises, %d sets\n",
			counts["workout"], counts["exercise"], counts["workout_exercise_set"])
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCharm()
		if err != nil {
			return err
		}
		infos, err := c.ListSnapshots()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(infos) == 0 {
			fmt.Fprintln(out, "No snapshots found.")
			return nil
		}
		for _, info := range infos {
			fmt.Fprintf(out, "%s %s %3d workouts %4d sets %s\n",
				faint.Sprint(info.ID[:8]),
				faint.Sprint(info.ExportedAt.Local().Format("2006-01-02 15:04")),
				info.Counts["workout"],
				info.Counts["workout_exercise_set"],
				faint.Sprintf("(%d bytes)", info.Size))
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a snapshot into an empty database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCharm()
		if err != nil {
			return err
		}
		data, err := c.GetSnapshot(args[0])
		if err != nil {
			return err
		}

		if err := repo.ImportData(cmd.Context(), data); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Restored snapshot %s", data.ExportID.String()[:8])
		return nil
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a snapshot",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCharm()
		if err != nil {
			return err
		}
		if err := c.DeleteSnapshot(args[0]); err != nil {
			return err
		}
		printDeleted(cmd.OutOrStdout(), "Deleted snapshot %s", args[0])
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupPushCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	rootCmd.AddCommand(backupCmd)
}
