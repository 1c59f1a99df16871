// ABOUTME: CLI commands for recording what was done for planned sets.
// ABOUTME: Supports log, unlink and show subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/spf13/cobra"
)

var (
	setWeight float64
	setReps   int
	setNote   string
	setAt     string
	setLogID  int64
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Log planned sets",
	Long: `Record what you actually did for a planned set.

A planned set becomes logged once a set log is linked to it. Each set takes
at most one log and each log belongs to at most one set.

EXAMPLES:

  workouts set log 12 --weight 100 --reps 5
  workouts set log 13 --reps 8 --note "felt easy"
  workouts set log 14 --log-id 7      # link an existing log
  workouts set unlink 12              # back to planned; the log is kept
  workouts set show 12`,
}

var setLogCmd = &cobra.Command{
	Use:   "log <set-id>",
	Short: "Record a set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "set")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if cmd.Flags().Changed("log-id") {
			if err := repo.LinkSetLog(cmd.Context(), id, setLogID); err != nil {
				return fmt.Errorf("failed to link set log: %w", err)
			}
			printSuccess(out, "Linked log %d to set %d", setLogID, id)
			return nil
		}

		completedAt, err := timeOrNow(setAt)
		if err != nil {
			return err
		}
		l := models.NewSetLog().WithCompletedAt(completedAt)
		if cmd.Flags().Changed("weight") {
			l.WithWeight(setWeight)
		}
		if cmd.Flags().Changed("reps") {
			l.WithRepetitions(setReps)
		}
		if setNote != "" {
			l.WithNote(setNote)
		}

		if err := repo.RecordSetLog(cmd.Context(), id, l); err != nil {
			return fmt.Errorf("failed to record set: %w", err)
		}

		printSuccess(out, "Logged set %d: %s", id, describeSetLog(l))
		fmt.Fprintf(out, "  Log ID: %d\n", l.ID)
		return nil
	},
}

var setUnlinkCmd = &cobra.Command{
	Use:   "unlink <set-id>",
	Short: "Return a set to planned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "set")
		if err != nil {
			return err
		}

		if err := repo.UnlinkSetLog(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to unlink set: %w", err)
		}
		printDeleted(cmd.OutOrStdout(), "Unlinked log from set %d", id)
		return nil
	},
}

var setShowCmd = &cobra.Command{
	Use:   "show <set-id>",
	Short: "Show a set and its log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "set")
		if err != nil {
			return err
		}

		s, err := repo.GetSet(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get set: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Set #%d (%s)\n", s.ID, s.Type)
		fmt.Fprintf(out, "Placement: %d\n", s.WorkoutExerciseID)
		fmt.Fprintf(out, "Order: %g\n", s.SortOrder)
		fmt.Fprintf(out, "Pause: %ds\n", s.PauseSeconds)
		if s.Description != nil {
			fmt.Fprintf(out, "Target: %s\n", *s.Description)
		}
		if s.Log == nil {
			fmt.Fprintln(out, "Status: planned")
			return nil
		}
		fmt.Fprintf(out, "Status: logged (log %d)\n", s.Log.ID)
		fmt.Fprintf(out, "Result: %s\n", describeSetLog(s.Log))
		if s.Log.CompletedAt != nil {
			fmt.Fprintf(out, "Completed: %s\n", s.Log.CompletedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	setLogCmd.Flags().Float64VarP(&setWeight, "weight", "w", 0, "weight lifted")
	setLogCmd.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions performed")
	setLogCmd.Flags().StringVar(&setNote, "note", "", "note for the set")
	setLogCmd.Flags().StringVar(&setAt, "at", "", "completion time (YYYY-MM-DD HH:MM, default now)")
	setLogCmd.Flags().Int64Var(&setLogID, "log-id", 0, "link an existing set log instead of recording a new one")

	setCmd.AddCommand(setLogCmd)
	setCmd.AddCommand(setUnlinkCmd)
	setCmd.AddCommand(setShowCmd)
	rootCmd.AddCommand(setCmd)
}
