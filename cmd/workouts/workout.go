// ABOUTME: CLI commands for managing workouts, templates and sessions.
// ABOUTME: Supports add, list, show, edit, delete, template, start and complete subcommands.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/workouts/internal/models"
	"github.com/harperreed/workouts/internal/storage"
	"github.com/spf13/cobra"
)

var (
	workoutDescription string
	workoutTemplate    bool
	workoutStart       bool
	workoutAt          string
	workoutFilter      string
	workoutLimit       int
	workoutTitle       string
	workoutCascade     bool
	workoutRemove      bool
	workoutNote        string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts, templates and sessions",
	Long: `Manage workouts, templates and sessions.

A workout is a title plus an ordered list of exercises, each with planned
sets. Mark a workout as a template to reuse it; start a session from a
template to get a fresh copy with a log that tracks start and completion.

WORKFLOW:

  1. Create a template:     workouts workout add "Leg Day" --template
  2. Plan it:               workouts plan add-exercise <workout> <exercise>
  3. Start a session:       workouts workout start <template>
  4. Log sets as you go:    workouts set log <set> --weight 100 --reps 5
  5. Finish:                workouts workout complete <session>

COMMANDS:

  add        Create a workout (optionally as a template or started session)
  list       List workouts
  show       View a workout with its exercises, sets and logs
  edit       Change title or description
  delete     Delete a workout
  template   Mark or unmark a workout as a template
  start      Start a session from a template
  complete   Mark a session as completed`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new workout",
	Long: `Add a new workout.

Examples:
  workouts workout add "Leg Day" --template
  workouts workout add "Evening run" --start
  workouts workout add "Evening run" --start --at "2025-03-01 18:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := models.NewWorkout(args[0])
		if workoutDescription != "" {
			w.WithDescription(workoutDescription)
		}
		if workoutTemplate {
			w.AsTemplate()
		}
		if workoutStart {
			startedAt, err := timeOrNow(workoutAt)
			if err != nil {
				return err
			}
			w.AsLog(startedAt)
		}

		if err := repo.CreateWorkout(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Added %s workout %q", w.Kind(), w.Title)
		fmt.Fprintf(out, "  ID: %d\n", w.ID)
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	Long: `List workouts, most recent sessions first.

FILTERING:

  --filter template      only templates
  --filter log           only sessions
  --filter in-progress   only sessions not yet completed`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := storage.WorkoutFilter(strings.ToLower(workoutFilter))
		workouts, err := repo.ListWorkouts(cmd.Context(), filter, workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		for _, w := range workouts {
			when := ""
			if w.Log != nil {
				when = w.Log.StartedAt.Local().Format("2006-01-02 15:04")
				if w.Log.InProgress() {
					when += " (in progress)"
				}
			}
			fmt.Fprintf(out, "%s %s %s %s\n",
				formatID(w.ID),
				padRight(string(w.Kind()), 9),
				padRight(truncate(w.Title, 30), 30),
				faint.Sprint(when))
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}

		w, err := repo.GetWorkoutTree(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		printWorkoutTree(cmd.OutOrStdout(), w)
		return nil
	},
}

func printWorkoutTree(out io.Writer, w *models.Workout) {
	fmt.Fprintf(out, "Workout #%d: %s [%s]\n", w.ID, w.Title, w.Kind())
	if w.Description != nil {
		fmt.Fprintf(out, "Description: %s\n", *w.Description)
	}
	if w.Log != nil {
		fmt.Fprintf(out, "Started: %s\n", w.Log.StartedAt.Local().Format("2006-01-02 15:04"))
		if w.Log.CompletedAt != nil {
			fmt.Fprintf(out, "Completed: %s (%s)\n",
				w.Log.CompletedAt.Local().Format("2006-01-02 15:04"),
				formatDuration(w.Log.Duration(*w.Log.CompletedAt)))
		} else {
			fmt.Fprintln(out, "Status: in progress")
		}
		if w.Log.Note != nil {
			fmt.Fprintf(out, "Note: %s\n", *w.Log.Note)
		}
	}

	if len(w.Exercises) == 0 {
		fmt.Fprintln(out, "\nNo exercises planned.")
		return
	}

	fmt.Fprintln(out, "\nExercises:")
	for i, we := range w.Exercises {
		title := fmt.Sprintf("exercise %d", we.ExerciseID)
		if we.Exercise != nil {
			title = we.Exercise.Title
		}
		fmt.Fprintf(out, "  %d. %s %s\n", i+1, title, faint.Sprintf("(placement #%d)", we.ID))
		for _, s := range we.Sets {
			line := fmt.Sprintf("     %s %s pause %ds",
				formatID(s.ID), padRight(string(s.Type), 7), s.PauseSeconds)
			if s.Description != nil {
				line += "  " + *s.Description
			}
			if s.Log != nil {
				line += "  → " + describeSetLog(s.Log)
			}
			fmt.Fprintln(out, line)
		}
	}
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a workout's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}

		w, err := repo.GetWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if cmd.Flags().Changed("title") {
			w.Title = workoutTitle
		}
		if cmd.Flags().Changed("description") {
			w.Description = nil
			if workoutDescription != "" {
				w.WithDescription(workoutDescription)
			}
		}

		if err := repo.UpdateWorkout(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to update workout: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Updated workout #%d %q", w.ID, w.Title)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout.

Without --cascade the workout must have no template, log or exercises.
With --cascade its exercises, sets, set logs, template and log go too.
Exercise definitions are never removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}

		w, err := repo.GetWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("workout not found: %w", err)
		}

		if workoutCascade {
			err = repo.DeleteWorkoutTree(cmd.Context(), id)
		} else {
			err = repo.DeleteWorkout(cmd.Context(), id)
		}
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		printDeleted(cmd.OutOrStdout(), "Deleted workout #%d %q", w.ID, w.Title)
		return nil
	},
}

var workoutTemplateCmd = &cobra.Command{
	Use:   "template <id>",
	Short: "Mark a workout as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if workoutRemove {
			w, err := repo.GetWorkout(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to get workout: %w", err)
			}
			if w.Template == nil {
				return fmt.Errorf("workout #%d is not a template", id)
			}
			if err := repo.DeleteTemplate(cmd.Context(), w.Template.ID); err != nil {
				return fmt.Errorf("failed to remove template: %w", err)
			}
			printDeleted(out, "Workout #%d is no longer a template", id)
			return nil
		}

		if _, err := repo.CreateTemplate(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to mark template: %w", err)
		}
		printSuccess(out, "Workout #%d is now a template", id)
		return nil
	},
}

var workoutStartCmd = &cobra.Command{
	Use:   "start <template-id>",
	Short: "Start a session from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "template")
		if err != nil {
			return err
		}
		startedAt, err := timeOrNow(workoutAt)
		if err != nil {
			return err
		}

		w, err := repo.StartFromTemplate(cmd.Context(), id, startedAt)
		if err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Started %q", w.Title)
		fmt.Fprintf(out, "  ID: %d\n", w.ID)
		return nil
	},
}

var workoutCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a session as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}
		completedAt, err := timeOrNow(workoutAt)
		if err != nil {
			return err
		}

		w, err := repo.GetWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if w.Log == nil {
			return fmt.Errorf("workout #%d is not a session", id)
		}

		if workoutNote != "" {
			w.Log.WithNote(workoutNote)
			if err := repo.UpdateWorkoutLog(cmd.Context(), w.Log); err != nil {
				return fmt.Errorf("failed to save note: %w", err)
			}
		}
		if err := repo.CompleteWorkoutLog(cmd.Context(), w.Log.ID, completedAt); err != nil {
			return fmt.Errorf("failed to complete workout: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Completed %q", w.Title)
		fmt.Fprintf(out, "  Duration: %s\n", formatDuration(completedAt.Sub(w.Log.StartedAt)))
		return nil
	},
}

func init() {
	workoutAddCmd.Flags().StringVarP(&workoutDescription, "description", "d", "", "workout description")
	workoutAddCmd.Flags().BoolVar(&workoutTemplate, "template", false, "create as a template")
	workoutAddCmd.Flags().BoolVar(&workoutStart, "start", false, "create as a started session")
	workoutAddCmd.Flags().StringVar(&workoutAt, "at", "", "session start (YYYY-MM-DD HH:MM, default now)")

	workoutListCmd.Flags().StringVarP(&workoutFilter, "filter", "f", "", "template, log or in-progress")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutEditCmd.Flags().StringVar(&workoutTitle, "title", "", "new title")
	workoutEditCmd.Flags().StringVarP(&workoutDescription, "description", "d", "", "new description (empty clears it)")

	workoutDeleteCmd.Flags().BoolVar(&workoutCascade, "cascade", false, "also delete exercises, sets, logs, template and log")

	workoutTemplateCmd.Flags().BoolVar(&workoutRemove, "remove", false, "unmark the template instead")

	workoutStartCmd.Flags().StringVar(&workoutAt, "at", "", "session start (YYYY-MM-DD HH:MM, default now)")

	workoutCompleteCmd.Flags().StringVar(&workoutAt, "at", "", "completion time (YYYY-MM-DD HH:MM, default now)")
	workoutCompleteCmd.Flags().StringVar(&workoutNote, "note", "", "note for the session")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutEditCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	workoutCmd.AddCommand(workoutTemplateCmd)
	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutCompleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
