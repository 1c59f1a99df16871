// ABOUTME: CLI commands for planning a workout's exercises and sets.
// ABOUTME: Adds, moves and removes exercise placements and planned sets.
package main

import (
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/spf13/cobra"
)

var (
	planOrder       float64
	planAfter       int64
	planFirst       bool
	planPause       int
	planDescription string
)

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Plan exercises and sets in a workout",
	Long: `Plan the exercises and sets of a workout.

Positions are fractional, so moving an item never renumbers its siblings.
New items go after everything else unless --order gives an explicit
position; positions are unique across all workouts.

EXAMPLES:

  workouts plan add-exercise 1 3              # append exercise 3 to workout 1
  workouts plan add-set 4 warmup --pause 60   # append a warmup set to placement 4
  workouts plan move-exercise 5 --after 4     # put placement 5 right after 4
  workouts plan move-set 9 --first            # make set 9 the first of its exercise`,
}

var planAddExerciseCmd = &cobra.Command{
	Use:   "add-exercise <workout-id> <exercise-id>",
	Short: "Add an exercise to a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseID(args[0], "workout")
		if err != nil {
			return err
		}
		exerciseID, err := parseID(args[1], "exercise")
		if err != nil {
			return err
		}

		var we *models.WorkoutExercise
		if cmd.Flags().Changed("order") {
			we = models.NewWorkoutExercise(workoutID, exerciseID, planOrder)
			err = repo.AttachExercise(cmd.Context(), we)
		} else {
			we, err = repo.AppendExercise(cmd.Context(), workoutID, exerciseID)
		}
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Added exercise %d to workout %d", exerciseID, workoutID)
		fmt.Fprintf(out, "  Placement ID: %d (order %g)\n", we.ID, we.SortOrder)
		return nil
	},
}

// moveAnchor resolves --after/--first into the anchor MoveX expects.
func moveAnchor(cmd *cobra.Command) (*int64, error) {
	after := cmd.Flags().Changed("after")
	if after == planFirst {
		return nil, fmt.Errorf("specify exactly one of --after or --first")
	}
	if planFirst {
		return nil, nil
	}
	anchor := planAfter
	return &anchor, nil
}

var planMoveExerciseCmd = &cobra.Command{
	Use:   "move-exercise <placement-id>",
	Short: "Move an exercise within its workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "placement")
		if err != nil {
			return err
		}
		anchor, err := moveAnchor(cmd)
		if err != nil {
			return err
		}

		pos, err := repo.MoveWorkoutExercise(cmd.Context(), id, anchor)
		if err != nil {
			return fmt.Errorf("failed to move exercise: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Moved placement %d to order %g", id, pos)
		return nil
	},
}

var planRemoveExerciseCmd = &cobra.Command{
	Use:   "remove-exercise <placement-id>",
	Short: "Remove an exercise from a workout",
	Long: `Remove an exercise placement from a workout.

The placement must have no sets; remove them first with remove-set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "placement")
		if err != nil {
			return err
		}

		if err := repo.DeleteWorkoutExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}
		printDeleted(cmd.OutOrStdout(), "Removed placement %d", id)
		return nil
	},
}

var planAddSetCmd = &cobra.Command{
	Use:   "add-set <placement-id> <warmup|work>",
	Short: "Add a planned set to an exercise placement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		weID, err := parseID(args[0], "placement")
		if err != nil {
			return err
		}
		setType, err := models.ParseSetType(args[1])
		if err != nil {
			return fmt.Errorf("%w (valid types: %v)", err, models.AllSetTypes())
		}

		s := models.NewSet(weID, planOrder, setType, planPause)
		if planDescription != "" {
			s.WithDescription(planDescription)
		}
		if cmd.Flags().Changed("order") {
			err = repo.AddSet(cmd.Context(), s)
		} else {
			err = repo.AppendSet(cmd.Context(), s)
		}
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Added %s set", s.Type)
		fmt.Fprintf(out, "  Set ID: %d (order %g)\n", s.ID, s.SortOrder)
		return nil
	},
}

var planMoveSetCmd = &cobra.Command{
	Use:   "move-set <set-id>",
	Short: "Move a set within its exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "set")
		if err != nil {
			return err
		}
		anchor, err := moveAnchor(cmd)
		if err != nil {
			return err
		}

		pos, err := repo.MoveSet(cmd.Context(), id, anchor)
		if err != nil {
			return fmt.Errorf("failed to move set: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Moved set %d to order %g", id, pos)
		return nil
	},
}

var planRemoveSetCmd = &cobra.Command{
	Use:   "remove-set <set-id>",
	Short: "Remove a planned set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "set")
		if err != nil {
			return err
		}

		if err := repo.DeleteSet(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to remove set: %w", err)
		}
		printDeleted(cmd.OutOrStdout(), "Removed set %d", id)
		return nil
	},
}

func init() {
	planAddExerciseCmd.Flags().Float64Var(&planOrder, "order", 0, "explicit position (default: after everything)")

	planMoveExerciseCmd.Flags().Int64Var(&planAfter, "after", 0, "placement to move after")
	planMoveExerciseCmd.Flags().BoolVar(&planFirst, "first", false, "move to the front")

	planAddSetCmd.Flags().Float64Var(&planOrder, "order", 0, "explicit position (default: after everything)")
	planAddSetCmd.Flags().IntVar(&planPause, "pause", 0, "rest after the set in seconds")
	planAddSetCmd.Flags().StringVarP(&planDescription, "description", "d", "", "target, e.g. 5x100kg")

	planMoveSetCmd.Flags().Int64Var(&planAfter, "after", 0, "set to move after")
	planMoveSetCmd.Flags().BoolVar(&planFirst, "first", false, "move to the front")

	planCmd.AddCommand(planAddExerciseCmd)
	planCmd.AddCommand(planMoveExerciseCmd)
	planCmd.AddCommand(planRemoveExerciseCmd)
	planCmd.AddCommand(planAddSetCmd)
	planCmd.AddCommand(planMoveSetCmd)
	planCmd.AddCommand(planRemoveSetCmd)
	rootCmd.AddCommand(planCmd)
}
