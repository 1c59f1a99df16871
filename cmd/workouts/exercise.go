// ABOUTME: CLI commands for managing exercise definitions.
// ABOUTME: Supports add, list, show, edit and delete subcommands.
package main

import (
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/spf13/cobra"
)

var (
	exerciseDescription string
	exerciseTitle       string
	exerciseLimit       int
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercise definitions",
	Long: `Manage exercise definitions.

An exercise is a reusable movement such as Squat or Bench Press. Workouts
place exercises in order with 'workouts plan add-exercise'. An exercise
cannot be deleted while any workout still uses it.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewExercise(args[0])
		if exerciseDescription != "" {
			e.WithDescription(exerciseDescription)
		}

		if err := repo.CreateExercise(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Added exercise %q", e.Title)
		fmt.Fprintf(out, "  ID: %d\n", e.ID)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises(cmd.Context(), exerciseLimit)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}
		for _, e := range exercises {
			desc := ""
			if e.Description != nil {
				desc = faint.Sprintf(" (%s)", truncate(*e.Description, 40))
			}
			fmt.Fprintf(out, "%s %s%s\n", formatID(e.ID), e.Title, desc)
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "exercise")
		if err != nil {
			return err
		}

		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Exercise #%d: %s\n", e.ID, e.Title)
		if e.Description != nil {
			fmt.Fprintf(out, "Description: %s\n", *e.Description)
		}
		return nil
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "exercise")
		if err != nil {
			return err
		}

		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}
		if cmd.Flags().Changed("title") {
			e.Title = exerciseTitle
		}
		if cmd.Flags().Changed("description") {
			e.Description = nil
			if exerciseDescription != "" {
				e.WithDescription(exerciseDescription)
			}
		}

		if err := repo.UpdateExercise(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to update exercise: %w", err)
		}
		printSuccess(cmd.OutOrStdout(), "Updated exercise #%d %q", e.ID, e.Title)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "exercise")
		if err != nil {
			return err
		}

		e, err := repo.GetExercise(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("exercise not found: %w", err)
		}
		if err := repo.DeleteExercise(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		printDeleted(cmd.OutOrStdout(), "Deleted exercise #%d %q", e.ID, e.Title)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseDescription, "description", "d", "", "exercise description")

	exerciseListCmd.Flags().IntVarP(&exerciseLimit, "limit", "n", 50, "max number of results")

	exerciseEditCmd.Flags().StringVar(&exerciseTitle, "title", "", "new title")
	exerciseEditCmd.Flags().StringVarP(&exerciseDescription, "description", "d", "", "new description (empty clears it)")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseShowCmd)
	exerciseCmd.AddCommand(exerciseEditCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
