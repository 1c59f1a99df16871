// ABOUTME: Data migration between workout storage backends.
// ABOUTME: Copies every table from source to destination, keeping row IDs.

package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Exercises        int
	Workouts         int
	Templates        int
	WorkoutLogs      int
	WorkoutExercises int
	Sets             int
	SetLogs          int
}

// MigrateData copies all data from src to dst storage. The destination
// should be empty; the copy runs as a single import, so a failure leaves
// dst untouched.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	counts := data.Counts()
	log.Debug("migrated data", "counts", counts)
	return &MigrateSummary{
		Exercises:        counts["exercise"],
		Workouts:         counts["workout"],
		Templates:        counts["workout_template"],
		WorkoutLogs:      counts["workout_log"],
		WorkoutExercises: counts["workout_exercise"],
		Sets:             counts["workout_exercise_set"],
		SetLogs:          counts["workout_exercise_set_log"],
	}, nil
}
