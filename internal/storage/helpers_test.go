// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Opens a fresh SQLite database per test and seeds small workout trees.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/workouts/internal/models"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "workouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustWorkout(t *testing.T, repo Repository, title string) *models.Workout {
	t.Helper()
	w := models.NewWorkout(title)
	require.NoError(t, repo.CreateWorkout(context.Background(), w))
	return w
}

func mustExercise(t *testing.T, repo Repository, title string) *models.Exercise {
	t.Helper()
	e := models.NewExercise(title)
	require.NoError(t, repo.CreateExercise(context.Background(), e))
	return e
}

func mustAttach(t *testing.T, repo Repository, workoutID, exerciseID int64, order float64) *models.WorkoutExercise {
	t.Helper()
	we := models.NewWorkoutExercise(workoutID, exerciseID, order)
	require.NoError(t, repo.AttachExercise(context.Background(), we))
	return we
}

func mustSet(t *testing.T, repo Repository, workoutExerciseID int64, order float64, setType models.SetType) *models.WorkoutExerciseSet {
	t.Helper()
	s := models.NewSet(workoutExerciseID, order, setType, 90)
	require.NoError(t, repo.AddSet(context.Background(), s))
	return s
}

// seedLegDay builds a template with two exercises, two sets each, and one
// logged session started from nothing.
func seedLegDay(t *testing.T, repo Repository) (*models.Workout, *models.Workout) {
	t.Helper()
	ctx := context.Background()

	squat := mustExercise(t, repo, "Squat")
	lunge := mustExercise(t, repo, "Lunge")

	tmpl := models.NewWorkout("Leg Day").WithDescription("heavy lower body").AsTemplate()
	require.NoError(t, repo.CreateWorkout(ctx, tmpl))

	we1, err := repo.AppendExercise(ctx, tmpl.ID, squat.ID)
	require.NoError(t, err)
	we2, err := repo.AppendExercise(ctx, tmpl.ID, lunge.ID)
	require.NoError(t, err)
	for _, we := range []*models.WorkoutExercise{we1, we2} {
		require.NoError(t, repo.AppendSet(ctx, models.NewSet(we.ID, 0, models.SetTypeWarmup, 60)))
		require.NoError(t, repo.AppendSet(ctx, models.NewSet(we.ID, 0, models.SetTypeWork, 120).WithDescription("5x5")))
	}

	started := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	session := models.NewWorkout("Evening run").AsLog(started)
	session.Log.WithNote("easy pace")
	require.NoError(t, repo.CreateWorkout(ctx, session))
	run := mustExercise(t, repo, "Run")
	weRun, err := repo.AppendExercise(ctx, session.ID, run.ID)
	require.NoError(t, err)
	set := models.NewSet(weRun.ID, 0, models.SetTypeWork, 0)
	require.NoError(t, repo.AppendSet(ctx, set))
	require.NoError(t, repo.RecordSetLog(ctx, set.ID, models.NewSetLog().WithRepetitions(1).WithNote("5k")))

	return tmpl, session
}

func ptr[T any](v T) *T { return &v }
