// ABOUTME: WorkoutExercise operations: attach, append, list, reorder, move, detach.
// ABOUTME: sort_order is unique across the whole workout_exercise table.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

type workoutExerciseRow struct {
	ID                  int64          `db:"id"`
	WorkoutID           int64          `db:"workout_id"`
	ExerciseID          int64          `db:"exercise_id"`
	SortOrder           float64        `db:"sort_order"`
	ExerciseTitle       string         `db:"exercise_title"`
	ExerciseDescription sql.NullString `db:"exercise_description"`
}

const workoutExerciseSelect = `
	SELECT we.id, we.workout_id, we.exercise_id, we.sort_order,
		e.title AS exercise_title, e.description AS exercise_description
	FROM workout_exercise we
	JOIN exercise e ON e.id = we.exercise_id
`

func (r workoutExerciseRow) toModel() *models.WorkoutExercise {
	return &models.WorkoutExercise{
		ID:         r.ID,
		WorkoutID:  r.WorkoutID,
		ExerciseID: r.ExerciseID,
		SortOrder:  r.SortOrder,
		Exercise: &models.Exercise{
			ID:          r.ExerciseID,
			Title:       r.ExerciseTitle,
			Description: stringPtr(r.ExerciseDescription),
		},
	}
}

// AttachExercise places an exercise in a workout at we.SortOrder. A
// sort_order already used by any row, or a missing workout or exercise,
// fails with ErrConstraintViolation.
func (d *DB) AttachExercise(ctx context.Context, we *models.WorkoutExercise) error {
	if err := we.Validate(); err != nil {
		return wrapErr("attach", "workout exercise", 0, validationErr(err))
	}
	return wrapErr("attach", "workout exercise", 0, d.insertWorkoutExercise(ctx, d.db, we))
}

func (d *DB) insertWorkoutExercise(ctx context.Context, q querier, we *models.WorkoutExercise) error {
	args := []interface{}{we.WorkoutID, we.ExerciseID, we.SortOrder}
	query := `INSERT INTO workout_exercise (workout_id, exercise_id, sort_order) VALUES (?, ?, ?) RETURNING id`
	if we.ID > 0 {
		query = `INSERT INTO workout_exercise (id, workout_id, exercise_id, sort_order) VALUES (?, ?, ?, ?) RETURNING id`
		args = append([]interface{}{we.ID}, args...)
	}
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&we.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// AppendExercise places an exercise after every existing workout exercise.
func (d *DB) AppendExercise(ctx context.Context, workoutID, exerciseID int64) (*models.WorkoutExercise, error) {
	var we *models.WorkoutExercise
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		order, err := d.nextSortOrder(ctx, tx, tableWorkoutExercise)
		if err != nil {
			return err
		}
		we = models.NewWorkoutExercise(workoutID, exerciseID, order)
		return d.insertWorkoutExercise(ctx, tx, we)
	})
	if err != nil {
		return nil, wrapErr("append", "workout exercise", 0, err)
	}
	return we, nil
}

// GetWorkoutExercise retrieves a workout exercise with its exercise.
func (d *DB) GetWorkoutExercise(ctx context.Context, id int64) (*models.WorkoutExercise, error) {
	var row workoutExerciseRow
	err := d.db.GetContext(ctx, &row, d.db.Rebind(workoutExerciseSelect+` WHERE we.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("get", "workout exercise", id, ErrNotFound)
		}
		return nil, wrapErr("get", "workout exercise", id, err)
	}
	return row.toModel(), nil
}

// ListWorkoutExercises retrieves a workout's exercises in sort order.
func (d *DB) ListWorkoutExercises(ctx context.Context, workoutID int64) ([]*models.WorkoutExercise, error) {
	exercises, err := d.listWorkoutExercises(ctx, d.db, workoutID)
	if err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}
	return exercises, nil
}

func (d *DB) listWorkoutExercises(ctx context.Context, q querier, workoutID int64) ([]*models.WorkoutExercise, error) {
	var rows []workoutExerciseRow
	query := workoutExerciseSelect + ` WHERE we.workout_id = ? ORDER BY we.sort_order ASC`
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), workoutID); err != nil {
		return nil, err
	}

	exercises := make([]*models.WorkoutExercise, 0, len(rows))
	for _, r := range rows {
		exercises = append(exercises, r.toModel())
	}
	return exercises, nil
}

// ReorderWorkoutExercise sets an explicit sort_order.
func (d *DB) ReorderWorkoutExercise(ctx context.Context, id int64, sortOrder float64) error {
	return wrapErr("reorder", "workout exercise", id, d.reorder(ctx, tableWorkoutExercise, id, sortOrder))
}

// MoveWorkoutExercise places a workout exercise directly after sibling
// afterID, or first when afterID is nil, and returns the new position.
func (d *DB) MoveWorkoutExercise(ctx context.Context, id int64, afterID *int64) (float64, error) {
	pos, err := d.move(ctx, tableWorkoutExercise, id, afterID)
	if err != nil {
		return 0, wrapErr("move", "workout exercise", id, err)
	}
	return pos, nil
}

// DeleteWorkoutExercise removes a workout exercise. It fails with
// ErrReferentialIntegrity while sets reference it.
func (d *DB) DeleteWorkoutExercise(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout_exercise WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "workout exercise", id, d.classify(err))
	}
	return wrapErr("delete", "workout exercise", id, affectedOne(result))
}
