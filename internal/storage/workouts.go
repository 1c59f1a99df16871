// ABOUTME: Workout CRUD operations, including nested template/log creation.
// ABOUTME: Deletes are RESTRICT; DeleteWorkoutTree removes children explicitly first.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

// workoutRow is a workout joined with its optional template and log.
type workoutRow struct {
	ID             int64          `db:"id"`
	Title          string         `db:"title"`
	Description    sql.NullString `db:"description"`
	TemplateID     sql.NullInt64  `db:"template_id"`
	LogID          sql.NullInt64  `db:"log_id"`
	LogNote        sql.NullString `db:"log_note"`
	LogStartedAt   sql.NullInt64  `db:"log_started_at"`
	LogCompletedAt sql.NullInt64  `db:"log_completed_at"`
}

const workoutSelect = `
	SELECT w.id, w.title, w.description,
		t.id AS template_id,
		l.id AS log_id, l.note AS log_note,
		l.started_at AS log_started_at, l.completed_at AS log_completed_at
	FROM workout w
	LEFT JOIN workout_template t ON t.workout_id = w.id
	LEFT JOIN workout_log l ON l.workout_id = w.id
`

func (r workoutRow) toModel() *models.Workout {
	w := &models.Workout{
		ID:          r.ID,
		Title:       r.Title,
		Description: stringPtr(r.Description),
	}
	if r.TemplateID.Valid {
		w.Template = &models.WorkoutTemplate{ID: r.TemplateID.Int64, WorkoutID: r.ID}
	}
	if r.LogID.Valid {
		w.Log = &models.WorkoutLog{
			ID:          r.LogID.Int64,
			WorkoutID:   r.ID,
			Note:        stringPtr(r.LogNote),
			StartedAt:   fromMillis(r.LogStartedAt.Int64),
			CompletedAt: timePtr(r.LogCompletedAt),
		}
	}
	return w
}

// CreateWorkout stores a new workout together with its nested template
// and log, if set, in one transaction. IDs are written back into w.
func (d *DB) CreateWorkout(ctx context.Context, w *models.Workout) error {
	if err := w.Validate(); err != nil {
		return wrapErr("create", "workout", 0, validationErr(err))
	}
	if w.Log != nil {
		if err := w.Log.Validate(); err != nil {
			return wrapErr("create", "workout log", 0, validationErr(err))
		}
	}

	assigned := w.ID
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		return d.insertWorkoutWithChildren(ctx, tx, w)
	})
	if err != nil {
		// Rolled back; drop IDs handed out inside the transaction.
		w.ID = assigned
		if w.Template != nil {
			w.Template.ID, w.Template.WorkoutID = 0, 0
		}
		if w.Log != nil {
			w.Log.ID, w.Log.WorkoutID = 0, 0
		}
	}
	return wrapErr("create", "workout", w.ID, err)
}

func (d *DB) insertWorkoutWithChildren(ctx context.Context, q querier, w *models.Workout) error {
	if err := d.insertWorkout(ctx, q, w); err != nil {
		return err
	}
	if w.Template != nil {
		w.Template.WorkoutID = w.ID
		if err := d.insertTemplate(ctx, q, w.Template); err != nil {
			return err
		}
	}
	if w.Log != nil {
		w.Log.WorkoutID = w.ID
		if err := d.insertWorkoutLog(ctx, q, w.Log); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) insertWorkout(ctx context.Context, q querier, w *models.Workout) error {
	var row *sqlx.Row
	if w.ID > 0 {
		query := `INSERT INTO workout (id, title, description) VALUES (?, ?, ?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), w.ID, w.Title, toNullableArg(w.Description))
	} else {
		query := `INSERT INTO workout (title, description) VALUES (?, ?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), w.Title, toNullableArg(w.Description))
	}
	if err := row.Scan(&w.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// GetWorkout retrieves a workout with its template and log (no exercises).
func (d *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	w, err := d.getWorkout(ctx, d.db, id)
	if err != nil {
		return nil, wrapErr("get", "workout", id, err)
	}
	return w, nil
}

func (d *DB) getWorkout(ctx context.Context, q querier, id int64) (*models.Workout, error) {
	var row workoutRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(workoutSelect+` WHERE w.id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// GetWorkoutTree retrieves a workout with template, log, ordered
// exercises, ordered sets and each set's log.
func (d *DB) GetWorkoutTree(ctx context.Context, id int64) (*models.Workout, error) {
	w, err := d.getWorkoutTree(ctx, d.db, id)
	if err != nil {
		return nil, wrapErr("get", "workout", id, err)
	}
	return w, nil
}

func (d *DB) getWorkoutTree(ctx context.Context, q querier, id int64) (*models.Workout, error) {
	w, err := d.getWorkout(ctx, q, id)
	if err != nil {
		return nil, err
	}

	exercises, err := d.listWorkoutExercises(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("list workout exercises: %w", err)
	}

	for _, we := range exercises {
		sets, err := d.listSets(ctx, q, we.ID)
		if err != nil {
			return nil, fmt.Errorf("list sets: %w", err)
		}
		for _, s := range sets {
			we.Sets = append(we.Sets, *s)
		}
		w.Exercises = append(w.Exercises, *we)
	}

	return w, nil
}

// ListWorkouts retrieves workouts filtered by role. Logged sessions come
// first, most recent start first; then the rest by id descending.
func (d *DB) ListWorkouts(ctx context.Context, filter WorkoutFilter, limit int) ([]*models.Workout, error) {
	query := workoutSelect
	switch filter {
	case FilterAll:
	case FilterTemplates:
		query += ` WHERE t.id IS NOT NULL`
	case FilterLogs:
		query += ` WHERE l.id IS NOT NULL`
	case FilterInProgress:
		query += ` WHERE l.id IS NOT NULL AND l.completed_at IS NULL`
	default:
		return nil, fmt.Errorf("list workouts: unknown filter %q", filter)
	}
	query += ` ORDER BY COALESCE(l.started_at, 0) DESC, w.id DESC`

	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []workoutRow
	if err := d.db.SelectContext(ctx, &rows, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	workouts := make([]*models.Workout, 0, len(rows))
	for _, r := range rows {
		workouts = append(workouts, r.toModel())
	}
	return workouts, nil
}

// UpdateWorkout changes a workout's title and description.
func (d *DB) UpdateWorkout(ctx context.Context, w *models.Workout) error {
	if err := w.Validate(); err != nil {
		return wrapErr("update", "workout", w.ID, validationErr(err))
	}

	result, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE workout SET title = ?, description = ? WHERE id = ?`),
		w.Title, toNullableArg(w.Description), w.ID)
	if err != nil {
		return wrapErr("update", "workout", w.ID, d.classify(err))
	}
	return wrapErr("update", "workout", w.ID, affectedOne(result))
}

// DeleteWorkout removes a workout. It fails with ErrReferentialIntegrity
// while a template, log or workout exercise still references it.
func (d *DB) DeleteWorkout(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "workout", id, d.classify(err))
	}
	return wrapErr("delete", "workout", id, affectedOne(result))
}

// DeleteWorkoutTree removes a workout and everything beneath it: sets,
// the set logs they reference, workout exercises, template and log.
// Exercises themselves are kept.
func (d *DB) DeleteWorkoutTree(ctx context.Context, id int64) error {
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := d.getWorkout(ctx, tx, id); err != nil {
			return err
		}

		var logIDs []int64
		err := tx.SelectContext(ctx, &logIDs, tx.Rebind(`
			SELECT s.workout_exercise_set_log_id
			FROM workout_exercise_set s
			JOIN workout_exercise we ON we.id = s.workout_exercise_id
			WHERE we.workout_id = ? AND s.workout_exercise_set_log_id IS NOT NULL
		`), id)
		if err != nil {
			return fmt.Errorf("collect set logs: %w", err)
		}

		stmts := []string{
			`DELETE FROM workout_exercise_set WHERE workout_exercise_id IN
				(SELECT id FROM workout_exercise WHERE workout_id = ?)`,
			`DELETE FROM workout_exercise WHERE workout_id = ?`,
			`DELETE FROM workout_template WHERE workout_id = ?`,
			`DELETE FROM workout_log WHERE workout_id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, tx.Rebind(stmt), id); err != nil {
				return d.classify(err)
			}
		}

		if len(logIDs) > 0 {
			query, args, err := sqlx.In(`DELETE FROM workout_exercise_set_log WHERE id IN (?)`, logIDs)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
				return d.classify(err)
			}
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM workout WHERE id = ?`), id); err != nil {
			return d.classify(err)
		}
		return nil
	})
	return wrapErr("delete", "workout tree", id, err)
}
