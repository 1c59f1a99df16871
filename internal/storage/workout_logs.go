// ABOUTME: WorkoutTemplate and WorkoutLog operations, plus starting a session from a template.
// ABOUTME: Both child tables carry a unique workout_id, so each workout has at most one of each.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrAlreadyCompleted means the workout log already has completed_at set.
	ErrAlreadyCompleted = errors.New("workout log already completed")
	// ErrNotTemplate means the workout has no template row.
	ErrNotTemplate = errors.New("workout is not a template")
)

type workoutLogRow struct {
	ID          int64          `db:"id"`
	WorkoutID   int64          `db:"workout_id"`
	Note        sql.NullString `db:"note"`
	StartedAt   int64          `db:"started_at"`
	CompletedAt sql.NullInt64  `db:"completed_at"`
}

func (r workoutLogRow) toModel() *models.WorkoutLog {
	return &models.WorkoutLog{
		ID:          r.ID,
		WorkoutID:   r.WorkoutID,
		Note:        stringPtr(r.Note),
		StartedAt:   fromMillis(r.StartedAt),
		CompletedAt: timePtr(r.CompletedAt),
	}
}

// CreateTemplate marks a workout as a reusable plan. A second template
// for the same workout fails with ErrConstraintViolation.
func (d *DB) CreateTemplate(ctx context.Context, workoutID int64) (*models.WorkoutTemplate, error) {
	t := &models.WorkoutTemplate{WorkoutID: workoutID}
	if err := d.insertTemplate(ctx, d.db, t); err != nil {
		return nil, wrapErr("create", "workout template", 0, err)
	}
	return t, nil
}

func (d *DB) insertTemplate(ctx context.Context, q querier, t *models.WorkoutTemplate) error {
	var row *sqlx.Row
	if t.ID > 0 {
		query := `INSERT INTO workout_template (id, workout_id) VALUES (?, ?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), t.ID, t.WorkoutID)
	} else {
		query := `INSERT INTO workout_template (workout_id) VALUES (?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), t.WorkoutID)
	}
	if err := row.Scan(&t.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// DeleteTemplate removes a template row, leaving the workout in place.
func (d *DB) DeleteTemplate(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout_template WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "workout template", id, d.classify(err))
	}
	return wrapErr("delete", "workout template", id, affectedOne(result))
}

// CreateWorkoutLog marks an existing workout as a logged session. A
// second log for the same workout fails with ErrConstraintViolation.
func (d *DB) CreateWorkoutLog(ctx context.Context, l *models.WorkoutLog) error {
	if err := l.Validate(); err != nil {
		return wrapErr("create", "workout log", 0, validationErr(err))
	}
	return wrapErr("create", "workout log", 0, d.insertWorkoutLog(ctx, d.db, l))
}

func (d *DB) insertWorkoutLog(ctx context.Context, q querier, l *models.WorkoutLog) error {
	args := []interface{}{l.WorkoutID, toNullableArg(l.Note), toMillis(l.StartedAt), nullableMillis(l.CompletedAt)}
	query := `INSERT INTO workout_log (workout_id, note, started_at, completed_at) VALUES (?, ?, ?, ?) RETURNING id`
	if l.ID > 0 {
		query = `INSERT INTO workout_log (id, workout_id, note, started_at, completed_at) VALUES (?, ?, ?, ?, ?) RETURNING id`
		args = append([]interface{}{l.ID}, args...)
	}
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&l.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// GetWorkoutLog retrieves a workout log by ID.
func (d *DB) GetWorkoutLog(ctx context.Context, id int64) (*models.WorkoutLog, error) {
	var row workoutLogRow
	err := d.db.GetContext(ctx, &row, d.db.Rebind(`
		SELECT id, workout_id, note, started_at, completed_at
		FROM workout_log
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("get", "workout log", id, ErrNotFound)
		}
		return nil, wrapErr("get", "workout log", id, err)
	}
	return row.toModel(), nil
}

// UpdateWorkoutLog changes a log's note and timestamps.
func (d *DB) UpdateWorkoutLog(ctx context.Context, l *models.WorkoutLog) error {
	if err := l.Validate(); err != nil {
		return wrapErr("update", "workout log", l.ID, validationErr(err))
	}

	result, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE workout_log SET note = ?, started_at = ?, completed_at = ? WHERE id = ?`),
		toNullableArg(l.Note), toMillis(l.StartedAt), nullableMillis(l.CompletedAt), l.ID)
	if err != nil {
		return wrapErr("update", "workout log", l.ID, d.classify(err))
	}
	return wrapErr("update", "workout log", l.ID, affectedOne(result))
}

// CompleteWorkoutLog moves a session from in progress to completed.
func (d *DB) CompleteWorkoutLog(ctx context.Context, id int64, at time.Time) error {
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		var row workoutLogRow
		err := tx.GetContext(ctx, &row, tx.Rebind(`
			SELECT id, workout_id, note, started_at, completed_at
			FROM workout_log
			WHERE id = ?
		`), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		l := row.toModel()
		if !l.InProgress() {
			return ErrAlreadyCompleted
		}
		l.CompletedAt = &at
		if err := l.Validate(); err != nil {
			return validationErr(err)
		}

		result, err := tx.ExecContext(ctx,
			tx.Rebind(`UPDATE workout_log SET completed_at = ? WHERE id = ? AND completed_at IS NULL`),
			toMillis(at), id)
		if err != nil {
			return d.classify(err)
		}
		if err := affectedOne(result); err != nil {
			return ErrAlreadyCompleted
		}
		return nil
	})
	return wrapErr("complete", "workout log", id, err)
}

// DeleteWorkoutLog removes a log row, leaving the workout in place.
func (d *DB) DeleteWorkoutLog(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout_log WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "workout log", id, d.classify(err))
	}
	return wrapErr("delete", "workout log", id, affectedOne(result))
}

// StartFromTemplate copies a template workout into a new workout with a
// log started at startedAt. Exercises and sets are cloned in order with
// fresh sort positions appended after every existing row.
func (d *DB) StartFromTemplate(ctx context.Context, templateWorkoutID int64, startedAt time.Time) (*models.Workout, error) {
	var started *models.Workout
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		tmpl, err := d.getWorkoutTree(ctx, tx, templateWorkoutID)
		if err != nil {
			return err
		}
		if tmpl.Template == nil {
			return ErrNotTemplate
		}

		w := &models.Workout{
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Log:         models.NewWorkoutLog(startedAt),
		}
		if err := d.insertWorkoutWithChildren(ctx, tx, w); err != nil {
			return err
		}

		for _, src := range tmpl.Exercises {
			order, err := d.nextSortOrder(ctx, tx, tableWorkoutExercise)
			if err != nil {
				return err
			}
			we := models.NewWorkoutExercise(w.ID, src.ExerciseID, order)
			if err := d.insertWorkoutExercise(ctx, tx, we); err != nil {
				return err
			}

			for _, srcSet := range src.Sets {
				order, err := d.nextSortOrder(ctx, tx, tableSet)
				if err != nil {
					return err
				}
				s := models.NewSet(we.ID, order, srcSet.Type, srcSet.PauseSeconds)
				s.Description = srcSet.Description
				if err := d.insertSet(ctx, tx, s); err != nil {
					return err
				}
			}
		}

		started, err = d.getWorkoutTree(ctx, tx, w.ID)
		if err != nil {
			return fmt.Errorf("reload started workout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("start", "workout from template", templateWorkoutID, err)
	}
	return started, nil
}
