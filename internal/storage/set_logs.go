// ABOUTME: WorkoutExerciseSetLog operations and the set-to-log link.
// ABOUTME: The link column on the set is unique, so a log belongs to at most one set.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

type setLogRow struct {
	ID          int64           `db:"id"`
	Note        sql.NullString  `db:"note"`
	Weight      sql.NullFloat64 `db:"weight"`
	Repetitions sql.NullInt64   `db:"repetitions"`
	CompletedAt sql.NullInt64   `db:"completed_at"`
}

func (r setLogRow) toModel() *models.WorkoutExerciseSetLog {
	return &models.WorkoutExerciseSetLog{
		ID:          r.ID,
		Note:        stringPtr(r.Note),
		Weight:      floatPtr(r.Weight),
		Repetitions: intPtr(r.Repetitions),
		CompletedAt: timePtr(r.CompletedAt),
	}
}

var errSetAlreadyLogged = &ConstraintError{Kind: ErrConstraintViolation, Detail: "set already has a log"}

// RecordSetLog stores l and links it to the set in one transaction. A set
// that already has a log fails with ErrConstraintViolation.
func (d *DB) RecordSetLog(ctx context.Context, setID int64, l *models.WorkoutExerciseSetLog) error {
	if err := l.Validate(); err != nil {
		return wrapErr("record", "set log", 0, validationErr(err))
	}

	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		s, err := d.getSet(ctx, tx, setID)
		if err != nil {
			return err
		}
		if s.Logged() {
			return errSetAlreadyLogged
		}
		if err := d.insertSetLog(ctx, tx, l); err != nil {
			return err
		}
		return d.link(ctx, tx, setID, l.ID)
	})
	if err != nil {
		l.ID = 0
		return wrapErr("record", "set log", setID, err)
	}
	return nil
}

// CreateSetLog stores a set log without linking it.
func (d *DB) CreateSetLog(ctx context.Context, l *models.WorkoutExerciseSetLog) error {
	if err := l.Validate(); err != nil {
		return wrapErr("create", "set log", 0, validationErr(err))
	}
	return wrapErr("create", "set log", 0, d.insertSetLog(ctx, d.db, l))
}

func (d *DB) insertSetLog(ctx context.Context, q querier, l *models.WorkoutExerciseSetLog) error {
	args := []interface{}{
		toNullableArg(l.Note),
		toNullableArg(l.Weight),
		toNullableArg(l.Repetitions),
		nullableMillis(l.CompletedAt),
	}
	query := `INSERT INTO workout_exercise_set_log (note, weight, repetitions, completed_at)
		VALUES (?, ?, ?, ?) RETURNING id`
	if l.ID > 0 {
		query = `INSERT INTO workout_exercise_set_log (id, note, weight, repetitions, completed_at)
			VALUES (?, ?, ?, ?, ?) RETURNING id`
		args = append([]interface{}{l.ID}, args...)
	}
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&l.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// LinkSetLog links an existing log to a set. It fails with
// ErrConstraintViolation when the set already has a log or another set
// already references the log, and ErrReferentialIntegrity when the log
// does not exist.
func (d *DB) LinkSetLog(ctx context.Context, setID, logID int64) error {
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		return d.link(ctx, tx, setID, logID)
	})
	return wrapErr("link", "set log", setID, err)
}

// link only fills an empty slot, so a concurrent writer that got there
// first leaves zero affected rows.
func (d *DB) link(ctx context.Context, q querier, setID, logID int64) error {
	result, err := q.ExecContext(ctx, q.Rebind(`
		UPDATE workout_exercise_set
		SET workout_exercise_set_log_id = ?
		WHERE id = ? AND workout_exercise_set_log_id IS NULL
	`), logID, setID)
	if err != nil {
		return d.classify(err)
	}
	if err := affectedOne(result); err == nil {
		return nil
	}
	if _, err := d.getSet(ctx, q, setID); err != nil {
		return err
	}
	return errSetAlreadyLogged
}

// UnlinkSetLog clears a set's log link, returning it to planned. The log
// row itself is kept.
func (d *DB) UnlinkSetLog(ctx context.Context, setID int64) error {
	result, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE workout_exercise_set SET workout_exercise_set_log_id = NULL WHERE id = ?`), setID)
	if err != nil {
		return wrapErr("unlink", "set log", setID, d.classify(err))
	}
	return wrapErr("unlink", "set log", setID, affectedOne(result))
}

// GetSetLog retrieves a set log by ID.
func (d *DB) GetSetLog(ctx context.Context, id int64) (*models.WorkoutExerciseSetLog, error) {
	var row setLogRow
	err := d.db.GetContext(ctx, &row, d.db.Rebind(`
		SELECT id, note, weight, repetitions, completed_at
		FROM workout_exercise_set_log
		WHERE id = ?
	`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("get", "set log", id, ErrNotFound)
		}
		return nil, wrapErr("get", "set log", id, err)
	}
	return row.toModel(), nil
}

// UpdateSetLog changes a set log's recorded values.
func (d *DB) UpdateSetLog(ctx context.Context, l *models.WorkoutExerciseSetLog) error {
	if err := l.Validate(); err != nil {
		return wrapErr("update", "set log", l.ID, validationErr(err))
	}

	result, err := d.db.ExecContext(ctx, d.db.Rebind(`
		UPDATE workout_exercise_set_log
		SET note = ?, weight = ?, repetitions = ?, completed_at = ?
		WHERE id = ?
	`), toNullableArg(l.Note), toNullableArg(l.Weight), toNullableArg(l.Repetitions), nullableMillis(l.CompletedAt), l.ID)
	if err != nil {
		return wrapErr("update", "set log", l.ID, d.classify(err))
	}
	return wrapErr("update", "set log", l.ID, affectedOne(result))
}

// DeleteSetLog removes a set log. It fails with ErrReferentialIntegrity
// while a set still links to it.
func (d *DB) DeleteSetLog(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout_exercise_set_log WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "set log", id, d.classify(err))
	}
	return wrapErr("delete", "set log", id, affectedOne(result))
}

// listOrphanSetLogs returns logs no set links to.
func (d *DB) listOrphanSetLogs(ctx context.Context, q querier) ([]*models.WorkoutExerciseSetLog, error) {
	var rows []setLogRow
	err := sqlx.SelectContext(ctx, q, &rows, `
		SELECT sl.id, sl.note, sl.weight, sl.repetitions, sl.completed_at
		FROM workout_exercise_set_log sl
		WHERE NOT EXISTS (
			SELECT 1 FROM workout_exercise_set s WHERE s.workout_exercise_set_log_id = sl.id
		)
		ORDER BY sl.id ASC
	`)
	if err != nil {
		return nil, err
	}

	logs := make([]*models.WorkoutExerciseSetLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, r.toModel())
	}
	return logs, nil
}
