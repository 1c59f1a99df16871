// ABOUTME: WorkoutExerciseSet operations: add, append, list, update, reorder, move, delete.
// ABOUTME: Set type is checked before insert; sort_order is unique table-wide.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

// setRow is a set joined with its optional log.
type setRow struct {
	ID                int64           `db:"id"`
	WorkoutExerciseID int64           `db:"workout_exercise_id"`
	SortOrder         float64         `db:"sort_order"`
	Type              string          `db:"type"`
	Description       sql.NullString  `db:"description"`
	PauseSeconds      int             `db:"pause_seconds"`
	LogID             sql.NullInt64   `db:"workout_exercise_set_log_id"`
	LogNote           sql.NullString  `db:"log_note"`
	LogWeight         sql.NullFloat64 `db:"log_weight"`
	LogRepetitions    sql.NullInt64   `db:"log_repetitions"`
	LogCompletedAt    sql.NullInt64   `db:"log_completed_at"`
}

const setSelect = `
	SELECT s.id, s.workout_exercise_id, s.sort_order, s.type, s.description,
		s.pause_seconds, s.workout_exercise_set_log_id,
		sl.note AS log_note, sl.weight AS log_weight,
		sl.repetitions AS log_repetitions, sl.completed_at AS log_completed_at
	FROM workout_exercise_set s
	LEFT JOIN workout_exercise_set_log sl ON sl.id = s.workout_exercise_set_log_id
`

func (r setRow) toModel() *models.WorkoutExerciseSet {
	s := &models.WorkoutExerciseSet{
		ID:                      r.ID,
		WorkoutExerciseID:       r.WorkoutExerciseID,
		SortOrder:               r.SortOrder,
		Type:                    models.SetType(r.Type),
		Description:             stringPtr(r.Description),
		PauseSeconds:            r.PauseSeconds,
		WorkoutExerciseSetLogID: int64Ptr(r.LogID),
	}
	if r.LogID.Valid {
		s.Log = &models.WorkoutExerciseSetLog{
			ID:          r.LogID.Int64,
			Note:        stringPtr(r.LogNote),
			Weight:      floatPtr(r.LogWeight),
			Repetitions: intPtr(r.LogRepetitions),
			CompletedAt: timePtr(r.LogCompletedAt),
		}
	}
	return s
}

// AddSet stores a planned set at s.SortOrder. An unknown type fails with
// ErrInvalidEnumValue; a taken sort_order with ErrConstraintViolation.
func (d *DB) AddSet(ctx context.Context, s *models.WorkoutExerciseSet) error {
	if err := s.Validate(); err != nil {
		return wrapErr("add", "set", 0, validationErr(err))
	}
	return wrapErr("add", "set", 0, d.insertSet(ctx, d.db, s))
}

// AppendSet stores a planned set after every existing set, ignoring s.SortOrder.
func (d *DB) AppendSet(ctx context.Context, s *models.WorkoutExerciseSet) error {
	if err := s.Validate(); err != nil {
		return wrapErr("append", "set", 0, validationErr(err))
	}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		order, err := d.nextSortOrder(ctx, tx, tableSet)
		if err != nil {
			return err
		}
		s.SortOrder = order
		return d.insertSet(ctx, tx, s)
	})
	return wrapErr("append", "set", 0, err)
}

func (d *DB) insertSet(ctx context.Context, q querier, s *models.WorkoutExerciseSet) error {
	args := []interface{}{
		s.WorkoutExerciseID,
		s.SortOrder,
		string(s.Type),
		toNullableArg(s.Description),
		s.PauseSeconds,
		toNullableArg(s.WorkoutExerciseSetLogID),
	}
	query := `INSERT INTO workout_exercise_set
		(workout_exercise_id, sort_order, type, description, pause_seconds, workout_exercise_set_log_id)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`
	if s.ID > 0 {
		query = `INSERT INTO workout_exercise_set
			(id, workout_exercise_id, sort_order, type, description, pause_seconds, workout_exercise_set_log_id)
			VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
		args = append([]interface{}{s.ID}, args...)
	}
	if err := q.QueryRowxContext(ctx, q.Rebind(query), args...).Scan(&s.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// GetSet retrieves a set with its log, if linked.
func (d *DB) GetSet(ctx context.Context, id int64) (*models.WorkoutExerciseSet, error) {
	s, err := d.getSet(ctx, d.db, id)
	if err != nil {
		return nil, wrapErr("get", "set", id, err)
	}
	return s, nil
}

func (d *DB) getSet(ctx context.Context, q querier, id int64) (*models.WorkoutExerciseSet, error) {
	var row setRow
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(setSelect+` WHERE s.id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

// ListSets retrieves a workout exercise's sets in sort order.
func (d *DB) ListSets(ctx context.Context, workoutExerciseID int64) ([]*models.WorkoutExerciseSet, error) {
	sets, err := d.listSets(ctx, d.db, workoutExerciseID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

func (d *DB) listSets(ctx context.Context, q querier, workoutExerciseID int64) ([]*models.WorkoutExerciseSet, error) {
	var rows []setRow
	query := setSelect + ` WHERE s.workout_exercise_id = ? ORDER BY s.sort_order ASC`
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), workoutExerciseID); err != nil {
		return nil, err
	}

	sets := make([]*models.WorkoutExerciseSet, 0, len(rows))
	for _, r := range rows {
		sets = append(sets, r.toModel())
	}
	return sets, nil
}

// UpdateSet changes a set's type, description and pause. Position and
// log link have their own operations.
func (d *DB) UpdateSet(ctx context.Context, s *models.WorkoutExerciseSet) error {
	if err := s.Validate(); err != nil {
		return wrapErr("update", "set", s.ID, validationErr(err))
	}

	result, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE workout_exercise_set SET type = ?, description = ?, pause_seconds = ? WHERE id = ?`),
		string(s.Type), toNullableArg(s.Description), s.PauseSeconds, s.ID)
	if err != nil {
		return wrapErr("update", "set", s.ID, d.classify(err))
	}
	return wrapErr("update", "set", s.ID, affectedOne(result))
}

// ReorderSet sets an explicit sort_order.
func (d *DB) ReorderSet(ctx context.Context, id int64, sortOrder float64) error {
	return wrapErr("reorder", "set", id, d.reorder(ctx, tableSet, id, sortOrder))
}

// MoveSet places a set directly after sibling afterID, or first when
// afterID is nil, and returns the new position.
func (d *DB) MoveSet(ctx context.Context, id int64, afterID *int64) (float64, error) {
	pos, err := d.move(ctx, tableSet, id, afterID)
	if err != nil {
		return 0, wrapErr("move", "set", id, err)
	}
	return pos, nil
}

// DeleteSet removes a set. A linked set log is left in place.
func (d *DB) DeleteSet(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM workout_exercise_set WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "set", id, d.classify(err))
	}
	return wrapErr("delete", "set", id, affectedOne(result))
}
