// ABOUTME: Sort-order allocation and reordering for workout exercises and sets.
// ABOUTME: Positions are unique per table, so neighbours are looked up table-wide.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

const (
	tableWorkoutExercise = "workout_exercise"
	tableSet             = "workout_exercise_set"
)

// parentColumns maps an ordered table to the column naming its parent.
var parentColumns = map[string]string{
	tableWorkoutExercise: "workout_id",
	tableSet:             "workout_exercise_id",
}

type positionRow struct {
	ID        int64   `db:"id"`
	ParentID  int64   `db:"parent_id"`
	SortOrder float64 `db:"sort_order"`
}

// nextSortOrder returns one past the highest sort_order in table.
func (d *DB) nextSortOrder(ctx context.Context, q querier, table string) (float64, error) {
	var next float64
	query := `SELECT COALESCE(MAX(sort_order), 0.0) + 1.0 FROM ` + table
	if err := sqlx.GetContext(ctx, q, &next, query); err != nil {
		return 0, fmt.Errorf("next sort order for %s: %w", table, err)
	}
	if next-1 == next {
		return 0, &ConstraintError{Kind: ErrConstraintViolation, Detail: table + ".sort_order has no room to append"}
	}
	return next, nil
}

func (d *DB) getPosition(ctx context.Context, q querier, table string, id int64) (*positionRow, error) {
	var row positionRow
	query := fmt.Sprintf(`SELECT id, %s AS parent_id, sort_order FROM %s WHERE id = ?`, parentColumns[table], table)
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// reorder sets an explicit sort_order; a value already taken anywhere in
// the table fails with ErrConstraintViolation.
func (d *DB) reorder(ctx context.Context, table string, id int64, sortOrder float64) error {
	if err := models.ValidateSortOrder(sortOrder); err != nil {
		return validationErr(err)
	}
	query := `UPDATE ` + table + ` SET sort_order = ? WHERE id = ?`
	result, err := d.db.ExecContext(ctx, d.db.Rebind(query), sortOrder, id)
	if err != nil {
		return d.classify(err)
	}
	return affectedOne(result)
}

// move places row id directly after sibling afterID, or first among its
// siblings when afterID is nil, and returns the new position. The new
// value lies strictly between the anchor and the next value in the whole
// table, so it is unique and lands before the next sibling.
func (d *DB) move(ctx context.Context, table string, id int64, afterID *int64) (float64, error) {
	var pos float64
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		self, err := d.getPosition(ctx, tx, table, id)
		if err != nil {
			return err
		}
		parentCol := parentColumns[table]

		var lower, upper *float64
		if afterID == nil {
			var first sql.NullFloat64
			query := fmt.Sprintf(`SELECT MIN(sort_order) FROM %s WHERE %s = ? AND id <> ?`, table, parentCol)
			if err := tx.GetContext(ctx, &first, tx.Rebind(query), self.ParentID, id); err != nil {
				return err
			}
			if !first.Valid || self.SortOrder < first.Float64 {
				pos = self.SortOrder
				return nil
			}
			upper = &first.Float64

			var prev sql.NullFloat64
			query = fmt.Sprintf(`SELECT MAX(sort_order) FROM %s WHERE sort_order < ? AND id <> ?`, table)
			if err := tx.GetContext(ctx, &prev, tx.Rebind(query), first.Float64, id); err != nil {
				return err
			}
			lower = floatPtr(prev)
		} else {
			if *afterID == id {
				return &ConstraintError{Kind: ErrConstraintViolation, Detail: "cannot move a row after itself"}
			}
			anchor, err := d.getPosition(ctx, tx, table, *afterID)
			if err != nil {
				return fmt.Errorf("anchor %d: %w", *afterID, err)
			}
			if anchor.ParentID != self.ParentID {
				return &ConstraintError{Kind: ErrConstraintViolation, Detail: "anchor belongs to a different parent"}
			}
			lower = &anchor.SortOrder

			var next sql.NullFloat64
			query := fmt.Sprintf(`SELECT MIN(sort_order) FROM %s WHERE sort_order > ? AND id <> ?`, table)
			if err := tx.GetContext(ctx, &next, tx.Rebind(query), anchor.SortOrder, id); err != nil {
				return err
			}
			upper = floatPtr(next)
		}

		pos, err = models.SortOrderBetween(lower, upper)
		if err != nil {
			return &ConstraintError{Kind: ErrConstraintViolation, Detail: "no room after anchor", Err: err}
		}

		query := `UPDATE ` + table + ` SET sort_order = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), pos, id); err != nil {
			return d.classify(err)
		}
		return nil
	})
	return pos, err
}
