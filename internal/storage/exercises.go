// ABOUTME: Exercise CRUD operations.
// ABOUTME: An exercise cannot be deleted while any workout still places it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
)

type exerciseRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
}

func (r exerciseRow) toModel() *models.Exercise {
	return &models.Exercise{
		ID:          r.ID,
		Title:       r.Title,
		Description: stringPtr(r.Description),
	}
}

// CreateExercise stores a new exercise.
func (d *DB) CreateExercise(ctx context.Context, e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return wrapErr("create", "exercise", 0, validationErr(err))
	}
	return wrapErr("create", "exercise", 0, d.insertExercise(ctx, d.db, e))
}

func (d *DB) insertExercise(ctx context.Context, q querier, e *models.Exercise) error {
	var row *sqlx.Row
	if e.ID > 0 {
		query := `INSERT INTO exercise (id, title, description) VALUES (?, ?, ?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), e.ID, e.Title, toNullableArg(e.Description))
	} else {
		query := `INSERT INTO exercise (title, description) VALUES (?, ?) RETURNING id`
		row = q.QueryRowxContext(ctx, q.Rebind(query), e.Title, toNullableArg(e.Description))
	}
	if err := row.Scan(&e.ID); err != nil {
		return d.classify(err)
	}
	return nil
}

// GetExercise retrieves an exercise by ID.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var row exerciseRow
	err := d.db.GetContext(ctx, &row, d.db.Rebind(`SELECT id, title, description FROM exercise WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wrapErr("get", "exercise", id, ErrNotFound)
		}
		return nil, wrapErr("get", "exercise", id, err)
	}
	return row.toModel(), nil
}

// ListExercises retrieves exercises ordered by title.
func (d *DB) ListExercises(ctx context.Context, limit int) ([]*models.Exercise, error) {
	query := `SELECT id, title, description FROM exercise ORDER BY LOWER(title) ASC, id ASC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []exerciseRow
	if err := d.db.SelectContext(ctx, &rows, d.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	exercises := make([]*models.Exercise, 0, len(rows))
	for _, r := range rows {
		exercises = append(exercises, r.toModel())
	}
	return exercises, nil
}

// UpdateExercise changes an exercise's title and description.
func (d *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return wrapErr("update", "exercise", e.ID, validationErr(err))
	}

	result, err := d.db.ExecContext(ctx,
		d.db.Rebind(`UPDATE exercise SET title = ?, description = ? WHERE id = ?`),
		e.Title, toNullableArg(e.Description), e.ID)
	if err != nil {
		return wrapErr("update", "exercise", e.ID, d.classify(err))
	}
	return wrapErr("update", "exercise", e.ID, affectedOne(result))
}

// DeleteExercise removes an exercise. It fails with
// ErrReferentialIntegrity while a workout exercise references it.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, d.db.Rebind(`DELETE FROM exercise WHERE id = ?`), id)
	if err != nil {
		return wrapErr("delete", "exercise", id, d.classify(err))
	}
	return wrapErr("delete", "exercise", id, affectedOne(result))
}
