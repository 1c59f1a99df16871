// ABOUTME: Schema definition and initialization for the seven workout tables.
// ABOUTME: Every foreign key is ON DELETE RESTRICT; sort_order is unique table-wide.
package storage

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS workout (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_template (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL UNIQUE REFERENCES workout(id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL UNIQUE REFERENCES workout(id) ON DELETE RESTRICT,
		note TEXT,
		started_at INTEGER NOT NULL,
		completed_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS exercise (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL REFERENCES workout(id) ON DELETE RESTRICT,
		exercise_id INTEGER NOT NULL REFERENCES exercise(id) ON DELETE RESTRICT,
		sort_order REAL NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise_set_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		note TEXT,
		weight REAL,
		repetitions INTEGER,
		completed_at INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise_set (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_exercise_id INTEGER NOT NULL REFERENCES workout_exercise(id) ON DELETE RESTRICT,
		sort_order REAL NOT NULL UNIQUE,
		type TEXT NOT NULL CHECK (type IN ('warmup', 'work')),
		description TEXT,
		pause_seconds INTEGER NOT NULL,
		workout_exercise_set_log_id INTEGER UNIQUE REFERENCES workout_exercise_set_log(id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_workout ON workout_exercise(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_exercise ON workout_exercise(exercise_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_set_parent ON workout_exercise_set(workout_exercise_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS workout (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_template (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		workout_id BIGINT NOT NULL UNIQUE REFERENCES workout(id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_log (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		workout_id BIGINT NOT NULL UNIQUE REFERENCES workout(id) ON DELETE RESTRICT,
		note TEXT,
		started_at BIGINT NOT NULL,
		completed_at BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS exercise (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		workout_id BIGINT NOT NULL REFERENCES workout(id) ON DELETE RESTRICT,
		exercise_id BIGINT NOT NULL REFERENCES exercise(id) ON DELETE RESTRICT,
		sort_order DOUBLE PRECISION NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise_set_log (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		note TEXT,
		weight DOUBLE PRECISION,
		repetitions INTEGER,
		completed_at BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS workout_exercise_set (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		workout_exercise_id BIGINT NOT NULL REFERENCES workout_exercise(id) ON DELETE RESTRICT,
		sort_order DOUBLE PRECISION NOT NULL UNIQUE,
		type TEXT NOT NULL CHECK (type IN ('warmup', 'work')),
		description TEXT,
		pause_seconds INTEGER NOT NULL,
		workout_exercise_set_log_id BIGINT UNIQUE REFERENCES workout_exercise_set_log(id) ON DELETE RESTRICT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_workout ON workout_exercise(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_exercise ON workout_exercise(exercise_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_exercise_set_parent ON workout_exercise_set(workout_exercise_id)`,
}

// tableNames lists tables parents-first; deletes walk it in reverse.
var tableNames = []string{
	"workout",
	"workout_template",
	"workout_log",
	"exercise",
	"workout_exercise",
	"workout_exercise_set_log",
	"workout_exercise_set",
}

// initSchema creates or updates the database schema.
func (d *DB) initSchema(ctx context.Context) error {
	schema := sqliteSchema
	if d.dialect == DialectPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema statement: %w", err)
		}
	}
	log.Debug("schema ready", "dialect", d.dialect, "statements", len(schema))
	return nil
}
