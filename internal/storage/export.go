// ABOUTME: Export and import functionality for workout data.
// ABOUTME: Supports JSON, YAML, and Markdown export; imports keep row IDs.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/workouts/internal/models"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export document version.
const ExportVersion = "1.0"

// ExportData represents the full export format for workout data.
// Workouts carry their whole tree; OrphanSetLogs holds logs no set links to.
type ExportData struct {
	Version       string                          `json:"version" yaml:"version"`
	ExportID      uuid.UUID                       `json:"export_id" yaml:"export_id"`
	ExportedAt    time.Time                       `json:"exported_at" yaml:"exported_at"`
	Tool          string                          `json:"tool" yaml:"tool"`
	Exercises     []*models.Exercise              `json:"exercises" yaml:"exercises"`
	Workouts      []*models.Workout               `json:"workouts" yaml:"workouts"`
	OrphanSetLogs []*models.WorkoutExerciseSetLog `json:"orphan_set_logs,omitempty" yaml:"orphan_set_logs,omitempty"`
}

// Counts returns the number of rows per table held in the export.
func (e *ExportData) Counts() map[string]int {
	counts := map[string]int{
		"exercise":                 len(e.Exercises),
		"workout":                  len(e.Workouts),
		"workout_template":         0,
		"workout_log":              0,
		"workout_exercise":         0,
		"workout_exercise_set":     0,
		"workout_exercise_set_log": len(e.OrphanSetLogs),
	}
	for _, w := range e.Workouts {
		if w.Template != nil {
			counts["workout_template"]++
		}
		if w.Log != nil {
			counts["workout_log"]++
		}
		for _, we := range w.Exercises {
			counts["workout_exercise"]++
			for _, s := range we.Sets {
				counts["workout_exercise_set"]++
				if s.Log != nil {
					counts["workout_exercise_set_log"]++
				}
			}
		}
	}
	return counts
}

// GetAllData retrieves all data for export, read in one transaction.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportID:   uuid.New(),
		ExportedAt: time.Now().UTC(),
		Tool:       "workouts",
	}

	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		var exercises []exerciseRow
		if err := tx.SelectContext(ctx, &exercises, `SELECT id, title, description FROM exercise ORDER BY id ASC`); err != nil {
			return fmt.Errorf("list exercises: %w", err)
		}
		for _, r := range exercises {
			data.Exercises = append(data.Exercises, r.toModel())
		}

		var ids []int64
		if err := tx.SelectContext(ctx, &ids, `SELECT id FROM workout ORDER BY id ASC`); err != nil {
			return fmt.Errorf("list workouts: %w", err)
		}
		for _, id := range ids {
			w, err := d.getWorkoutTree(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("get workout %d: %w", id, err)
			}
			data.Workouts = append(data.Workouts, w)
		}

		orphans, err := d.listOrphanSetLogs(ctx, tx)
		if err != nil {
			return fmt.Errorf("list set logs: %w", err)
		}
		data.OrphanSetLogs = orphans
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ImportData writes an export into the database in one transaction,
// keeping every row ID. The destination should be empty; any clash rolls
// the whole import back.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range data.Exercises {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("exercise %d: %w", e.ID, validationErr(err))
			}
			if err := d.insertExercise(ctx, tx, e); err != nil {
				return fmt.Errorf("exercise %d: %w", e.ID, err)
			}
		}

		for _, l := range data.OrphanSetLogs {
			if err := d.insertSetLog(ctx, tx, l); err != nil {
				return fmt.Errorf("set log %d: %w", l.ID, err)
			}
		}

		for _, w := range data.Workouts {
			if err := d.importWorkout(ctx, tx, w); err != nil {
				return fmt.Errorf("workout %d: %w", w.ID, err)
			}
		}

		if d.dialect == DialectPostgres {
			return d.resetSequences(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}
	log.Debug("imported data", "workouts", len(data.Workouts), "exercises", len(data.Exercises))
	return nil
}

func (d *DB) importWorkout(ctx context.Context, q querier, w *models.Workout) error {
	if err := w.Validate(); err != nil {
		return validationErr(err)
	}
	if w.Log != nil {
		if err := w.Log.Validate(); err != nil {
			return validationErr(err)
		}
	}
	if err := d.insertWorkoutWithChildren(ctx, q, w); err != nil {
		return err
	}

	for i := range w.Exercises {
		we := &w.Exercises[i]
		we.WorkoutID = w.ID
		if err := we.Validate(); err != nil {
			return fmt.Errorf("workout exercise %d: %w", we.ID, validationErr(err))
		}
		if err := d.insertWorkoutExercise(ctx, q, we); err != nil {
			return fmt.Errorf("workout exercise %d: %w", we.ID, err)
		}

		for j := range we.Sets {
			s := &we.Sets[j]
			s.WorkoutExerciseID = we.ID
			if err := s.Validate(); err != nil {
				return fmt.Errorf("set %d: %w", s.ID, validationErr(err))
			}
			if s.Log != nil {
				if err := d.insertSetLog(ctx, q, s.Log); err != nil {
					return fmt.Errorf("set log %d: %w", s.Log.ID, err)
				}
				s.WorkoutExerciseSetLogID = &s.Log.ID
			}
			if err := d.insertSet(ctx, q, s); err != nil {
				return fmt.Errorf("set %d: %w", s.ID, err)
			}
		}
	}
	return nil
}

// resetSequences moves each identity sequence past the imported IDs.
func (d *DB) resetSequences(ctx context.Context, q querier) error {
	for _, table := range tableNames {
		query := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s`,
			table, table)
		if _, err := q.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, raw []byte) error {
	data, err := DecodeExport(raw, "json")
	if err != nil {
		return err
	}
	return d.ImportData(ctx, data)
}

// DecodeExport parses an export document. format is "json" or "yaml";
// an empty format sniffs for a leading '{'.
func DecodeExport(raw []byte, format string) (*ExportData, error) {
	if format == "" {
		format = "yaml"
		if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
			format = "json"
		}
	}

	var data ExportData
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if data.Version == "" {
		return nil, fmt.Errorf("missing export version")
	}
	return &data, nil
}

// ExportMarkdown renders logged sessions since the given time, newest
// first, with each exercise's sets. A nil since includes everything.
func (d *DB) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return "", err
	}

	var sessions []*models.Workout
	for _, w := range data.Workouts {
		if w.Log == nil {
			continue
		}
		if since != nil && w.Log.StartedAt.Before(*since) {
			continue
		}
		sessions = append(sessions, w)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Log.StartedAt.After(sessions[j].Log.StartedAt)
	})

	var sb strings.Builder
	now := time.Now()
	sb.WriteString(fmt.Sprintf("# Workout Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, w := range sessions {
		sb.WriteString(fmt.Sprintf("## %s - %s\n\n", w.Log.StartedAt.Format("2006-01-02 15:04"), w.Title))
		if w.Log.CompletedAt != nil {
			sb.WriteString(fmt.Sprintf("Duration: %s\n\n", w.Log.Duration(now).Round(time.Minute)))
		} else {
			sb.WriteString("In progress\n\n")
		}
		if w.Log.Note != nil {
			sb.WriteString(*w.Log.Note + "\n\n")
		}

		for _, we := range w.Exercises {
			title := fmt.Sprintf("exercise %d", we.ExerciseID)
			if we.Exercise != nil {
				title = we.Exercise.Title
			}
			sb.WriteString(fmt.Sprintf("### %s\n\n", title))
			sb.WriteString("| # | Type | Weight | Reps | Pause |\n")
			sb.WriteString("|---|------|--------|------|-------|\n")
			for i, s := range we.Sets {
				weight, reps := "-", "-"
				if s.Log != nil && s.Log.Weight != nil {
					weight = fmt.Sprintf("%.1f", *s.Log.Weight)
				}
				if s.Log != nil && s.Log.Repetitions != nil {
					reps = fmt.Sprintf("%d", *s.Log.Repetitions)
				}
				sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %ds |\n",
					i+1, s.Type, weight, reps, s.PauseSeconds))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}
