// ABOUTME: Workout, WorkoutTemplate and WorkoutLog models.
// ABOUTME: A workout is a template, a logged session, or both, by which child rows exist.
package models

import (
	"strings"
	"time"
)

// Workout is the session container. Template and Log are populated when
// the matching child row exists; Exercises when fetching the full tree.
type Workout struct {
	ID          int64             `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description *string           `json:"description,omitempty" yaml:"description,omitempty"`
	Template    *WorkoutTemplate  `json:"template,omitempty" yaml:"template,omitempty"`
	Log         *WorkoutLog       `json:"log,omitempty" yaml:"log,omitempty"`
	Exercises   []WorkoutExercise `json:"exercises,omitempty" yaml:"exercises,omitempty"`
}

// WorkoutKind describes which role child rows give a workout.
type WorkoutKind string

const (
	KindPlain    WorkoutKind = "plain"
	KindTemplate WorkoutKind = "template"
	KindLog      WorkoutKind = "log"
	// KindBoth is permitted by the schema though not intended usage.
	KindBoth WorkoutKind = "both"
)

// NewWorkout creates a Workout with the given title.
func NewWorkout(title string) *Workout {
	return &Workout{Title: title}
}

// WithDescription sets the description.
func (w *Workout) WithDescription(description string) *Workout {
	w.Description = &description
	return w
}

// AsTemplate attaches a template marker to be created with the workout.
func (w *Workout) AsTemplate() *Workout {
	w.Template = &WorkoutTemplate{}
	return w
}

// AsLog attaches a log to be created with the workout.
func (w *Workout) AsLog(startedAt time.Time) *Workout {
	w.Log = NewWorkoutLog(startedAt)
	return w
}

// Kind reports the workout's role from its loaded child rows.
func (w *Workout) Kind() WorkoutKind {
	switch {
	case w.Template != nil && w.Log != nil:
		return KindBoth
	case w.Template != nil:
		return KindTemplate
	case w.Log != nil:
		return KindLog
	default:
		return KindPlain
	}
}

// Validate checks the fields the store requires.
func (w *Workout) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	return nil
}

// WorkoutTemplate marks a workout as a reusable plan.
type WorkoutTemplate struct {
	ID        int64 `json:"id" yaml:"id"`
	WorkoutID int64 `json:"workout_id" yaml:"workout_id"`
}

// WorkoutLog marks a workout as an executed or executing session.
type WorkoutLog struct {
	ID          int64      `json:"id" yaml:"id"`
	WorkoutID   int64      `json:"workout_id" yaml:"workout_id"`
	Note        *string    `json:"note,omitempty" yaml:"note,omitempty"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewWorkoutLog creates a log started at the given time.
func NewWorkoutLog(startedAt time.Time) *WorkoutLog {
	return &WorkoutLog{StartedAt: startedAt}
}

// WithNote sets a note on the log.
func (l *WorkoutLog) WithNote(note string) *WorkoutLog {
	l.Note = &note
	return l
}

// InProgress is true until CompletedAt is set.
func (l *WorkoutLog) InProgress() bool {
	return l.CompletedAt == nil
}

// Duration returns the elapsed time of a completed session, or the time
// since start for one still in progress.
func (l *WorkoutLog) Duration(now time.Time) time.Duration {
	if l.CompletedAt != nil {
		return l.CompletedAt.Sub(l.StartedAt)
	}
	return now.Sub(l.StartedAt)
}

// Validate checks the fields the store requires.
func (l *WorkoutLog) Validate() error {
	if l.StartedAt.IsZero() {
		return &ValidationError{Field: "started_at", Reason: "required"}
	}
	if l.CompletedAt != nil && l.CompletedAt.Before(l.StartedAt) {
		return &ValidationError{Field: "completed_at", Reason: "before started_at"}
	}
	return nil
}
