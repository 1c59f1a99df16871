// ABOUTME: WorkoutExerciseSet and WorkoutExerciseSetLog models.
// ABOUTME: A set is planned work; its optional log records what was actually done.
package models

import (
	"fmt"
	"strings"
	"time"
)

// SetType classifies a planned set.
type SetType string

const (
	SetTypeWarmup SetType = "warmup"
	SetTypeWork   SetType = "work"
)

// AllSetTypes returns the permitted set types.
func AllSetTypes() []SetType {
	return []SetType{SetTypeWarmup, SetTypeWork}
}

// IsValid reports whether t is one of the permitted set types.
func (t SetType) IsValid() bool {
	return t == SetTypeWarmup || t == SetTypeWork
}

// ParseSetType converts s to a SetType, case-insensitively.
func ParseSetType(s string) (SetType, error) {
	t := SetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &EnumError{Field: "type", Value: s}
	}
	return t, nil
}

// EnumError reports a value outside an enumerated domain.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s: %q is not one of warmup, work", e.Field, e.Value)
}

// WorkoutExerciseSet is one planned unit of work within a WorkoutExercise.
// SortOrder is unique across the whole set table.
type WorkoutExerciseSet struct {
	ID                      int64                  `json:"id" yaml:"id"`
	WorkoutExerciseID       int64                  `json:"workout_exercise_id" yaml:"workout_exercise_id"`
	SortOrder               float64                `json:"sort_order" yaml:"sort_order"`
	Type                    SetType                `json:"type" yaml:"type"`
	Description             *string                `json:"description,omitempty" yaml:"description,omitempty"`
	PauseSeconds            int                    `json:"pause_seconds" yaml:"pause_seconds"`
	WorkoutExerciseSetLogID *int64                 `json:"workout_exercise_set_log_id,omitempty" yaml:"workout_exercise_set_log_id,omitempty"`
	Log                     *WorkoutExerciseSetLog `json:"log,omitempty" yaml:"log,omitempty"`
}

// NewSet creates a planned set.
func NewSet(workoutExerciseID int64, sortOrder float64, setType SetType, pauseSeconds int) *WorkoutExerciseSet {
	return &WorkoutExerciseSet{
		WorkoutExerciseID: workoutExerciseID,
		SortOrder:         sortOrder,
		Type:              setType,
		PauseSeconds:      pauseSeconds,
	}
}

// WithDescription sets the description.
func (s *WorkoutExerciseSet) WithDescription(description string) *WorkoutExerciseSet {
	s.Description = &description
	return s
}

// Logged reports whether a set log is linked.
func (s *WorkoutExerciseSet) Logged() bool {
	return s.WorkoutExerciseSetLogID != nil
}

// Validate checks the fields the store requires. An unknown type yields
// an *EnumError; other failures a *ValidationError.
func (s *WorkoutExerciseSet) Validate() error {
	if !s.Type.IsValid() {
		return &EnumError{Field: "type", Value: string(s.Type)}
	}
	if s.PauseSeconds < 0 {
		return &ValidationError{Field: "pause_seconds", Reason: "must not be negative"}
	}
	return ValidateSortOrder(s.SortOrder)
}

// WorkoutExerciseSetLog is the recorded outcome of a planned set.
type WorkoutExerciseSetLog struct {
	ID          int64      `json:"id" yaml:"id"`
	Note        *string    `json:"note,omitempty" yaml:"note,omitempty"`
	Weight      *float64   `json:"weight,omitempty" yaml:"weight,omitempty"`
	Repetitions *int       `json:"repetitions,omitempty" yaml:"repetitions,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewSetLog creates an empty set log.
func NewSetLog() *WorkoutExerciseSetLog {
	return &WorkoutExerciseSetLog{}
}

// WithWeight sets the weight lifted.
func (l *WorkoutExerciseSetLog) WithWeight(weight float64) *WorkoutExerciseSetLog {
	l.Weight = &weight
	return l
}

// WithRepetitions sets the repetitions performed.
func (l *WorkoutExerciseSetLog) WithRepetitions(reps int) *WorkoutExerciseSetLog {
	l.Repetitions = &reps
	return l
}

// WithNote sets a note.
func (l *WorkoutExerciseSetLog) WithNote(note string) *WorkoutExerciseSetLog {
	l.Note = &note
	return l
}

// WithCompletedAt sets the completion timestamp.
func (l *WorkoutExerciseSetLog) WithCompletedAt(t time.Time) *WorkoutExerciseSetLog {
	l.CompletedAt = &t
	return l
}

// Validate checks the fields the store requires.
func (l *WorkoutExerciseSetLog) Validate() error {
	if l.Repetitions != nil && *l.Repetitions < 0 {
		return &ValidationError{Field: "repetitions", Reason: "must not be negative"}
	}
	return nil
}
