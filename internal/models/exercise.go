// ABOUTME: Exercise and WorkoutExercise models.
// ABOUTME: A WorkoutExercise places an Exercise in a Workout at a sort position.
package models

import (
	"fmt"
	"strings"
)

// Exercise is a reusable movement definition.
type Exercise struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewExercise creates an Exercise with the given title.
func NewExercise(title string) *Exercise {
	return &Exercise{Title: title}
}

// WithDescription sets the description.
func (e *Exercise) WithDescription(description string) *Exercise {
	e.Description = &description
	return e
}

// Validate checks the fields the store requires.
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	return nil
}

// WorkoutExercise associates an Exercise with a Workout. SortOrder is
// unique across every workout, not only among siblings.
type WorkoutExercise struct {
	ID         int64                `json:"id" yaml:"id"`
	WorkoutID  int64                `json:"workout_id" yaml:"workout_id"`
	ExerciseID int64                `json:"exercise_id" yaml:"exercise_id"`
	SortOrder  float64              `json:"sort_order" yaml:"sort_order"`
	Exercise   *Exercise            `json:"exercise,omitempty" yaml:"exercise,omitempty"`
	Sets       []WorkoutExerciseSet `json:"sets,omitempty" yaml:"sets,omitempty"`
}

// NewWorkoutExercise creates a placement of exerciseID in workoutID.
func NewWorkoutExercise(workoutID, exerciseID int64, sortOrder float64) *WorkoutExercise {
	return &WorkoutExercise{
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		SortOrder:  sortOrder,
	}
}

// Validate checks the fields the store requires.
func (we *WorkoutExercise) Validate() error {
	return ValidateSortOrder(we.SortOrder)
}

// ValidationError reports a field rejected before reaching storage.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
