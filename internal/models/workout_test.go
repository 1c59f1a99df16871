// ABOUTME: Tests for Workout, WorkoutTemplate and WorkoutLog models.
// ABOUTME: Validates constructors, builder methods and kind detection.
package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout("Leg Day")

	if w.Title != "Leg Day" {
		t.Errorf("Title = %s, want Leg Day", w.Title)
	}
	if w.ID != 0 {
		t.Errorf("expected ID to be unassigned, got %d", w.ID)
	}
	if w.Kind() != KindPlain {
		t.Errorf("Kind = %s, want plain", w.Kind())
	}
}

func TestWorkoutWithDescription(t *testing.T) {
	w := NewWorkout("Leg Day").WithDescription("squats and lunges")

	if w.Description == nil || *w.Description != "squats and lunges" {
		t.Error("expected Description to be set")
	}
}

func TestWorkoutKind(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		workout *Workout
		want    WorkoutKind
	}{
		{"plain", NewWorkout("a"), KindPlain},
		{"template", NewWorkout("a").AsTemplate(), KindTemplate},
		{"log", NewWorkout("a").AsLog(now), KindLog},
		{"both", NewWorkout("a").AsTemplate().AsLog(now), KindBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.workout.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWorkoutValidate(t *testing.T) {
	if err := NewWorkout("Push").Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := NewWorkout("   ").Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "title" {
		t.Errorf("Field = %s, want title", verr.Field)
	}
}

func TestWorkoutLogInProgress(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewWorkoutLog(start).WithNote("felt strong")

	if !l.InProgress() {
		t.Error("expected new log to be in progress")
	}
	if got := l.Duration(start.Add(10 * time.Minute)); got != 10*time.Minute {
		t.Errorf("Duration = %v, want 10m", got)
	}

	end := start.Add(45 * time.Minute)
	l.CompletedAt = &end
	if l.InProgress() {
		t.Error("expected completed log not to be in progress")
	}
	if got := l.Duration(time.Now()); got != 45*time.Minute {
		t.Errorf("Duration = %v, want 45m", got)
	}
}

func TestWorkoutLogValidate(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)

	tests := []struct {
		name    string
		log     *WorkoutLog
		wantErr bool
	}{
		{"valid", NewWorkoutLog(start), false},
		{"missing start", &WorkoutLog{}, true},
		{"completed before start", &WorkoutLog{StartedAt: start, CompletedAt: &before}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.log.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
