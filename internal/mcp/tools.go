// ABOUTME: MCP tool implementations for workouts.
// ABOUTME: Exposes workout, exercise, set and session operations to MCP clients.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/workouts/internal/models"
	"github.com/harperreed/workouts/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create a workout, optionally as a template or as a session started now",
	}, s.handleCreateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts, optionally filtered to templates, logs or in-progress sessions",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with its exercises, sets and set logs",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout together with its exercises, sets, set logs, template and log",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_exercise",
		Description: "Create a reusable exercise definition",
	}, s.handleCreateExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercise definitions by title",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "attach_exercise",
		Description: "Append an exercise to the end of a workout",
	}, s.handleAttachExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Append a planned set (warmup or work) to a workout exercise",
	}, s.handleAddSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_set",
		Description: "Record what was actually done for a planned set",
	}, s.handleRecordSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_from_template",
		Description: "Start a new session by copying a template workout",
	}, s.handleStartFromTemplate)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Mark an in-progress session as completed",
	}, s.handleCompleteWorkout)
}

// Tool input/output types

type createWorkoutInput struct {
	Title       string `json:"title" jsonschema:"workout title"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
	Template    bool   `json:"template,omitempty" jsonschema:"create as a reusable template"`
	Start       bool   `json:"start,omitempty" jsonschema:"create as a session started now"`
}

type workoutOutput struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type listWorkoutsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"one of template, log, in-progress; empty lists all"`
	Limit  int    `json:"limit,omitempty" jsonschema:"max results, default 20"`
}

// Sent as untyped output; time fields have no inferred schema.
type listWorkoutsOutput struct {
	Workouts []*models.Workout `json:"workouts"`
	Count    int               `json:"count"`
}

type idInput struct {
	ID int64 `json:"id" jsonschema:"workout ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type createExerciseInput struct {
	Title       string `json:"title" jsonschema:"exercise title"`
	Description string `json:"description,omitempty" jsonschema:"optional description"`
}

type listExercisesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"max results, default 20"`
}

type listExercisesOutput struct {
	Exercises []*models.Exercise `json:"exercises"`
	Count     int                `json:"count"`
}

type attachExerciseInput struct {
	WorkoutID  int64 `json:"workout_id" jsonschema:"workout to append to"`
	ExerciseID int64 `json:"exercise_id" jsonschema:"exercise to append"`
}

type attachExerciseOutput struct {
	WorkoutExerciseID int64   `json:"workout_exercise_id"`
	SortOrder         float64 `json:"sort_order"`
	Message           string  `json:"message"`
}

type addSetInput struct {
	WorkoutExerciseID int64  `json:"workout_exercise_id" jsonschema:"workout exercise to append the set to"`
	Type              string `json:"type" jsonschema:"warmup or work"`
	PauseSeconds      int    `json:"pause_seconds,omitempty" jsonschema:"rest after the set in seconds"`
	Description       string `json:"description,omitempty" jsonschema:"optional target, e.g. 5x100kg"`
}

type setOutput struct {
	SetID     int64   `json:"set_id"`
	SortOrder float64 `json:"sort_order"`
	Message   string  `json:"message"`
}

type recordSetInput struct {
	SetID       int64    `json:"set_id" jsonschema:"planned set to record"`
	Weight      *float64 `json:"weight,omitempty" jsonschema:"weight lifted"`
	Repetitions *int     `json:"repetitions,omitempty" jsonschema:"repetitions performed"`
	Note        string   `json:"note,omitempty" jsonschema:"optional note"`
	CompletedAt string   `json:"completed_at,omitempty" jsonschema:"timestamp (RFC 3339), defaults to now"`
}

type recordSetOutput struct {
	SetLogID int64  `json:"set_log_id"`
	Message  string `json:"message"`
}

type startFromTemplateInput struct {
	TemplateWorkoutID int64  `json:"template_workout_id" jsonschema:"template workout to copy"`
	StartedAt         string `json:"started_at,omitempty" jsonschema:"timestamp (RFC 3339), defaults to now"`
}

type completeWorkoutInput struct {
	WorkoutID   int64  `json:"workout_id" jsonschema:"session workout ID"`
	CompletedAt string `json:"completed_at,omitempty" jsonschema:"timestamp (RFC 3339), defaults to now"`
}

// Tool handlers

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input createWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w := models.NewWorkout(input.Title)
	if input.Description != "" {
		w.WithDescription(input.Description)
	}
	if input.Template {
		w.AsTemplate()
	}
	if input.Start {
		w.AsLog(time.Now())
	}

	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}

	return nil, workoutOutput{
		ID:      w.ID,
		Kind:    string(w.Kind()),
		Message: fmt.Sprintf("Created %s workout %q (ID: %d)", w.Kind(), w.Title, w.ID),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultLimit
	}

	filter, err := parseFilter(input.Filter)
	if err != nil {
		return nil, nil, err
	}

	workouts, err := s.repo.ListWorkouts(ctx, filter, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	return nil, listWorkoutsOutput{Workouts: workouts, Count: len(workouts)}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, any, error) {
	w, err := s.repo.GetWorkoutTree(ctx, input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %d: %w", input.ID, err)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteWorkoutTree(ctx, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %d", input.ID),
	}, nil
}

func (s *Server) handleCreateExercise(ctx context.Context, req *mcp.CallToolRequest, input createExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	e := models.NewExercise(input.Title)
	if input.Description != "" {
		e.WithDescription(input.Description)
	}

	if err := s.repo.CreateExercise(ctx, e); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to create exercise: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Created exercise %q (ID: %d)", e.Title, e.ID),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, listExercisesOutput, error) {
	if input.Limit <= 0 {
		input.Limit = defaultLimit
	}

	exercises, err := s.repo.ListExercises(ctx, input.Limit)
	if err != nil {
		return nil, listExercisesOutput{}, fmt.Errorf("failed to list exercises: %w", err)
	}

	return nil, listExercisesOutput{Exercises: exercises, Count: len(exercises)}, nil
}

func (s *Server) handleAttachExercise(ctx context.Context, req *mcp.CallToolRequest, input attachExerciseInput) (*mcp.CallToolResult, attachExerciseOutput, error) {
	we, err := s.repo.AppendExercise(ctx, input.WorkoutID, input.ExerciseID)
	if err != nil {
		return nil, attachExerciseOutput{}, fmt.Errorf("failed to attach exercise: %w", err)
	}

	return nil, attachExerciseOutput{
		WorkoutExerciseID: we.ID,
		SortOrder:         we.SortOrder,
		Message:           fmt.Sprintf("Attached exercise %d to workout %d", input.ExerciseID, input.WorkoutID),
	}, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, setOutput, error) {
	setType, err := models.ParseSetType(input.Type)
	if err != nil {
		return nil, setOutput{}, fmt.Errorf("%w: %v (want %s)", storage.ErrInvalidEnumValue, err, joinSetTypes())
	}

	set := models.NewSet(input.WorkoutExerciseID, 0, setType, input.PauseSeconds)
	if input.Description != "" {
		set.WithDescription(input.Description)
	}

	if err := s.repo.AppendSet(ctx, set); err != nil {
		return nil, setOutput{}, fmt.Errorf("failed to add set: %w", err)
	}

	return nil, setOutput{
		SetID:     set.ID,
		SortOrder: set.SortOrder,
		Message:   fmt.Sprintf("Added %s set (ID: %d)", set.Type, set.ID),
	}, nil
}

func (s *Server) handleRecordSet(ctx context.Context, req *mcp.CallToolRequest, input recordSetInput) (*mcp.CallToolResult, recordSetOutput, error) {
	completedAt, err := parseTimeOrNow(input.CompletedAt)
	if err != nil {
		return nil, recordSetOutput{}, err
	}

	l := models.NewSetLog().WithCompletedAt(completedAt)
	l.Weight = input.Weight
	l.Repetitions = input.Repetitions
	if input.Note != "" {
		l.WithNote(input.Note)
	}

	if err := s.repo.RecordSetLog(ctx, input.SetID, l); err != nil {
		return nil, recordSetOutput{}, fmt.Errorf("failed to record set: %w", err)
	}

	return nil, recordSetOutput{
		SetLogID: l.ID,
		Message:  fmt.Sprintf("Recorded set %d (log ID: %d)", input.SetID, l.ID),
	}, nil
}

func (s *Server) handleStartFromTemplate(ctx context.Context, req *mcp.CallToolRequest, input startFromTemplateInput) (*mcp.CallToolResult, any, error) {
	startedAt, err := parseTimeOrNow(input.StartedAt)
	if err != nil {
		return nil, nil, err
	}

	w, err := s.repo.StartFromTemplate(ctx, input.TemplateWorkoutID, startedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start workout: %w", err)
	}
	return nil, w, nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input completeWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	completedAt, err := parseTimeOrNow(input.CompletedAt)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	w, err := s.repo.GetWorkout(ctx, input.WorkoutID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("workout not found: %d: %w", input.WorkoutID, err)
	}
	if w.Log == nil {
		return nil, simpleOutput{}, fmt.Errorf("workout %d is not a session", input.WorkoutID)
	}

	if err := s.repo.CompleteWorkoutLog(ctx, w.Log.ID, completedAt); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to complete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Completed %q after %s", w.Title, completedAt.Sub(w.Log.StartedAt).Round(time.Minute)),
	}, nil
}

func parseFilter(s string) (storage.WorkoutFilter, error) {
	switch f := storage.WorkoutFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case storage.FilterAll, storage.FilterTemplates, storage.FilterLogs, storage.FilterInProgress:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want template, log or in-progress)", s)
	}
}

func parseTimeOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func joinSetTypes() string {
	types := models.AllSetTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
