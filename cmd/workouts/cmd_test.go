// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temp SQLite database selected via WORKOUTS_* variables.
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/workouts/internal/config"
	"github.com/harperreed/workouts/internal/models"
	"github.com/harperreed/workouts/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date and time with space", "2025-01-31 08:30", false},
		{"date and time with T", "2025-01-31T08:30", false},
		{"date only", "2025-01-31", false},
		{"RFC3339", "2025-01-31T08:30:00Z", false},
		{"RFC3339 with offset", "2025-01-31T08:30:00+05:00", false},
		{"invalid format", "31-01-2025", true},
		{"invalid random string", "not a date", true},
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseTimeValues(t *testing.T) {
	result, err := parseTime("2025-06-15 07:45")
	if err != nil {
		t.Fatalf("parseTime failed: %v", err)
	}

	if result.Year() != 2025 || result.Month() != time.June || result.Day() != 15 || result.Hour() != 7 {
		t.Errorf("parseTime returned wrong time: got %v", result)
	}
	if result.Location() != time.Local {
		t.Errorf("Expected local time, got %v", result.Location())
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.input, "workout")
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is long", 10, "hello w..."},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 6, "abcdef"},
		{"abcdefgh", 6, "abcdefgh"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestDescribeSetLog(t *testing.T) {
	tests := []struct {
		name string
		log  *models.WorkoutExerciseSetLog
		want string
	}{
		{"empty", models.NewSetLog(), "done"},
		{"weight and reps", models.NewSetLog().WithWeight(102.5).WithRepetitions(5), "102.5kg x 5"},
		{"reps and note", models.NewSetLog().WithRepetitions(8).WithNote("easy"), "x 8 (easy)"},
	}
	for _, tt := range tests {
		if got := describeSetLog(tt.log); got != tt.want {
			t.Errorf("%s: describeSetLog() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://me:secret@db:5432/workouts", "postgres://me:****@db:5432/workouts"},
		{"postgresql://me@db/workouts", "postgresql://me:****@db/workouts"},
		{"postgres://db/workouts", "postgres://db/workouts"},
		{"/tmp/workouts.db", "/tmp/workouts.db"},
	}
	for _, tt := range tests {
		if got := redact(tt.in); got != tt.want {
			t.Errorf("redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "workouts" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "workouts")
	}
	if rootCmd.Short == "" || rootCmd.Long == "" {
		t.Error("Expected rootCmd descriptions to be non-empty")
	}
	if rootCmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("Expected --log-level persistent flag")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	tests := []struct {
		parent *cobra.Command
		want   []string
	}{
		{rootCmd, []string{"workout", "exercise", "plan", "set", "export", "import", "migrate", "backup", "mcp", "version", "install-skill"}},
		{workoutCmd, []string{"add", "list", "show", "edit", "delete", "template", "start", "complete"}},
		{exerciseCmd, []string{"add", "list", "show", "edit", "delete"}},
		{planCmd, []string{"add-exercise", "move-exercise", "remove-exercise", "add-set", "move-set", "remove-set"}},
		{setCmd, []string{"log", "unlink", "show"}},
		{backupCmd, []string{"push", "list", "restore", "delete"}},
	}

	for _, tt := range tests {
		names := make(map[string]bool)
		for _, cmd := range tt.parent.Commands() {
			names[cmd.Name()] = true
		}
		for _, want := range tt.want {
			if !names[want] {
				t.Errorf("Expected %q to have subcommand %q", tt.parent.Name(), want)
			}
		}
	}
}

func TestCommandAliases(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		alias string
	}{
		{workoutCmd, "w"},
		{exerciseCmd, "ex"},
		{planCmd, "p"},
		{workoutListCmd, "ls"},
		{workoutDeleteCmd, "rm"},
		{backupListCmd, "ls"},
	}
	for _, tt := range tests {
		found := false
		for _, a := range tt.cmd.Aliases {
			if a == tt.alias {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %q to have alias %q", tt.cmd.Name(), tt.alias)
		}
	}
}

func TestWorkoutListCmdFlags(t *testing.T) {
	limitFlag := workoutListCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on workout list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
	if workoutListCmd.Flags().Lookup("filter") == nil {
		t.Error("Expected --filter flag on workout list command")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	for _, arg := range exportCmd.ValidArgs {
		delete(want, arg)
	}
	if len(want) != 0 {
		t.Errorf("Missing export formats: %v", want)
	}
}

// resetFlags restores every flag under cmd to its default, since cobra
// keeps flag state between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupTestCLI points the CLI at a temp SQLite database and returns a
// second handle on it for seeding and verification.
func setupTestCLI(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv(config.EnvBackend, "sqlite")
	t.Setenv(config.EnvDataDir, tmpDir)
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvLogLevel, "")

	testDB, err := storage.Open(filepath.Join(tmpDir, "workouts.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	resetFlags(rootCmd)
	t.Cleanup(func() {
		if repo != nil {
			repo.Close()
			repo = nil
		}
		testDB.Close()
	})

	return testDB
}

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

// seedTemplate creates exercise 1, template workout 1, placement 1 and
// sets 1 (warmup) and 2 (work).
func seedTemplate(t *testing.T) {
	t.Helper()
	mustRun(t, "exercise", "add", "Squat")
	mustRun(t, "workout", "add", "Leg Day", "--template", "-d", "heavy lower body")
	mustRun(t, "plan", "add-exercise", "1", "1")
	mustRun(t, "plan", "add-set", "1", "warmup", "--pause", "60")
	mustRun(t, "plan", "add-set", "1", "work", "--pause", "120", "-d", "5x5")
}

func TestVersionCmd(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "version")
	if !strings.Contains(out, "workouts dev") {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestWorkoutPlanAndShow(t *testing.T) {
	testDB := setupTestCLI(t)
	seedTemplate(t)

	w, err := testDB.GetWorkoutTree(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkoutTree failed: %v", err)
	}
	if w.Template == nil {
		t.Error("Expected workout to be a template")
	}
	if len(w.Exercises) != 1 || len(w.Exercises[0].Sets) != 2 {
		t.Fatalf("Expected 1 exercise with 2 sets, got %+v", w.Exercises)
	}
	if w.Exercises[0].Sets[0].Type != models.SetTypeWarmup || w.Exercises[0].Sets[1].PauseSeconds != 120 {
		t.Errorf("Unexpected sets: %+v", w.Exercises[0].Sets)
	}

	out := mustRun(t, "workout", "show", "1")
	for _, want := range []string{"Leg Day", "[template]", "heavy lower body", "Squat", "warmup", "pause 120s", "5x5"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestWorkoutAddBlankTitle(t *testing.T) {
	setupTestCLI(t)

	_, err := run(t, "workout", "add", "  ")
	if !errors.Is(err, storage.ErrConstraintViolation) {
		t.Errorf("Expected constraint violation, got %v", err)
	}
}

func TestWorkoutShowNotFound(t *testing.T) {
	setupTestCLI(t)

	_, err := run(t, "workout", "show", "99")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}

	if _, err := run(t, "workout", "show", "abc"); err == nil {
		t.Error("Expected error for non-numeric ID")
	}
}

func TestWorkoutSessionLifecycle(t *testing.T) {
	testDB := setupTestCLI(t)
	ctx := context.Background()
	seedTemplate(t)

	out := mustRun(t, "workout", "start", "1", "--at", "2025-03-01 18:00")
	if !strings.Contains(out, "ID: 2") {
		t.Fatalf("Expected session ID 2, got:\n%s", out)
	}

	// The session's cloned sets are 3 (warmup) and 4 (work).
	mustRun(t, "set", "log", "4", "--weight", "100", "--reps", "5", "--note", "solid")
	s, err := testDB.GetSet(ctx, 4)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if s.Log == nil || *s.Log.Weight != 100 || *s.Log.Repetitions != 5 {
		t.Fatalf("Expected set 4 logged with 100 x 5, got %+v", s.Log)
	}

	if _, err := run(t, "set", "log", "4", "--reps", "3"); !errors.Is(err, storage.ErrConstraintViolation) {
		t.Errorf("Expected constraint violation logging a set twice, got %v", err)
	}

	out = mustRun(t, "workout", "list", "--filter", "in-progress")
	if !strings.Contains(out, "Leg Day") || !strings.Contains(out, "in progress") {
		t.Errorf("Expected session in progress:\n%s", out)
	}

	out = mustRun(t, "workout", "complete", "2", "--at", "2025-03-01 19:00", "--note", "good session")
	if !strings.Contains(out, "Duration: 1h0m0s") {
		t.Errorf("Expected one hour duration, got:\n%s", out)
	}

	w, err := testDB.GetWorkout(ctx, 2)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.Log.InProgress() || w.Log.Note == nil || *w.Log.Note != "good session" {
		t.Errorf("Expected completed log with note, got %+v", w.Log)
	}

	if _, err := run(t, "workout", "complete", "2"); !errors.Is(err, storage.ErrAlreadyCompleted) {
		t.Errorf("Expected already completed, got %v", err)
	}
	if _, err := run(t, "workout", "complete", "1"); err == nil || !strings.Contains(err.Error(), "not a session") {
		t.Errorf("Expected not-a-session error, got %v", err)
	}
	if _, err := run(t, "workout", "start", "2"); !errors.Is(err, storage.ErrNotTemplate) {
		t.Errorf("Expected not-template error, got %v", err)
	}
}

func TestWorkoutListEmpty(t *testing.T) {
	setupTestCLI(t)

	out := mustRun(t, "workout", "list")
	if !strings.Contains(out, "No workouts found.") {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, err := run(t, "workout", "list", "--filter", "bogus"); err == nil {
		t.Error("Expected error for unknown filter")
	}
}

func TestWorkoutEdit(t *testing.T) {
	testDB := setupTestCLI(t)
	seedTemplate(t)

	mustRun(t, "workout", "edit", "1", "--title", "Leg Day B", "--description", "")
	w, err := testDB.GetWorkout(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.Title != "Leg Day B" || w.Description != nil {
		t.Errorf("Expected renamed workout without description, got %+v", w)
	}
}

func TestWorkoutDeleteRestrictAndCascade(t *testing.T) {
	testDB := setupTestCLI(t)
	seedTemplate(t)

	_, err := run(t, "workout", "delete", "1")
	if !errors.Is(err, storage.ErrReferentialIntegrity) {
		t.Fatalf("Expected referential integrity error, got %v", err)
	}

	out := mustRun(t, "workout", "delete", "1", "--cascade")
	if !strings.Contains(out, "Deleted workout #1") {
		t.Errorf("Unexpected output: %q", out)
	}
	if _, err := testDB.GetWorkout(context.Background(), 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected workout gone, got %v", err)
	}
	if _, err := testDB.GetExercise(context.Background(), 1); err != nil {
		t.Errorf("Expected exercise kept, got %v", err)
	}
}

func TestWorkoutTemplateToggle(t *testing.T) {
	testDB := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "workout", "add", "Push")
	mustRun(t, "workout", "template", "1")

	if _, err := run(t, "workout", "template", "1"); !errors.Is(err, storage.ErrConstraintViolation) {
		t.Errorf("Expected constraint violation for second template, got %v", err)
	}

	mustRun(t, "workout", "template", "1", "--remove")
	w, err := testDB.GetWorkout(ctx, 1)
	if err != nil {
		t.Fatalf("GetWorkout failed: %v", err)
	}
	if w.Template != nil {
		t.Error("Expected template removed")
	}

	if _, err := run(t, "workout", "template", "1", "--remove"); err == nil {
		t.Error("Expected error removing a missing template")
	}
}

func TestExerciseCommands(t *testing.T) {
	testDB := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "exercise", "add", "Bench Press", "-d", "flat")
	mustRun(t, "exercise", "add", "Deadlift")

	out := mustRun(t, "exercise", "list")
	if strings.Index(out, "Bench Press") > strings.Index(out, "Deadlift") {
		t.Errorf("Expected exercises by title:\n%s", out)
	}

	mustRun(t, "exercise", "edit", "2", "--title", "Romanian Deadlift")
	e, err := testDB.GetExercise(ctx, 2)
	if err != nil {
		t.Fatalf("GetExercise failed: %v", err)
	}
	if e.Title != "Romanian Deadlift" {
		t.Errorf("Title = %q, want Romanian Deadlift", e.Title)
	}

	out = mustRun(t, "exercise", "show", "1")
	if !strings.Contains(out, "Description: flat") {
		t.Errorf("Unexpected show output:\n%s", out)
	}

	mustRun(t, "workout", "add", "Push")
	mustRun(t, "plan", "add-exercise", "1", "1")
	if _, err := run(t, "exercise", "delete", "1"); !errors.Is(err, storage.ErrReferentialIntegrity) {
		t.Errorf("Expected referential integrity error deleting used exercise, got %v", err)
	}

	mustRun(t, "exercise", "delete", "2")
	if _, err := testDB.GetExercise(ctx, 2); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected exercise 2 deleted, got %v", err)
	}
}

func TestPlanMoveExercise(t *testing.T) {
	testDB := setupTestCLI(t)
	ctx := context.Background()

	mustRun(t, "exercise", "add", "Squat")
	mustRun(t, "exercise", "add", "Lunge")
	mustRun(t, "workout", "add", "Leg Day")
	mustRun(t, "plan", "add-exercise", "1", "1")
	mustRun(t, "plan", "add-exercise", "1", "2")

	if _, err := run(t, "plan", "move-exercise", "2"); err == nil {
		t.Error("Expected error without --after or --first")
	}
	if _, err := run(t, "plan", "move-exercise", "2", "--first", "--after", "1"); err == nil {
		t.Error("Expected error with both --after and --first")
	}

	out := mustRun(t, "plan", "move-exercise", "2", "--first")
	if !strings.Contains(out, "order 0") {
		t.Errorf("Unexpected output: %q", out)
	}

	placements, err := testDB.ListWorkoutExercises(ctx, 1)
	if err != nil {
		t.Fatalf("ListWorkoutExercises failed: %v", err)
	}
	if placements[0].ID != 2 || placements[1].ID != 1 {
		t.Errorf("Expected placement 2 first, got %d then %d", placements[0].ID, placements[1].ID)
	}

	mustRun(t, "plan", "move-exercise", "2", "--after", "1")
	placements, err = testDB.ListWorkoutExercises(ctx, 1)
	if err != nil {
		t.Fatalf("ListWorkoutExercises failed: %v", err)
	}
	if placements[0].ID != 1 {
		t.Errorf("Expected placement 1 first after move, got %d", placements[0].ID)
	}
}

func TestPlanExplicitOrderClash(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "exercise", "add", "Squat")
	mustRun(t, "workout", "add", "A")
	mustRun(t, "workout", "add", "B")
	mustRun(t, "plan", "add-exercise", "1", "1", "--order", "1.5")

	_, err := run(t, "plan", "add-exercise", "2", "1", "--order", "1.5")
	if !errors.Is(err, storage.ErrConstraintViolation) {
		t.Errorf("Expected constraint violation for shared sort order, got %v", err)
	}
}

func TestPlanAddSetInvalidType(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)

	_, err := run(t, "plan", "add-set", "1", "cooldown")
	if err == nil || !strings.Contains(err.Error(), "cooldown") {
		t.Errorf("Expected invalid set type error, got %v", err)
	}
}

func TestPlanRemove(t *testing.T) {
	testDB := setupTestCLI(t)
	seedTemplate(t)

	if _, err := run(t, "plan", "remove-exercise", "1"); !errors.Is(err, storage.ErrReferentialIntegrity) {
		t.Errorf("Expected referential integrity error with sets present, got %v", err)
	}

	mustRun(t, "plan", "move-set", "2", "--first")
	mustRun(t, "plan", "remove-set", "1")
	mustRun(t, "plan", "remove-set", "2")
	mustRun(t, "plan", "remove-exercise", "1")

	placements, err := testDB.ListWorkoutExercises(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListWorkoutExercises failed: %v", err)
	}
	if len(placements) != 0 {
		t.Errorf("Expected no placements, got %d", len(placements))
	}
}

func TestSetLinkUnlinkShow(t *testing.T) {
	testDB := setupTestCLI(t)
	ctx := context.Background()
	seedTemplate(t)

	out := mustRun(t, "set", "show", "2")
	if !strings.Contains(out, "Status: planned") || !strings.Contains(out, "Target: 5x5") {
		t.Errorf("Unexpected show output:\n%s", out)
	}

	mustRun(t, "set", "log", "2", "--reps", "5", "--at", "2025-03-01 18:30")
	out = mustRun(t, "set", "show", "2")
	if !strings.Contains(out, "Status: logged") || !strings.Contains(out, "x 5") {
		t.Errorf("Unexpected show output:\n%s", out)
	}

	s, err := testDB.GetSet(ctx, 2)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	logID := *s.WorkoutExerciseSetLogID

	// A log already linked to set 2 cannot also back set 1.
	_, err = run(t, "set", "log", "1", "--log-id", "1")
	if !errors.Is(err, storage.ErrConstraintViolation) {
		t.Errorf("Expected constraint violation linking a used log, got %v", err)
	}

	mustRun(t, "set", "unlink", "2")
	if _, err := testDB.GetSetLog(ctx, logID); err != nil {
		t.Errorf("Expected log kept after unlink, got %v", err)
	}

	mustRun(t, "set", "log", "1", "--log-id", "1")
	s, err = testDB.GetSet(ctx, 1)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if !s.Logged() || *s.WorkoutExerciseSetLogID != logID {
		t.Errorf("Expected set 1 linked to log %d, got %+v", logID, s)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)
	mustRun(t, "workout", "start", "1", "--at", "2025-03-01 18:00")
	mustRun(t, "set", "log", "4", "--weight", "100", "--reps", "5")

	file := filepath.Join(t.TempDir(), "backup.json")
	out := mustRun(t, "export", "json", "-o", file)
	if !strings.Contains(out, "Exported to") {
		t.Errorf("Unexpected output: %q", out)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("Expected export file: %v", err)
	}

	fresh := setupTestCLI(t)
	out = mustRun(t, "import", file)
	if !strings.Contains(out, "2 workouts, 1 exercises, 4 sets, 1 set logs") {
		t.Errorf("Unexpected import summary: %q", out)
	}

	s, err := fresh.GetSet(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetSet failed: %v", err)
	}
	if s.Log == nil || *s.Log.Weight != 100 {
		t.Errorf("Expected imported set log, got %+v", s.Log)
	}

	if _, err := run(t, "import", file); err == nil {
		t.Error("Expected error importing into a populated database")
	}
}

func TestExportYAMLImport(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)

	file := filepath.Join(t.TempDir(), "backup.yaml")
	mustRun(t, "export", "yaml", "--output", file)

	fresh := setupTestCLI(t)
	mustRun(t, "import", file)

	w, err := fresh.GetWorkoutTree(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkoutTree failed: %v", err)
	}
	if w.Title != "Leg Day" || len(w.Exercises) != 1 {
		t.Errorf("Unexpected imported workout: %+v", w)
	}
}

func TestExportStdout(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)

	out := mustRun(t, "export", "json")
	if !strings.Contains(out, `"version": "1.0"`) || !strings.Contains(out, `"title": "Leg Day"`) {
		t.Errorf("Unexpected JSON export:\n%s", out)
	}
}

func TestExportMarkdown(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)
	mustRun(t, "workout", "start", "1", "--at", "2025-03-01 18:00")

	out := mustRun(t, "export", "markdown", "--since", "2025-01-01")
	if !strings.Contains(out, "# Workout Export") || !strings.Contains(out, "Leg Day") {
		t.Errorf("Unexpected markdown export:\n%s", out)
	}

	if _, err := run(t, "export", "markdown", "--since", "01/01/2025"); err == nil {
		t.Error("Expected error for invalid --since date")
	}
	if _, err := run(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestImportErrors(t *testing.T) {
	setupTestCLI(t)

	if _, err := run(t, "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "import", bad); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestMigrateToSQLite(t *testing.T) {
	setupTestCLI(t)
	seedTemplate(t)

	target := filepath.Join(t.TempDir(), "copy.db")
	out := mustRun(t, "migrate", "--to", target)
	if !strings.Contains(out, "Sets:              2") {
		t.Errorf("Unexpected migrate summary:\n%s", out)
	}

	dst, err := storage.Open(target)
	if err != nil {
		t.Fatalf("Open target failed: %v", err)
	}
	defer dst.Close()

	w, err := dst.GetWorkoutTree(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetWorkoutTree on target failed: %v", err)
	}
	if w.Template == nil || len(w.Exercises[0].Sets) != 2 {
		t.Errorf("Unexpected migrated workout: %+v", w)
	}

	if _, err := run(t, "migrate", "--to", target); err == nil {
		t.Error("Expected error migrating into a populated target")
	}
}

func TestMigrateRequiresTarget(t *testing.T) {
	setupTestCLI(t)

	if _, err := run(t, "migrate"); err == nil || !strings.Contains(err.Error(), "--to") {
		t.Errorf("Expected --to error, got %v", err)
	}
}

func TestLogLevelFlag(t *testing.T) {
	setupTestCLI(t)

	if _, err := run(t, "--log-level", "chatty", "workout", "list"); err == nil {
		t.Error("Expected error for invalid log level")
	}
	mustRun(t, "--log-level", "debug", "workout", "list")
}

func TestInstallSkill(t *testing.T) {
	setupTestCLI(t)
	t.Setenv("HOME", t.TempDir())

	dest, err := skillPath()
	if err != nil {
		t.Fatalf("skillPath failed: %v", err)
	}

	out := mustRun(t, "install-skill")
	if !strings.Contains(out, "Installation canceled.") {
		t.Errorf("Expected cancel without confirmation, got:\n%s", out)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("Expected no skill file after cancel")
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("old content"), 0600); err != nil {
		t.Fatal(err)
	}

	out = mustRun(t, "install-skill", "--yes")
	if !strings.Contains(out, "already exists") {
		t.Errorf("Expected overwrite note, got:\n%s", out)
	}
	content, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Expected skill file: %v", err)
	}
	if !strings.Contains(string(content), "name: workouts") {
		t.Error("Expected embedded skill content")
	}
}
