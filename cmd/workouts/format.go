// ABOUTME: Parsing and formatting helpers shared by CLI commands.
// ABOUTME: Timestamps, numeric IDs, and padded column output.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/workouts/internal/models"
)

var faint = color.New(color.Faint)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// timeOrNow parses s, or returns the current time when s is empty.
func timeOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: %s", s)
	}
	return t, nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, s)
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatID(id int64) string {
	return faint.Sprintf("#%-4d", id)
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Minute).String()
}

// describeSetLog renders the recorded values of a set log, e.g. "100kg x 5".
func describeSetLog(l *models.WorkoutExerciseSetLog) string {
	var parts []string
	if l.Weight != nil {
		parts = append(parts, strconv.FormatFloat(*l.Weight, 'f', -1, 64)+"kg")
	}
	if l.Repetitions != nil {
		parts = append(parts, fmt.Sprintf("x %d", *l.Repetitions))
	}
	if l.Note != nil && *l.Note != "" {
		parts = append(parts, fmt.Sprintf("(%s)", truncate(*l.Note, 30)))
	}
	if len(parts) == 0 {
		return "done"
	}
	return strings.Join(parts, " ")
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓ "+format, args...))
}

func printDeleted(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, color.YellowString("✗ "+format, args...))
}
