// ABOUTME: Repository interface for workout data storage.
// ABOUTME: Defines the CRUD contract for the seven workout entities.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/workouts/internal/models"
)

// WorkoutFilter narrows ListWorkouts by role.
type WorkoutFilter string

const (
	FilterAll        WorkoutFilter = ""
	FilterTemplates  WorkoutFilter = "template"
	FilterLogs       WorkoutFilter = "log"
	FilterInProgress WorkoutFilter = "in-progress"
)

// Repository defines the storage interface for workout data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Workout operations
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	GetWorkoutTree(ctx context.Context, id int64) (*models.Workout, error)
	ListWorkouts(ctx context.Context, filter WorkoutFilter, limit int) ([]*models.Workout, error)
	UpdateWorkout(ctx context.Context, w *models.Workout) error
	DeleteWorkout(ctx context.Context, id int64) error
	DeleteWorkoutTree(ctx context.Context, id int64) error

	// Template and log operations
	CreateTemplate(ctx context.Context, workoutID int64) (*models.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
	CreateWorkoutLog(ctx context.Context, l *models.WorkoutLog) error
	GetWorkoutLog(ctx context.Context, id int64) (*models.WorkoutLog, error)
	UpdateWorkoutLog(ctx context.Context, l *models.WorkoutLog) error
	CompleteWorkoutLog(ctx context.Context, id int64, at time.Time) error
	DeleteWorkoutLog(ctx context.Context, id int64) error
	StartFromTemplate(ctx context.Context, templateWorkoutID int64, startedAt time.Time) (*models.Workout, error)

	// Exercise operations
	CreateExercise(ctx context.Context, e *models.Exercise) error
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListExercises(ctx context.Context, limit int) ([]*models.Exercise, error)
	UpdateExercise(ctx context.Context, e *models.Exercise) error
	DeleteExercise(ctx context.Context, id int64) error

	// Workout exercise operations
	AttachExercise(ctx context.Context, we *models.WorkoutExercise) error
	AppendExercise(ctx context.Context, workoutID, exerciseID int64) (*models.WorkoutExercise, error)
	GetWorkoutExercise(ctx context.Context, id int64) (*models.WorkoutExercise, error)
	ListWorkoutExercises(ctx context.Context, workoutID int64) ([]*models.WorkoutExercise, error)
	ReorderWorkoutExercise(ctx context.Context, id int64, sortOrder float64) error
	MoveWorkoutExercise(ctx context.Context, id int64, afterID *int64) (float64, error)
	DeleteWorkoutExercise(ctx context.Context, id int64) error

	// Set operations
	AddSet(ctx context.Context, s *models.WorkoutExerciseSet) error
	AppendSet(ctx context.Context, s *models.WorkoutExerciseSet) error
	GetSet(ctx context.Context, id int64) (*models.WorkoutExerciseSet, error)
	ListSets(ctx context.Context, workoutExerciseID int64) ([]*models.WorkoutExerciseSet, error)
	UpdateSet(ctx context.Context, s *models.WorkoutExerciseSet) error
	ReorderSet(ctx context.Context, id int64, sortOrder float64) error
	MoveSet(ctx context.Context, id int64, afterID *int64) (float64, error)
	DeleteSet(ctx context.Context, id int64) error

	// Set log operations
	RecordSetLog(ctx context.Context, setID int64, l *models.WorkoutExerciseSetLog) error
	CreateSetLog(ctx context.Context, l *models.WorkoutExerciseSetLog) error
	LinkSetLog(ctx context.Context, setID, logID int64) error
	UnlinkSetLog(ctx context.Context, setID int64) error
	GetSetLog(ctx context.Context, id int64) (*models.WorkoutExerciseSetLog, error)
	UpdateSetLog(ctx context.Context, l *models.WorkoutExerciseSetLog) error
	DeleteSetLog(ctx context.Context, id int64) error

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Close() error
}
