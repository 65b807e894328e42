package store

import (
	"errors"

	"orbis/models"
)

// Sentinel errors shared by all backends.
var (
	// ErrTaskNotFound is returned when a task lookup by ID finds nothing.
	ErrTaskNotFound = errors.New("task not found")
	// ErrHabitNotFound is returned when a habit lookup by ID finds nothing.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrHabitAlreadyLogged is returned by LogHabit when a log entry for
	// the same habit and date already exists.
	ErrHabitAlreadyLogged = errors.New("habit already logged for date")
)

// Fuzzy lookup limits, mirroring the query limits of the hosted backend
// the store replaced.
const (
	taskMatchLimit  = 5
	habitMatchLimit = 3
)

// Store defines the persistence contract for all Orbis collections.
// Fuzzy Find* operations match by accent-folded, case-insensitive
// substring and return candidates ordered by CreatedAt ascending, so the
// earliest-created record is always the first match.
type Store interface {
	// Initialize configures the store with backend-specific settings
	// (file path, data format, database path). It must be called before
	// any other operation.
	Initialize(config map[string]string) error

	// Tasks.
	CreateTask(task models.Task) (models.Task, error)
	ListPendingTasks() ([]models.Task, error)
	FindTasksByTitle(term string) ([]models.Task, error)
	CompleteTask(id string) (models.Task, error)

	// Habits and their daily logs.
	CreateHabit(habit models.Habit) (models.Habit, error)
	ListHabits() ([]models.Habit, error)
	ListHabitStatuses(today string) ([]models.HabitStatus, error)
	FindHabitsByTitle(term string) ([]models.Habit, error)
	IsHabitLogged(habitID, date string) (bool, error)
	LogHabit(habitID, date string) (models.HabitLog, error)

	// Finances.
	CreateFinance(entry models.Finance) (models.Finance, error)
	ListFinancesSince(date string) ([]models.Finance, error)

	// Reminders and projects.
	CreateReminder(reminder models.Reminder) (models.Reminder, error)
	ListReminders() ([]models.Reminder, error)
	CreateProject(project models.Project) (models.Project, error)
	ListActiveProjects() ([]models.Project, error)

	// Backup copies the current data to the destination path.
	Backup(destinationPath string) error

	// Close releases file locks or database connections.
	Close() error
}
