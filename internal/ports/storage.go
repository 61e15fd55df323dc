// Package ports defines the interfaces between the application core and
// its collaborators (persistence, clock, callers).
package ports

import (
	"context"
	"time"

	"github.com/taskrhq/taskr/internal/domain"
)

type TaskRepository interface {
	// Save persists a new task and assigns its id.
	Save(ctx context.Context, task *domain.Task) error

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindActive retrieves the user's currently running task, or nil if
	// no task is active.
	FindActive(ctx context.Context, userID string) (*domain.Task, error)

	// FindUpcoming returns the user's idle, unfinished tasks ordered by
	// last stop time.
	FindUpcoming(ctx context.Context, userID string) ([]*domain.Task, error)

	// FindFinishedUnarchived returns the user's finished tasks that have
	// not been archived yet.
	FindFinishedUnarchived(ctx context.Context, userID string) ([]*domain.Task, error)

	// FindArchived returns the user's archived tasks, optionally limited
	// to those last stopped within [from, to).
	FindArchived(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Task, error)

	// CountOpenInProject counts the project's unfinished tasks, excluding
	// the given task id.
	CountOpenInProject(ctx context.Context, projectID, excludeTaskID string) (int, error)

	// SumDurations returns the total accumulated duration of all tasks in
	// the project.
	SumDurations(ctx context.Context, projectID string) (time.Duration, error)

	// Search fuzzy-matches the query against the titles of the user's
	// unarchived tasks, best matches first.
	Search(ctx context.Context, userID, query string) ([]*domain.Task, error)
}

type ProjectRepository interface {
	// Save persists a new project and assigns its id.
	Save(ctx context.Context, project *domain.Project) error

	// Update modifies an existing project.
	Update(ctx context.Context, project *domain.Project) error

	// FindByID retrieves a project by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Project, error)

	// FindUnfinished returns the user's open projects.
	FindUnfinished(ctx context.Context, userID string) ([]*domain.Project, error)

	// FindUnfinishedByTitle looks up an open project of the user by exact
	// title.
	FindUnfinishedByTitle(ctx context.Context, userID, title string) (*domain.Project, error)

	// CountTasks counts all tasks referencing the project, regardless of
	// state.
	CountTasks(ctx context.Context, projectID string) (int, error)
}

type UserRepository interface {
	// Save persists a new user and assigns their id.
	Save(ctx context.Context, user *domain.User) error

	// Update modifies an existing user.
	Update(ctx context.Context, user *domain.User) error

	// FindByID retrieves a user by their unique identifier.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByUsername retrieves a user by username.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindAll returns every registered user.
	FindAll(ctx context.Context) ([]*domain.User, error)
}

type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Projects provides access to project operations.
	Projects() ProjectRepository

	// Users provides access to user operations.
	Users() UserRepository

	// WithinTransaction runs fn atomically: repository calls made with
	// the context passed to fn join one transaction, committed when fn
	// returns nil and rolled back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage connection.
	Close() error
}
