// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
	"github.com/taskrhq/taskr/internal/quickadd"
)

// TaskService coordinates task lifecycle operations for a user. It
// enforces the cross-entity rules a single task cannot see: at most one
// active task per user, ownership of the task being operated on, and the
// project finish cascade. Every read-check-write sequence runs inside one
// storage transaction.
type TaskService struct {
	storage  ports.Storage
	projects *ProjectService
	clock    ports.Clock
	log      *log.Logger
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{
		storage: storage,
		clock:   systemClock{},
		log:     log.Default(),
	}
}

// SetProjects wires in the project service used for quick-add project
// resolution.
func (s *TaskService) SetProjects(projects *ProjectService) {
	s.projects = projects
}

// SetClock replaces the wall clock, for tests.
func (s *TaskService) SetClock(clock ports.Clock) {
	s.clock = clock
}

// SetLogger replaces the default logger.
func (s *TaskService) SetLogger(logger *log.Logger) {
	s.log = logger
}

// AddTask parses a raw quick-add entry and persists the resulting task.
// The entry's #project token resolves to one of the user's open projects,
// creating it (subject to the project-creation policy) when missing; an
// entry without a token attaches the task to the user's active project,
// if any.
func (s *TaskService) AddTask(ctx context.Context, userID, raw string) (*domain.Task, error) {
	var task *domain.Task
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.storage.Users().FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", userID, err)
		}

		now := s.clock.Now()
		parsed := quickadd.Parse(raw, user.TZOffset, now)

		task, err = domain.NewTask(userID, parsed.Title, now)
		if err != nil {
			return err
		}
		task.Scrap = parsed.Scrap
		if err := task.SetLiveline(parsed.Liveline); err != nil {
			return err
		}
		if err := task.SetDeadline(parsed.Deadline); err != nil {
			return err
		}

		projectID, err := s.resolveProject(ctx, user, parsed.Project, now)
		if err != nil {
			return err
		}
		task.ProjectID = projectID

		if err := s.storage.Tasks().Save(ctx, task); err != nil {
			return fmt.Errorf("failed to save task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// resolveProject maps a parsed #project token to a project id. A nil
// token falls back to the project of the user's active task; a bare "#"
// leaves the task outside any project.
func (s *TaskService) resolveProject(ctx context.Context, user *domain.User, name *string, now time.Time) (string, error) {
	if name == nil {
		active, err := s.storage.Tasks().FindActive(ctx, user.ID)
		if err != nil {
			return "", fmt.Errorf("failed to load active task: %w", err)
		}
		if active != nil {
			return active.ProjectID, nil
		}
		return "", nil
	}
	if *name == "" {
		return "", nil
	}

	project, err := s.projects.lookupOrCreate(ctx, user, *name, now)
	if err != nil {
		return "", err
	}
	return project.ID, nil
}

// StartTask starts the given task for the user, stopping whatever task
// the user had running first so that at most one task is ever active.
// Starting a task owned by another user fails with domain.ErrNotOwner.
func (s *TaskService) StartTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	var task *domain.Task
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.loadOwned(ctx, userID, taskID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		active, err := s.storage.Tasks().FindActive(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load active task: %w", err)
		}
		if active != nil && active.ID != taskID {
			s.stop(active, now)
			if err := s.storage.Tasks().Update(ctx, active); err != nil {
				return fmt.Errorf("failed to stop task %s: %w", active.ID, err)
			}
		}

		if err := task.Start(now); err != nil {
			return fmt.Errorf("cannot start task %s: %w", taskID, err)
		}
		return s.storage.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// StopTask stops the given task. Stopping an idle task is a no-op,
// reported through the returned flag rather than an error.
func (s *TaskService) StopTask(ctx context.Context, userID, taskID string) (*domain.Task, bool, error) {
	var task *domain.Task
	var stopped bool
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.loadOwned(ctx, userID, taskID)
		if err != nil {
			return err
		}

		stopped = s.stop(task, s.clock.Now())
		if !stopped {
			return nil
		}
		return s.storage.Tasks().Update(ctx, task)
	})
	if err != nil {
		return nil, false, err
	}
	return task, stopped, nil
}

// FinishTask stops the task if it is running and marks it finished. When
// the task was the last open task of its project, the project is finished
// as well, stamped with the task's stop time; the second return value
// reports that cascade.
func (s *TaskService) FinishTask(ctx context.Context, userID, taskID string) (*domain.Task, bool, error) {
	var task *domain.Task
	var projectFinished bool
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		task, err = s.loadOwned(ctx, userID, taskID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		s.warnOnSkew(task, now)
		task.Finish(now)
		if err := s.storage.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to finish task %s: %w", taskID, err)
		}

		if task.ProjectID == "" {
			return nil
		}
		projectFinished, err = s.cascadeFinish(ctx, task)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return task, projectFinished, nil
}

// cascadeFinish finishes the task's project when no open tasks remain.
// The finishing task is already counted as finished at this point, so it
// is excluded from the open count.
func (s *TaskService) cascadeFinish(ctx context.Context, task *domain.Task) (bool, error) {
	total, err := s.storage.Projects().CountTasks(ctx, task.ProjectID)
	if err != nil {
		return false, fmt.Errorf("failed to count tasks of project %s: %w", task.ProjectID, err)
	}
	if total == 0 {
		return false, fmt.Errorf("finishing task %s in project %s: %w",
			task.ID, task.ProjectID, domain.ErrProjectHasNoTasks)
	}

	open, err := s.storage.Tasks().CountOpenInProject(ctx, task.ProjectID, task.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count open tasks of project %s: %w", task.ProjectID, err)
	}
	if open > 0 {
		return false, nil
	}

	project, err := s.storage.Projects().FindByID(ctx, task.ProjectID)
	if err != nil {
		return false, fmt.Errorf("failed to load project %s: %w", task.ProjectID, err)
	}
	project.Finish(task.LastStopped)
	if err := s.storage.Projects().Update(ctx, project); err != nil {
		return false, fmt.Errorf("failed to finish project %s: %w", project.ID, err)
	}
	return true, nil
}

// ArchiveTask archives a finished task.
func (s *TaskService) ArchiveTask(ctx context.Context, userID, taskID string) error {
	return s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.loadOwned(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := task.Archive(); err != nil {
			return fmt.Errorf("cannot archive task %s: %w", taskID, err)
		}
		return s.storage.Tasks().Update(ctx, task)
	})
}

// ArchiveFinishedTasks archives every finished, not-yet-archived task of
// the user in one transaction; either all are archived or none.
func (s *TaskService) ArchiveFinishedTasks(ctx context.Context, userID string) (int, error) {
	var archived int
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		tasks, err := s.storage.Tasks().FindFinishedUnarchived(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load finished tasks: %w", err)
		}
		for _, task := range tasks {
			if err := task.Archive(); err != nil {
				return fmt.Errorf("cannot archive task %s: %w", task.ID, err)
			}
			if err := s.storage.Tasks().Update(ctx, task); err != nil {
				return fmt.Errorf("failed to archive task %s: %w", task.ID, err)
			}
			archived++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return archived, nil
}

// ActiveTask returns the user's single running task, or nil.
func (s *TaskService) ActiveTask(ctx context.Context, userID string) (*domain.Task, error) {
	return s.storage.Tasks().FindActive(ctx, userID)
}

// GetTask retrieves a single task, checking ownership.
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.loadOwned(ctx, userID, taskID)
}

// EditScrap replaces a task's note body.
func (s *TaskService) EditScrap(ctx context.Context, userID, taskID, scrap string) error {
	return s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.loadOwned(ctx, userID, taskID)
		if err != nil {
			return err
		}
		task.Scrap = scrap
		return s.storage.Tasks().Update(ctx, task)
	})
}

// ListUpcoming returns the user's idle, unfinished tasks.
func (s *TaskService) ListUpcoming(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.storage.Tasks().FindUpcoming(ctx, userID)
}

// ListFinished returns the user's finished, unarchived tasks.
func (s *TaskService) ListFinished(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.storage.Tasks().FindFinishedUnarchived(ctx, userID)
}

// ListArchived returns the user's archived tasks within the window.
func (s *TaskService) ListArchived(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Task, error) {
	return s.storage.Tasks().FindArchived(ctx, userID, from, to)
}

// SearchTasks fuzzy-matches the query against the user's task titles.
func (s *TaskService) SearchTasks(ctx context.Context, userID, query string) ([]*domain.Task, error) {
	return s.storage.Tasks().Search(ctx, userID, query)
}

// loadOwned fetches a task and verifies it belongs to the user. A
// mismatch is an authorization failure, never silently ignored.
func (s *TaskService) loadOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	if task.UserID != userID {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotOwner)
	}
	return task, nil
}

// stop stops a running task, logging a warning when the clock reads
// earlier than the task's start time. The accumulator clamps the interval
// to zero in that case, so the anomaly is never fatal.
func (s *TaskService) stop(task *domain.Task, now time.Time) bool {
	s.warnOnSkew(task, now)
	return task.Stop(now)
}

func (s *TaskService) warnOnSkew(task *domain.Task, now time.Time) {
	if task.IsActive() && now.Before(task.LastStarted) {
		s.log.Warn("clock skew: stop time before start time, clamping interval to zero",
			"task", task.ID, "started", task.LastStarted, "now", now)
	}
}
