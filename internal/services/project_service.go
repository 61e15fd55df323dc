package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
)

// ProjectService handles project-related use cases: creation behind the
// Pro entitlement gate, and read aggregates over a project's tasks.
type ProjectService struct {
	storage ports.Storage
	clock   ports.Clock
}

// NewProjectService creates a new project service.
func NewProjectService(storage ports.Storage) *ProjectService {
	return &ProjectService{storage: storage, clock: systemClock{}}
}

// SetClock replaces the wall clock, for tests.
func (s *ProjectService) SetClock(clock ports.Clock) {
	s.clock = clock
}

// AddProject creates a new project for the user. Non-Pro users may hold
// at most one unfinished project at a time; a second attempt returns
// domain.ErrProjectLimit, a policy outcome the caller renders as
// guidance, not a data error.
func (s *ProjectService) AddProject(ctx context.Context, userID, title string) (*domain.Project, error) {
	var project *domain.Project
	err := s.storage.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.storage.Users().FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", userID, err)
		}
		project, err = s.create(ctx, user, title, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListUnfinished returns the user's open projects.
func (s *ProjectService) ListUnfinished(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.storage.Projects().FindUnfinished(ctx, userID)
}

// Duration returns the summed accumulated duration of the project's
// tasks. Open intervals of a running task are not included.
func (s *ProjectService) Duration(ctx context.Context, projectID string) (time.Duration, error) {
	return s.storage.Tasks().SumDurations(ctx, projectID)
}

// lookupOrCreate resolves a quick-add project name against the user's
// open projects, creating the project when no match exists. Creation goes
// through the same policy gate as AddProject.
func (s *ProjectService) lookupOrCreate(ctx context.Context, user *domain.User, title string, now time.Time) (*domain.Project, error) {
	project, err := s.storage.Projects().FindUnfinishedByTitle(ctx, user.ID, title)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, fmt.Errorf("failed to look up project %q: %w", title, err)
	}
	return s.create(ctx, user, title, now)
}

// create applies the project-creation policy and persists the project.
func (s *ProjectService) create(ctx context.Context, user *domain.User, title string, now time.Time) (*domain.Project, error) {
	if !user.IsPro(now) {
		open, err := s.storage.Projects().FindUnfinished(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load projects: %w", err)
		}
		if len(open) > 0 {
			return nil, domain.ErrProjectLimit
		}
	}

	project, err := domain.NewProject(user.ID, title)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Projects().Save(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return project, nil
}
