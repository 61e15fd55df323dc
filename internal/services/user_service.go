package services

import (
	"context"
	"fmt"
	"time"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
)

// UserService manages the local user registry. Authentication is out of
// scope; callers arrive with an already-resolved identity.
type UserService struct {
	storage ports.Storage
	clock   ports.Clock
}

// NewUserService creates a new user service.
func NewUserService(storage ports.Storage) *UserService {
	return &UserService{storage: storage, clock: systemClock{}}
}

// SetClock replaces the wall clock, for tests.
func (s *UserService) SetClock(clock ports.Clock) {
	s.clock = clock
}

// AddUser registers a new user. tzOffset is seconds east of UTC.
func (s *UserService) AddUser(ctx context.Context, username string, tzOffset int) (*domain.User, error) {
	user, err := domain.NewUser(username, s.clock.Now())
	if err != nil {
		return nil, err
	}
	user.TZOffset = tzOffset

	if err := s.storage.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

// GrantPro extends the user's Pro entitlement until the given time.
func (s *UserService) GrantPro(ctx context.Context, username string, until time.Time) (*domain.User, error) {
	user, err := s.storage.Users().FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s: %w", username, err)
	}
	user.ProUntil = until
	if err := s.storage.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// GetByUsername resolves a username to a user record.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.storage.Users().FindByUsername(ctx, username)
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.storage.Users().FindAll(ctx)
}
