// Package domain contains the core business entities for Taskr.
// These entities represent the fundamental concepts of the task tracking system
// and are independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskTitle         = errors.New("task title cannot be empty")
	ErrEmptyUsername          = errors.New("username cannot be empty")
	ErrEmptyProjectTitle      = errors.New("project title cannot be empty")
	ErrTaskNotFound           = errors.New("task not found")
	ErrProjectNotFound        = errors.New("project not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrTaskAlreadyRunning     = errors.New("task is already running")
	ErrTaskFinished           = errors.New("task is finished")
	ErrTaskNotFinished        = errors.New("task is not finished")
	ErrTaskTransient          = errors.New("task has not been persisted")
	ErrDeadlineBeforeLiveline = errors.New("deadline cannot be before liveline")
	ErrNotOwner               = errors.New("task belongs to another user")
	ErrProjectLimit           = errors.New("finish your current project or go Pro to add more")
	ErrProjectHasNoTasks      = errors.New("project has no tasks")
)

// TaskStatus is the categorical projection used for list grouping.
// Exactly one status applies to a task; the first match in the
// archived > finished > deadline > liveline cascade wins.
type TaskStatus string

const (
	StatusArchived TaskStatus = "archived"
	StatusFinished TaskStatus = "finished"
	StatusOverdue  TaskStatus = "overdue"
	StatusDueToday TaskStatus = "due_today"
	StatusFuture   TaskStatus = "future"
	StatusNormal   TaskStatus = "normal"
)

// Task represents a unit of work whose active time is being tracked.
//
// A task is active iff LastStarted > LastStopped. Duration holds only
// completed start/stop intervals; the open interval of a running task is
// added on top by EffectiveDuration. Mutation of the
// LastStarted/LastStopped/Duration triple must go through Start and Stop.
type Task struct {
	ID          string
	UserID      string
	ProjectID   string
	Title       string
	Scrap       string
	Liveline    *time.Time
	Deadline    *time.Time
	Added       time.Time
	LastStarted time.Time
	LastStopped time.Time
	Duration    time.Duration
	Finished    bool
	Archived    bool
}

// NewTask creates a new, inactive task owned by the given user.
func NewTask(userID, title string, now time.Time) (*Task, error) {
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}

	return &Task{
		UserID:      userID,
		Title:       title,
		Added:       now,
		LastStarted: now,
		LastStopped: now,
	}, nil
}

// IsActive returns true if the task is currently accumulating time.
func (t *Task) IsActive() bool {
	return t.LastStarted.After(t.LastStopped)
}

// EffectiveDuration returns the accumulated duration plus the currently
// open interval if the task is active. The open-interval contribution is
// clamped at zero so a skewed clock can never make the total go backwards.
func (t *Task) EffectiveDuration(now time.Time) time.Duration {
	if !t.IsActive() {
		return t.Duration
	}
	open := now.Sub(t.LastStarted)
	if open < 0 {
		open = 0
	}
	return t.Duration + open
}

// Start begins accumulating time on the task. Valid only for an idle,
// unfinished task; the caller is responsible for stopping any other task
// the same user has running.
func (t *Task) Start(now time.Time) error {
	if t.Finished || t.Archived {
		return ErrTaskFinished
	}
	if t.IsActive() {
		return ErrTaskAlreadyRunning
	}
	t.LastStarted = now
	return nil
}

// Stop closes the open interval and adds it to the accumulated duration.
// Returns false without touching the task if it was not active; stopping
// an idle task is not an error since stop may be invoked speculatively.
// A stop time before the start time contributes zero.
func (t *Task) Stop(now time.Time) bool {
	if !t.IsActive() {
		return false
	}
	elapsed := now.Sub(t.LastStarted)
	if elapsed < 0 {
		elapsed = 0
		now = t.LastStarted
	}
	t.Duration += elapsed
	t.LastStopped = now
	return true
}

// Finish stops the task if it is running and marks it finished.
// It does not archive; archiving is a separate, explicit step.
func (t *Task) Finish(now time.Time) {
	t.Stop(now)
	t.Finished = true
}

// Archive marks a finished task as archived.
func (t *Task) Archive() error {
	if !t.Finished {
		return ErrTaskNotFinished
	}
	t.Archived = true
	return nil
}

// Unarchive clears the archived flag; the task stays finished.
func (t *Task) Unarchive() {
	t.Archived = false
}

// SetLiveline sets the start-by timestamp, rejecting a value that would
// place the deadline before it.
func (t *Task) SetLiveline(at *time.Time) error {
	if at != nil && t.Deadline != nil && t.Deadline.Before(*at) {
		return ErrDeadlineBeforeLiveline
	}
	t.Liveline = at
	return nil
}

// SetDeadline sets the due-by timestamp, rejecting a value before the
// liveline.
func (t *Task) SetDeadline(at *time.Time) error {
	if at != nil && t.Liveline != nil && at.Before(*t.Liveline) {
		return ErrDeadlineBeforeLiveline
	}
	t.Deadline = at
	return nil
}

// Status projects the task onto a single list-grouping category.
// Only persisted tasks have a status.
func (t *Task) Status(now time.Time) (TaskStatus, error) {
	if t.ID == "" {
		return "", ErrTaskTransient
	}
	switch {
	case t.Archived:
		return StatusArchived, nil
	case t.Finished:
		return StatusFinished, nil
	case t.Deadline != nil && t.Deadline.Before(now):
		return StatusOverdue, nil
	case t.Deadline != nil && t.Deadline.Before(now.Add(24*time.Hour)):
		return StatusDueToday, nil
	case t.Liveline != nil && t.Liveline.After(now.Add(24*time.Hour)):
		return StatusFuture, nil
	default:
		return StatusNormal, nil
	}
}
