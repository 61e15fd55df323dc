package domain

import "time"

// User is the owner of tasks and projects. Authentication lives outside
// this core; the fields here are the ones the task and project rules need:
// the Pro entitlement expiry gates project creation and the time-zone
// offset shifts quick-add date parsing.
type User struct {
	ID       string
	Username string
	TZOffset int // seconds east of UTC
	ProUntil time.Time
	Added    time.Time
}

// NewUser creates a new user record.
func NewUser(username string, now time.Time) (*User, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	return &User{Username: username, Added: now}, nil
}

// IsPro reports whether the user's Pro entitlement is current.
func (u *User) IsPro(now time.Time) bool {
	return u.ProUntil.After(now)
}
