package domain

import "time"

// Project groups a user's tasks. A project's finished timestamp is
// computed by the finish cascade — it is stamped when the last open task
// belonging to it is finished — and is never set directly by callers.
type Project struct {
	ID         string
	UserID     string
	Title      string
	FinishedAt *time.Time
}

// NewProject creates a new open project owned by the given user.
func NewProject(userID, title string) (*Project, error) {
	if title == "" {
		return nil, ErrEmptyProjectTitle
	}
	return &Project{UserID: userID, Title: title}, nil
}

// IsFinished returns true once the finish cascade has stamped the project.
func (p *Project) IsFinished() bool {
	return p.FinishedAt != nil
}

// Finish stamps the project with the stop time of its last open task.
func (p *Project) Finish(at time.Time) {
	p.FinishedAt = &at
}
