package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	stdlibtx "github.com/Thiht/transactor/stdlib"
	"github.com/google/uuid"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
)

// projectRepository implements ports.ProjectRepository using SQLite.
type projectRepository struct {
	dbGetter stdlibtx.DBGetter
}

// newProjectRepository creates a new project repository.
func newProjectRepository(dbGetter stdlibtx.DBGetter) ports.ProjectRepository {
	return &projectRepository{dbGetter: dbGetter}
}

// Save persists a new project and assigns its id.
func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	if project.ID != "" {
		return fmt.Errorf("project %s already persisted", project.ID)
	}
	id := uuid.New().String()

	query := `INSERT INTO projects (id, user_id, title, finished_at) VALUES (?, ?, ?, ?)`
	_, err := r.dbGetter(ctx).ExecContext(ctx, query,
		id,
		project.UserID,
		project.Title,
		nullTime(project.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	project.ID = id
	return nil
}

// Update modifies an existing project.
func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `UPDATE projects SET title = ?, finished_at = ? WHERE id = ?`
	result, err := r.dbGetter(ctx).ExecContext(ctx, query,
		project.Title,
		nullTime(project.FinishedAt),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// FindByID retrieves a project by its unique identifier.
func (r *projectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT id, user_id, title, finished_at FROM projects WHERE id = ?`
	project, err := scanProject(r.dbGetter(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// FindUnfinished returns the user's open projects.
func (r *projectRepository) FindUnfinished(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := `
		SELECT id, user_id, title, finished_at FROM projects
		WHERE user_id = ? AND finished_at IS NULL
		ORDER BY title ASC
	`
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// FindUnfinishedByTitle looks up an open project of the user by exact
// title.
func (r *projectRepository) FindUnfinishedByTitle(ctx context.Context, userID, title string) (*domain.Project, error) {
	query := `
		SELECT id, user_id, title, finished_at FROM projects
		WHERE user_id = ? AND title = ? AND finished_at IS NULL
		LIMIT 1
	`
	project, err := scanProject(r.dbGetter(ctx).QueryRowContext(ctx, query, userID, title))
	if err == sql.ErrNoRows {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CountTasks counts all tasks referencing the project.
func (r *projectRepository) CountTasks(ctx context.Context, projectID string) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE project_id = ?`
	var count int
	err := r.dbGetter(ctx).QueryRowContext(ctx, query, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// scanProject maps one row onto a domain project.
func scanProject(row scannable) (*domain.Project, error) {
	var project domain.Project
	var finishedAt sql.NullInt64

	err := row.Scan(&project.ID, &project.UserID, &project.Title, &finishedAt)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		at := time.Unix(finishedAt.Int64, 0).UTC()
		project.FinishedAt = &at
	}
	return &project, nil
}
