package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	stdlibtx "github.com/Thiht/transactor/stdlib"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/ports"
)

const taskColumns = `id, user_id, project_id, title, scrap, liveline, deadline,
	added, last_started, last_stopped, duration_s, finished, archived`

// taskRepository implements ports.TaskRepository using SQLite.
// Timestamps are stored as Unix seconds, duration as whole seconds.
type taskRepository struct {
	dbGetter stdlibtx.DBGetter
}

// newTaskRepository creates a new task repository.
func newTaskRepository(dbGetter stdlibtx.DBGetter) ports.TaskRepository {
	return &taskRepository{dbGetter: dbGetter}
}

// Save persists a new task and assigns its id.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	if task.ID != "" {
		return fmt.Errorf("task %s already persisted", task.ID)
	}
	id := uuid.New().String()

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.dbGetter(ctx).ExecContext(ctx, query,
		id,
		task.UserID,
		nullString(task.ProjectID),
		task.Title,
		task.Scrap,
		nullTime(task.Liveline),
		nullTime(task.Deadline),
		task.Added.Unix(),
		task.LastStarted.Unix(),
		task.LastStopped.Unix(),
		int64(task.Duration/time.Second),
		task.Finished,
		task.Archived,
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	task.ID = id
	return nil
}

// Update modifies an existing task.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		return domain.ErrTaskTransient
	}

	query := `
		UPDATE tasks
		SET project_id = ?, title = ?, scrap = ?, liveline = ?, deadline = ?,
			last_started = ?, last_stopped = ?, duration_s = ?, finished = ?, archived = ?
		WHERE id = ?
	`
	result, err := r.dbGetter(ctx).ExecContext(ctx, query,
		nullString(task.ProjectID),
		task.Title,
		task.Scrap,
		nullTime(task.Liveline),
		nullTime(task.Deadline),
		task.LastStarted.Unix(),
		task.LastStopped.Unix(),
		int64(task.Duration/time.Second),
		task.Finished,
		task.Archived,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// FindByID retrieves a task by its unique identifier.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(r.dbGetter(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindActive retrieves the user's currently running task, or nil.
func (r *taskRepository) FindActive(ctx context.Context, userID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND last_started > last_stopped
		LIMIT 1
	`
	task, err := scanTask(r.dbGetter(ctx).QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active task: %w", err)
	}
	return task, nil
}

// FindUpcoming returns the user's idle, unfinished tasks ordered by last
// stop time.
func (r *taskRepository) FindUpcoming(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND last_stopped >= last_started
			AND finished = 0 AND archived = 0
		ORDER BY last_stopped ASC
	`
	return r.queryTasks(ctx, query, userID)
}

// FindFinishedUnarchived returns the user's finished, unarchived tasks.
func (r *taskRepository) FindFinishedUnarchived(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND finished = 1 AND archived = 0
		ORDER BY last_stopped DESC
	`
	return r.queryTasks(ctx, query, userID)
}

// FindArchived returns the user's archived tasks, optionally windowed by
// last stop time.
func (r *taskRepository) FindArchived(ctx context.Context, userID string, from, to *time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? AND archived = 1`
	args := []interface{}{userID}
	if from != nil {
		query += ` AND last_stopped >= ?`
		args = append(args, from.Unix())
	}
	if to != nil {
		query += ` AND last_stopped < ?`
		args = append(args, to.Unix())
	}
	query += ` ORDER BY project_id ASC, last_stopped ASC`
	return r.queryTasks(ctx, query, args...)
}

// CountOpenInProject counts the project's unfinished tasks, excluding the
// given task id.
func (r *taskRepository) CountOpenInProject(ctx context.Context, projectID, excludeTaskID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = ? AND finished = 0 AND id != ?
	`
	var count int
	err := r.dbGetter(ctx).QueryRowContext(ctx, query, projectID, excludeTaskID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open tasks: %w", err)
	}
	return count, nil
}

// SumDurations returns the total accumulated duration of the project's
// tasks.
func (r *taskRepository) SumDurations(ctx context.Context, projectID string) (time.Duration, error) {
	query := `SELECT COALESCE(SUM(duration_s), 0) FROM tasks WHERE project_id = ?`
	var seconds int64
	err := r.dbGetter(ctx).QueryRowContext(ctx, query, projectID).Scan(&seconds)
	if err != nil {
		return 0, fmt.Errorf("failed to sum durations: %w", err)
	}
	return time.Duration(seconds) * time.Second, nil
}

// Search fuzzy-matches the query against the titles of the user's
// unarchived tasks, best matches first.
func (r *taskRepository) Search(ctx context.Context, userID, query string) ([]*domain.Task, error) {
	sqlQuery := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = ? AND archived = 0
		ORDER BY last_stopped DESC
	`
	tasks, err := r.queryTasks(ctx, sqlQuery, userID)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}

	matches := fuzzy.Find(query, titles)
	ranked := make([]*domain.Task, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, tasks[match.Index])
	}
	return ranked, nil
}

// queryTasks runs a multi-row task query and scans the results.
func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*domain.Task, error) {
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

type scannable interface {
	Scan(dest ...interface{}) error
}

// scanTask maps one row onto a domain task.
func scanTask(row scannable) (*domain.Task, error) {
	var task domain.Task
	var projectID sql.NullString
	var liveline, deadline sql.NullInt64
	var added, lastStarted, lastStopped, durationS int64

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&projectID,
		&task.Title,
		&task.Scrap,
		&liveline,
		&deadline,
		&added,
		&lastStarted,
		&lastStopped,
		&durationS,
		&task.Finished,
		&task.Archived,
	)
	if err != nil {
		return nil, err
	}

	task.ProjectID = projectID.String
	if liveline.Valid {
		at := time.Unix(liveline.Int64, 0).UTC()
		task.Liveline = &at
	}
	if deadline.Valid {
		at := time.Unix(deadline.Int64, 0).UTC()
		task.Deadline = &at
	}
	task.Added = time.Unix(added, 0).UTC()
	task.LastStarted = time.Unix(lastStarted, 0).UTC()
	task.LastStopped = time.Unix(lastStopped, 0).UTC()
	task.Duration = time.Duration(durationS) * time.Second

	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
