// Package storage provides the SQLite implementation of the storage
// ports.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Thiht/transactor"
	stdlibtx "github.com/Thiht/transactor/stdlib"
	_ "modernc.org/sqlite"

	"github.com/taskrhq/taskr/internal/ports"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
// Repositories read their handle through the transactor's DBGetter, so a
// repository call inside WithinTransaction joins that transaction.
type sqliteStorage struct {
	db          *sql.DB
	transactor  transactor.Transactor
	taskRepo    ports.TaskRepository
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode for better performance
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	trans, dbGetter := stdlibtx.NewTransactor(db, stdlibtx.NestedTransactionsSavepoints)

	storage := &sqliteStorage{
		db:          db,
		transactor:  trans,
		taskRepo:    newTaskRepository(dbGetter),
		projectRepo: newProjectRepository(dbGetter),
		userRepo:    newUserRepository(dbGetter),
	}

	if err := storage.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// Tasks returns the task repository.
func (s *sqliteStorage) Tasks() ports.TaskRepository {
	return s.taskRepo
}

// Projects returns the project repository.
func (s *sqliteStorage) Projects() ports.ProjectRepository {
	return s.projectRepo
}

// Users returns the user repository.
func (s *sqliteStorage) Users() ports.UserRepository {
	return s.userRepo
}

// WithinTransaction runs fn inside one database transaction.
func (s *sqliteStorage) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.transactor.WithinTransaction(ctx, fn)
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		tz_offset INTEGER NOT NULL DEFAULT 0,
		pro_until INTEGER,
		added INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		finished_at INTEGER,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);

	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		project_id TEXT,
		title TEXT NOT NULL,
		scrap TEXT NOT NULL DEFAULT '',
		liveline INTEGER,
		deadline INTEGER,
		added INTEGER NOT NULL,
		last_started INTEGER NOT NULL,
		last_stopped INTEGER NOT NULL,
		duration_s INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0,
		archived INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (project_id) REFERENCES projects(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_state ON tasks(user_id, finished, archived);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
