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

// userRepository implements ports.UserRepository using SQLite.
type userRepository struct {
	dbGetter stdlibtx.DBGetter
}

// newUserRepository creates a new user repository.
func newUserRepository(dbGetter stdlibtx.DBGetter) ports.UserRepository {
	return &userRepository{dbGetter: dbGetter}
}

// Save persists a new user and assigns their id.
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID != "" {
		return fmt.Errorf("user %s already persisted", user.ID)
	}
	id := uuid.New().String()

	query := `INSERT INTO users (id, username, tz_offset, pro_until, added) VALUES (?, ?, ?, ?, ?)`
	_, err := r.dbGetter(ctx).ExecContext(ctx, query,
		id,
		user.Username,
		user.TZOffset,
		nullUnix(user.ProUntil),
		user.Added.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	user.ID = id
	return nil
}

// Update modifies an existing user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET username = ?, tz_offset = ?, pro_until = ? WHERE id = ?`
	result, err := r.dbGetter(ctx).ExecContext(ctx, query,
		user.Username,
		user.TZOffset,
		nullUnix(user.ProUntil),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FindByID retrieves a user by their unique identifier.
func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, username, tz_offset, pro_until, added FROM users WHERE id = ?`
	user, err := scanUser(r.dbGetter(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindByUsername retrieves a user by username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, tz_offset, pro_until, added FROM users WHERE username = ?`
	user, err := scanUser(r.dbGetter(ctx).QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindAll returns every registered user.
func (r *userRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT id, username, tz_offset, pro_until, added FROM users ORDER BY username ASC`
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// scanUser maps one row onto a domain user.
func scanUser(row scannable) (*domain.User, error) {
	var user domain.User
	var proUntil sql.NullInt64
	var added int64

	err := row.Scan(&user.ID, &user.Username, &user.TZOffset, &proUntil, &added)
	if err != nil {
		return nil, err
	}
	if proUntil.Valid {
		user.ProUntil = time.Unix(proUntil.Int64, 0).UTC()
	}
	user.Added = time.Unix(added, 0).UTC()
	return &user, nil
}

func nullUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
