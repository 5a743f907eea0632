package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateUser creates a new author account and returns its ID.
func (s *SQLiteStore) CreateUser(ctx context.Context, login, displayName, email string) (int64, error) {
	query := "INSERT INTO users (login, display_name, email) VALUES (?, ?, ?)"
	res, err := s.db.ExecContext(ctx, query, login, displayName, email)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user ID: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if no such user exists.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*User, error) {
	query := "SELECT id, login, display_name, email, created_at FROM users WHERE id = ?"

	var u User
	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Login, &u.DisplayName, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// ListUsers retrieves all users ordered by ID.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	query := "SELECT id, login, display_name, email, created_at FROM users ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Login, &u.DisplayName, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
