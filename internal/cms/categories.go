package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateCategory creates a new category and returns its ID.
func (s *SQLiteStore) CreateCategory(ctx context.Context, name, slug string) (int64, error) {
	query := "INSERT INTO categories (name, slug) VALUES (?, ?)"
	res, err := s.db.ExecContext(ctx, query, name, slug)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get category ID: %w", err)
	}
	return id, nil
}

// GetCategory retrieves a category by ID.
// Returns ErrNotFound if no such category exists.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*Category, error) {
	query := "SELECT id, name, slug, created_at FROM categories WHERE id = ?"

	var c Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &c, nil
}

// CategoryExists reports whether a category with the given ID exists.
func (s *SQLiteStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListCategories retrieves all categories ordered by ID.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*Category, error) {
	query := "SELECT id, name, slug, created_at FROM categories ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck

	var cats []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return cats, nil
}

// SetContentCategories replaces all category assignments for a content record.
func (s *SQLiteStore) SetContentCategories(ctx context.Context, contentID int64, categoryIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM content_categories WHERE content_id = ?", contentID); err != nil {
		return fmt.Errorf("failed to clear category assignments: %w", err)
	}

	for _, catID := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO content_categories (content_id, category_id) VALUES (?, ?)",
			contentID, catID)
		if err != nil {
			return fmt.Errorf("failed to assign category %d: %w", catID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category assignments: %w", err)
	}
	return nil
}

// GetContentCategories returns the category IDs assigned to a content record.
func (s *SQLiteStore) GetContentCategories(ctx context.Context, contentID int64) ([]int64, error) {
	query := "SELECT category_id FROM content_categories WHERE content_id = ? ORDER BY category_id"

	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category assignments: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category assignments: %w", err)
	}

	return ids, nil
}
