package cms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// CreateContent persists a new content record and returns its ID.
// The body passes through the save filters unless opts.SkipSanitize is set.
// If c.ExternalID is non-zero the external link is stored with the record.
func (s *SQLiteStore) CreateContent(ctx context.Context, c *Content, opts SaveOptions) (int64, error) {
	if c.Type == "" {
		c.Type = "post"
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if c.Slug == "" {
		c.Slug = slugify(c.Title)
	}

	body := applySaveFilters(c.Body, opts)

	var date any
	if !c.Date.IsZero() {
		date = c.Date.UTC()
	}

	query := `INSERT INTO contents
		(title, body, author_id, status, type, slug, date, edit_date, parent_id, external_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		c.Title, body, c.AuthorID, string(c.Status), c.Type, c.Slug,
		date, boolToInt(c.EditDate), c.ParentID, c.ExternalID)
	if err != nil {
		return 0, fmt.Errorf("failed to create content: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get content ID: %w", err)
	}
	c.ID = id
	c.Body = body

	return id, nil
}

// GetContent retrieves a content record by ID.
// Returns ErrNotFound if no such record exists.
func (s *SQLiteStore) GetContent(ctx context.Context, id int64) (*Content, error) {
	query := `SELECT id, title, body, author_id, status, type, slug, date, edit_date,
		parent_id, external_id, created_at, updated_at
		FROM contents WHERE id = ?`

	var (
		c        Content
		status   string
		date     sql.NullTime
		editDate int
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Body, &c.AuthorID, &status, &c.Type, &c.Slug,
		&date, &editDate, &c.ParentID, &c.ExternalID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query content: %w", err)
	}

	c.Status = Status(status)
	if date.Valid {
		c.Date = date.Time.UTC()
	}
	c.EditDate = editDate != 0

	return &c, nil
}

// UpdateContentBody updates the title and body of a content record in place.
// The caller is responsible for checking the record's status first; published
// or scheduled records must receive a revision instead (see the dispatcher).
func (s *SQLiteStore) UpdateContentBody(ctx context.Context, id int64, title, body string, opts SaveOptions) error {
	body = applySaveFilters(body, opts)

	query := "UPDATE contents SET title = ?, body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, title, body, id)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// LinkExternal attaches the external content ID to a record.
// The link is the stable foreign key for all status notifications, so an
// existing non-zero link is never overwritten; attempting to change it
// returns ErrLinked.
func (s *SQLiteStore) LinkExternal(ctx context.Context, id, externalID int64) error {
	existing, err := s.GetContent(ctx, id)
	if err != nil {
		return err
	}
	if existing.ExternalID != 0 {
		if existing.ExternalID == externalID {
			return nil
		}
		return ErrLinked
	}

	query := "UPDATE contents SET external_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := s.db.ExecContext(ctx, query, externalID, id); err != nil {
		return fmt.Errorf("failed to link content: %w", err)
	}
	return nil
}

// TransitionStatus changes the status of a content record and fires the
// registered transition hooks with the old and new statuses.
func (s *SQLiteStore) TransitionStatus(ctx context.Context, id int64, newStatus Status) error {
	c, err := s.GetContent(ctx, id)
	if err != nil {
		return err
	}
	oldStatus := c.Status

	query := "UPDATE contents SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if newStatus == StatusPublish && c.Date.IsZero() {
		// Publishing stamps the publish date if none was scheduled
		query = "UPDATE contents SET status = ?, date = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	}
	if _, err := s.db.ExecContext(ctx, query, string(newStatus), id); err != nil {
		return fmt.Errorf("failed to transition content status: %w", err)
	}

	c, err = s.GetContent(ctx, id)
	if err != nil {
		return err
	}

	s.fireTransition(oldStatus, newStatus, c)
	return nil
}

// slugify derives a URL slug from a title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Permalink returns the public URL of a content record on the given site.
func Permalink(siteURL string, c *Content) string {
	if c.Slug != "" {
		return fmt.Sprintf("%s/%s", siteURL, c.Slug)
	}
	return fmt.Sprintf("%s/?p=%d", siteURL, c.ID)
}
