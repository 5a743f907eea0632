package cms

import (
	"context"
	"database/sql"
	"fmt"
)

// Well-known option names.
const (
	// OptionAPIToken stores the installation token issued by the external platform.
	OptionAPIToken = "lbcm_api_token"

	// OptionAdminTokenHash stores the bcrypt hash of the admin API credential.
	OptionAdminTokenHash = "lbcm_admin_token_hash"
)

// GetOption returns the value of a named option.
// Returns an empty string (and no error) when the option is not set.
func (s *SQLiteStore) GetOption(ctx context.Context, name string) (string, error) {
	query := "SELECT value FROM options WHERE name = ?"
	var value string

	err := s.db.QueryRowContext(ctx, query, name).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to query option %s: %w", name, err)
	}

	return value, nil
}

// SetOption stores a named option, replacing any existing value.
func (s *SQLiteStore) SetOption(ctx context.Context, name, value string) error {
	query := "INSERT OR REPLACE INTO options (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)"
	if _, err := s.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("failed to set option %s: %w", name, err)
	}
	return nil
}
