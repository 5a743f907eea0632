// Package auth handles installation token validation and tenant metadata extraction.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// Errors for token validation failures.
var (
	// ErrNotConfigured indicates no installation token is stored for this instance.
	ErrNotConfigured = errors.New("auth: no installation token configured")
	// ErrMissingToken indicates the caller supplied no token.
	ErrMissingToken = errors.New("auth: missing token")
	// ErrInvalidToken indicates the supplied token does not match the stored one.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMalformedToken indicates the token does not carry decodable instance metadata.
	ErrMalformedToken = errors.New("auth: malformed token")
)

// Instance is the tenant metadata embedded unsigned in the installation token.
type Instance struct {
	Domain string `json:"domain"`
}

// ParseInstance extracts the tenant metadata from an installation token.
//
// The token is formatted as three dot-separated base64url segments; the
// middle segment decodes to a JSON object carrying the tenant domain. The
// token is never cryptographically verified - it is a bearer secret with an
// embedded, unsigned metadata blob.
func ParseInstance(token string) (*Instance, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, ErrMalformedToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, ErrMalformedToken
	}

	var inst Instance
	if err := json.Unmarshal(raw, &inst); err != nil {
		return nil, ErrMalformedToken
	}
	if inst.Domain == "" {
		return nil, ErrMalformedToken
	}

	return &inst, nil
}

// ValidateToken checks a supplied token against the stored installation token.
// The comparison is an exact string match, never a prefix or substring match.
func ValidateToken(stored, supplied string) error {
	if stored == "" {
		return ErrNotConfigured
	}
	if supplied == "" {
		return ErrMissingToken
	}
	if stored != supplied {
		return ErrInvalidToken
	}
	return nil
}
