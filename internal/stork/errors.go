// Package stork provides the HTTP client for the external Stork platform API.
package stork

import "errors"

// Configuration errors returned by Fire before any network activity.
// These indicate a programming defect in the caller, not a runtime failure.
var (
	ErrMissingMethod   = errors.New("stork: missing http method")
	ErrMissingEndpoint = errors.New("stork: missing endpoint")
	ErrMissingPayload  = errors.New("stork: missing payload")
)
