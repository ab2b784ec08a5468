// Package common defines shared constants and sentinel errors used across
// claimgate layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Enrichment errors. Any of these aborts claim production entirely;
	// there is no fallback to an anonymous or partially-authorized context.
	ErrAuthenticationRequired    = errors.New("authentication required")
	ErrAmbiguousExternalIdentity = errors.New("external identity claim missing or ambiguous")
	ErrUserNotFound              = errors.New("user not found")
	ErrUserDisabled              = errors.New("user is disabled")
	ErrUserDeleted               = errors.New("user is deleted")

	// ErrBootstrapConflict signals that a concurrent bootstrap attempt won
	// the insert race. The caller should retry the account lookup; the
	// winner's account now exists.
	ErrBootstrapConflict = errors.New("bootstrap conflict")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)

// RoleParseError reports a role claim value that does not match any known
// role name. It indicates a corrupted trust boundary or a stale deployment
// and is surfaced rather than skipped.
type RoleParseError struct {
	Value string
}

func (e *RoleParseError) Error() string {
	return fmt.Sprintf("unknown role claim value %q", e.Value)
}
