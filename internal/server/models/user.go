package models

import (
	"time"

	"github.com/ndanilenko/claimgate/internal/server/roles"
)

// UserAccount is the internal record augmenting an externally authenticated
// identity. ExternalID is immutable after creation and unique across
// accounts. Roles preserves the stored assignment order.
type UserAccount struct {
	ID          string
	ExternalID  string
	Email       string
	DisplayName string
	Disabled    bool
	DeletedAt   *time.Time
	Roles       []roles.Role
	CreatedAt   time.Time
}
