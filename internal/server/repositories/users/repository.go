package users

import (
	"context"

	"github.com/ndanilenko/claimgate/internal/server/models"
)

// Repository is the persistence port for user accounts. The enrichment path
// reads accounts on every authentication event; the bootstrap path is the
// only writer in this core.
type Repository interface {
	// GetByExternalID returns the account mapped to the given external
	// identity, or common.ErrorNotFound.
	GetByExternalID(ctx context.Context, externalID string) (*models.UserAccount, error)

	// Count returns the number of stored accounts.
	Count(ctx context.Context) (int64, error)

	// Create inserts a new account with its role assignments. A duplicate
	// external identity yields common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error)
}
