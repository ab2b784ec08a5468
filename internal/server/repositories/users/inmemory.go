package users

import (
	"context"
	"sync"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// development. It enforces the same external-identity uniqueness guarantee
// as the Postgres schema, so concurrent bootstrap races behave identically.
type InMemoryRepository struct {
	mu      sync.Mutex
	byExtID map[string]*models.UserAccount
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byExtID: make(map[string]*models.UserAccount)}
}

func (r *InMemoryRepository) GetByExternalID(ctx context.Context, externalID string) (*models.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byExtID[externalID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneAccount(account), nil
}

func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.byExtID)), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, account *models.UserAccount) (*models.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byExtID[account.ExternalID]; exists {
		return nil, common.ErrorAlreadyExists
	}
	r.byExtID[account.ExternalID] = cloneAccount(account)
	return account, nil
}

// cloneAccount keeps stored accounts isolated from caller mutation.
func cloneAccount(a *models.UserAccount) *models.UserAccount {
	cp := *a
	if a.DeletedAt != nil {
		deleted := *a.DeletedAt
		cp.DeletedAt = &deleted
	}
	cp.Roles = append(cp.Roles[:0:0], a.Roles...)
	return &cp
}
