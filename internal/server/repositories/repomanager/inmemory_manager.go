package repomanager

import (
	"context"
	"database/sql"

	"github.com/ndanilenko/claimgate/internal/dbx"
	"github.com/ndanilenko/claimgate/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves the same in-memory repository regardless
// of the handle passed in, so transactional call sites keep working in tests
// and local development.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
