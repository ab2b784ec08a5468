// Package repomanager wires repositories to a database handle so services
// can run the same repository code inside and outside transactions.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/ndanilenko/claimgate/internal/dbx"
	"github.com/ndanilenko/claimgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
