package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/dbx"
	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/cache"
	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/config"
	"github.com/ndanilenko/claimgate/internal/server/models"
	"github.com/ndanilenko/claimgate/internal/server/repositories/repomanager"
	"github.com/ndanilenko/claimgate/internal/server/roles"
)

// Bootstrapper creates the very first account when the store is empty and
// bootstrap mode is enabled by deployment configuration, granting it every
// known role.
type Bootstrapper struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.Invalidator
	enabled     bool
	logger      logging.Logger
}

// NewBootstrapper constructs a Bootstrapper. The enabled gate comes from
// runtime configuration, never from build flags.
func NewBootstrapper(db *sql.DB, m repomanager.RepositoryManager, c cache.Invalidator, cfg *config.Config, l logging.Logger) *Bootstrapper {
	return &Bootstrapper{
		db:          db,
		repomanager: m,
		cache:       c,
		enabled:     cfg.BootstrapEnabled,
		logger:      l.With("module", "bootstrap"),
	}
}

// TryBootstrap returns (nil, nil) when the gate does not pass: bootstrap mode
// disabled, or the store already holds accounts. When the gate passes it
// inserts a super-user account built from the principal's claims inside a
// transaction and clears the shared read cache after the commit.
//
// The emptiness check and the insert are not atomic; the unique index on
// external_id serializes concurrent attempts. The loser gets
// common.ErrBootstrapConflict and should re-read the winner's account.
func (b *Bootstrapper) TryBootstrap(ctx context.Context, principal *claims.Principal, externalID string) (*models.UserAccount, error) {
	if !b.enabled {
		return nil, nil
	}

	repo := b.repomanager.Users(b.db)

	n, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}

	account := &models.UserAccount{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		Email:       rewriteEmail(principal.FindFirst(claims.TypeEmail)),
		DisplayName: principal.FindFirst(claims.TypeDisplayName),
		Roles:       roles.All(),
	}

	err = dbx.WithTx(ctx, b.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := b.repomanager.Users(tx).Create(ctx, account)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrBootstrapConflict
		}
		return nil, err
	}

	// Cleared strictly after the commit, so other readers never observe a
	// fresh cache entry paired with a stale "store empty" state.
	if err := b.cache.Clear(ctx); err != nil {
		b.logger.Warn(ctx, "cache clear after bootstrap failed", "error", err)
	}

	b.logger.Info(ctx, "bootstrap account created",
		"account_id", account.ID, "external_id", externalID, "roles", len(account.Roles))

	return account, nil
}

// rewriteEmail redirects the bootstrap address to a non-deliverable domain
// so a development bootstrap can never contact a real mailbox.
func rewriteEmail(email string) string {
	return strings.Replace(email, "@", "@devmail.", 1)
}
