// Package services contains server-side business logic. This file implements
// EnrichmentService, which turns an externally authenticated principal into
// the trusted claim set downstream authorization consumes.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/models"
	"github.com/ndanilenko/claimgate/internal/server/repositories/repomanager"
)

// EnrichmentService resolves the external identity, loads or bootstraps the
// matching account, gates on account status, and emits the internally issued
// claim set. It runs once per authentication event and performs store I/O.
type EnrichmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	bootstrap   *Bootstrapper
	logger      logging.Logger
}

func NewEnrichmentService(db *sql.DB, m repomanager.RepositoryManager, b *Bootstrapper, l logging.Logger) *EnrichmentService {
	return &EnrichmentService{
		db:          db,
		repomanager: m,
		bootstrap:   b,
		logger:      l.With("module", "enrichment"),
	}
}

// BuildClaims produces the trusted claim set for the principal: one userid
// claim followed by one role claim per assignment, in stored assignment
// order, all tagged with the internal issuer. Emission is all-or-nothing;
// any failure means the authentication event failed.
func (s *EnrichmentService) BuildClaims(ctx context.Context, principal *claims.Principal) ([]claims.Claim, error) {
	uc := claims.NewUserContext(principal)

	externalID, err := uc.ExternalID()
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	account, err := repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		if account, err = s.onboard(ctx, uc, externalID); err != nil {
			return nil, err
		}
	}

	// Disabled is the more common operational state; check it first.
	if account.Disabled {
		return nil, common.ErrUserDisabled
	}
	if account.DeletedAt != nil {
		return nil, common.ErrUserDeleted
	}

	result := make([]claims.Claim, 0, 1+len(account.Roles))
	result = append(result, claims.Internal(claims.TypeUserID, account.ID))
	for _, role := range account.Roles {
		result = append(result, claims.Internal(claims.TypeRole, role.String()))
	}

	return result, nil
}

// onboard runs the bootstrap path for an unknown identity and recovers from
// a lost insert race by re-reading the winner's account.
func (s *EnrichmentService) onboard(ctx context.Context, uc *claims.UserContext, externalID string) (*models.UserAccount, error) {
	account, err := s.bootstrap.TryBootstrap(ctx, uc.Principal(), externalID)
	if err != nil {
		if !errors.Is(err, common.ErrBootstrapConflict) {
			return nil, err
		}

		s.logger.Warn(ctx, "bootstrap lost insert race, re-reading account", "external_id", externalID)

		account, err = s.repomanager.Users(s.db).GetByExternalID(ctx, externalID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrUserNotFound
			}
			return nil, err
		}
		return account, nil
	}

	if account == nil {
		return nil, common.ErrUserNotFound
	}
	return account, nil
}
