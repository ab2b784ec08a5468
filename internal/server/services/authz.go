package services

import (
	"context"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/roles"
)

// AuthorizationService answers role queries against the enriched principal
// attached to the current security context. It performs no I/O and never
// suspends, so it is safe to call from concurrent request paths.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// CurrentRoles returns the roles asserted for the current authentication
// event. Only internally issued role claims count; an empty set is a valid
// outcome. An unparseable role value fails hard with *common.RoleParseError,
// since it indicates a corrupted trust boundary or a stale deployment.
func (s *AuthorizationService) CurrentRoles(ctx context.Context) ([]roles.Role, error) {
	principal, ok := claims.FromContext(ctx)
	if !ok {
		return nil, common.ErrAuthenticationRequired
	}

	var result []roles.Role
	for _, c := range principal.Claims() {
		if c.Type != claims.TypeRole || c.Issuer != claims.InternalIssuer {
			continue
		}
		role, err := roles.Parse(c.Value)
		if err != nil {
			return nil, err
		}
		result = append(result, role)
	}

	return result, nil
}

// IsInRole reports whether the current principal holds the given role.
func (s *AuthorizationService) IsInRole(ctx context.Context, role roles.Role) (bool, error) {
	current, err := s.CurrentRoles(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range current {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}
