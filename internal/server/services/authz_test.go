package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/roles"
)

func enrichedContext(cs ...claims.Claim) context.Context {
	return claims.NewContext(context.Background(), claims.NewEnrichedPrincipal(cs))
}

func TestCurrentRoles_NoPrincipal(t *testing.T) {
	svc := NewAuthorizationService()
	_, err := svc.CurrentRoles(context.Background())
	if !errors.Is(err, common.ErrAuthenticationRequired) {
		t.Fatalf("want ErrAuthenticationRequired, got %v", err)
	}
}

func TestCurrentRoles_ReturnsEnrichedSet(t *testing.T) {
	ctx := enrichedContext(
		claims.Internal(claims.TypeUserID, "u-1"),
		claims.Internal(claims.TypeRole, "Administrator"),
		claims.Internal(claims.TypeRole, "Auditor"),
	)

	svc := NewAuthorizationService()
	got, err := svc.CurrentRoles(ctx)
	if err != nil {
		t.Fatalf("CurrentRoles error: %v", err)
	}
	if len(got) != 2 || got[0] != roles.Administrator || got[1] != roles.Auditor {
		t.Fatalf("unexpected roles: %v", got)
	}
}

func TestCurrentRoles_EmptySetIsValid(t *testing.T) {
	ctx := enrichedContext(claims.Internal(claims.TypeUserID, "u-1"))

	svc := NewAuthorizationService()
	got, err := svc.CurrentRoles(ctx)
	if err != nil {
		t.Fatalf("empty role set must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no roles, got %v", got)
	}
}

func TestCurrentRoles_IgnoresExternallyIssuedRoleClaims(t *testing.T) {
	ctx := enrichedContext(
		claims.Internal(claims.TypeUserID, "u-1"),
		claims.Claim{Type: claims.TypeRole, Value: "Administrator", Issuer: "https://idp.example"},
		claims.Internal(claims.TypeRole, "Auditor"),
	)

	svc := NewAuthorizationService()
	got, err := svc.CurrentRoles(ctx)
	if err != nil {
		t.Fatalf("CurrentRoles error: %v", err)
	}
	if len(got) != 1 || got[0] != roles.Auditor {
		t.Fatalf("externally issued role claim leaked into result: %v", got)
	}
}

func TestCurrentRoles_UnknownRoleValueFailsHard(t *testing.T) {
	ctx := enrichedContext(
		claims.Internal(claims.TypeRole, "Administrator"),
		claims.Internal(claims.TypeRole, "Wizard"),
	)

	svc := NewAuthorizationService()
	_, err := svc.CurrentRoles(ctx)
	var parseErr *common.RoleParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("want RoleParseError, got %v", err)
	}
	if parseErr.Value != "Wizard" {
		t.Fatalf("error carries %q, want %q", parseErr.Value, "Wizard")
	}
}

func TestIsInRole(t *testing.T) {
	ctx := enrichedContext(
		claims.Internal(claims.TypeUserID, "u-1"),
		claims.Internal(claims.TypeRole, "Operator"),
	)

	svc := NewAuthorizationService()

	ok, err := svc.IsInRole(ctx, roles.Operator)
	if err != nil || !ok {
		t.Fatalf("IsInRole(Operator) = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = svc.IsInRole(ctx, roles.Administrator)
	if err != nil || ok {
		t.Fatalf("IsInRole(Administrator) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestIsInRole_NoPrincipal(t *testing.T) {
	svc := NewAuthorizationService()
	_, err := svc.IsInRole(context.Background(), roles.Operator)
	if !errors.Is(err, common.ErrAuthenticationRequired) {
		t.Fatalf("want ErrAuthenticationRequired, got %v", err)
	}
}
