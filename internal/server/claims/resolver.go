package claims

import (
	"fmt"

	"github.com/ndanilenko/claimgate/internal/common"
)

// UserContext carries state scoped to a single authentication event. It
// memoizes external identity resolution for that event only; instances must
// not be shared across unrelated resolutions.
type UserContext struct {
	principal  *Principal
	externalID string
	resolved   bool
}

// NewUserContext starts a resolution scope for one authentication event.
func NewUserContext(p *Principal) *UserContext {
	return &UserContext{principal: p}
}

// Principal returns the principal this context was built for.
func (uc *UserContext) Principal() *Principal {
	return uc.principal
}

// ExternalID resolves the principal's external identity reference. The
// principal must be authenticated and must present exactly one TypeExternalID
// claim; zero or multiple matches fail with ErrAmbiguousExternalIdentity.
func (uc *UserContext) ExternalID() (string, error) {
	if uc.principal == nil || !uc.principal.Authenticated {
		return "", common.ErrAuthenticationRequired
	}

	if uc.resolved {
		return uc.externalID, nil
	}

	matches := uc.principal.FindAll(TypeExternalID)
	if len(matches) != 1 {
		return "", fmt.Errorf("%w: found %d %q claims", common.ErrAmbiguousExternalIdentity, len(matches), TypeExternalID)
	}

	uc.externalID = matches[0].Value
	uc.resolved = true
	return uc.externalID, nil
}
