// Package claims defines the claim and principal model shared by the
// enrichment and authorization services, plus the per-event resolution scope
// and the security-context attachment for enriched claim sets.
package claims

const (
	// TypeExternalID is the claim type carrying the identity provider's
	// stable object identifier for the authenticated user.
	TypeExternalID = "oid"

	// TypeEmail and TypeDisplayName are read only during bootstrap.
	TypeEmail       = "upn"
	TypeDisplayName = "name"

	// TypeUserID and TypeRole are the claim types this service asserts.
	TypeUserID = "userid"
	TypeRole   = "role"

	// InternalIssuer tags claims asserted by claimgate itself. Downstream
	// authorization must trust only claims carrying this issuer; claims
	// copied from the external provider are never authorization-bearing.
	InternalIssuer = "claimgate"
)

// Claim is a single (type, value, issuer) assertion about a principal.
type Claim struct {
	Type   string
	Value  string
	Issuer string
}

// Internal builds a claim asserted by this service.
func Internal(claimType, value string) Claim {
	return Claim{Type: claimType, Value: value, Issuer: InternalIssuer}
}

// Principal is an identity presented to the system together with the claims
// the external provider issued for it.
type Principal struct {
	Authenticated bool
	Claims        []Claim
}

// FindAll returns every claim of the given type.
func (p *Principal) FindAll(claimType string) []Claim {
	var found []Claim
	for _, c := range p.Claims {
		if c.Type == claimType {
			found = append(found, c)
		}
	}
	return found
}

// FindFirst returns the value of the first claim of the given type, or the
// empty string if no such claim exists.
func (p *Principal) FindFirst(claimType string) string {
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c.Value
		}
	}
	return ""
}
