package claims

import "context"

type ctxKey int

const enrichedKey ctxKey = 0

// EnrichedPrincipal holds the claim set this service asserted for one
// authentication event. It is immutable once constructed, so concurrent
// readers need no synchronization.
type EnrichedPrincipal struct {
	claims []Claim
}

// NewEnrichedPrincipal copies the claim set into an immutable holder.
func NewEnrichedPrincipal(cs []Claim) *EnrichedPrincipal {
	cp := make([]Claim, len(cs))
	copy(cp, cs)
	return &EnrichedPrincipal{claims: cp}
}

// Claims returns a copy of the claim set in emission order.
func (p *EnrichedPrincipal) Claims() []Claim {
	cp := make([]Claim, len(p.claims))
	copy(cp, p.claims)
	return cp
}

// UserID returns the internally asserted user identifier, if present.
func (p *EnrichedPrincipal) UserID() (string, bool) {
	for _, c := range p.claims {
		if c.Type == TypeUserID && c.Issuer == InternalIssuer {
			return c.Value, true
		}
	}
	return "", false
}

// NewContext attaches the enriched principal to ctx for the remainder of the
// request. The attachment is local to one authentication event.
func NewContext(ctx context.Context, p *EnrichedPrincipal) context.Context {
	return context.WithValue(ctx, enrichedKey, p)
}

// FromContext returns the enriched principal attached to ctx, if any.
func FromContext(ctx context.Context) (*EnrichedPrincipal, bool) {
	p, ok := ctx.Value(enrichedKey).(*EnrichedPrincipal)
	return p, ok
}
