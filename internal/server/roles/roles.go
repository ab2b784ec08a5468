// Package roles defines the closed set of application roles and the explicit
// bidirectional mapping between roles and their claim-value names. Claim
// values must round-trip exactly; there is no partial or fuzzy matching.
package roles

import (
	"fmt"

	"github.com/ndanilenko/claimgate/internal/common"
)

// Role identifies an application role known at build time.
type Role int

const (
	Administrator Role = iota + 1
	Operator
	Auditor
)

// names is the single source of truth for role claim values.
var names = map[Role]string{
	Administrator: "Administrator",
	Operator:      "Operator",
	Auditor:       "Auditor",
}

var byName map[string]Role

func init() {
	if len(names) != len(All()) {
		panic("roles: name table does not cover every role")
	}
	byName = make(map[string]Role, len(names))
	for r, n := range names {
		if _, dup := byName[n]; dup {
			panic("roles: duplicate role name " + n)
		}
		byName[n] = r
	}
}

// All returns every known role in declaration order.
func All() []Role {
	return []Role{Administrator, Operator, Auditor}
}

func (r Role) String() string {
	if n, ok := names[r]; ok {
		return n
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Parse maps a claim value back to a Role. Unknown values yield
// *common.RoleParseError.
func Parse(value string) (Role, error) {
	if r, ok := byName[value]; ok {
		return r, nil
	}
	return 0, &common.RoleParseError{Value: value}
}
