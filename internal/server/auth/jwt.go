package auth

import (
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/server/claims"
)

// registered claims that carry token mechanics, not identity attributes.
var registeredClaims = map[string]bool{
	"iss": true,
	"sub": true,
	"aud": true,
	"exp": true,
	"nbf": true,
	"iat": true,
	"jti": true,
}

// ParseToken validates an HS256 bearer token and converts its payload into
// an authenticated Principal. Every identity attribute becomes one claim
// tagged with the token's issuer; array-valued attributes fan out into one
// claim per element. Any validation failure maps to common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*claims.Principal, error) {
	mapClaims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, mapClaims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	issuer, _ := mapClaims["iss"].(string)

	// Sorted keys keep claim order stable across parses.
	keys := make([]string, 0, len(mapClaims))
	for k := range mapClaims {
		if registeredClaims[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	principal := &claims.Principal{Authenticated: true}
	for _, k := range keys {
		switch v := mapClaims[k].(type) {
		case string:
			principal.Claims = append(principal.Claims, claims.Claim{Type: k, Value: v, Issuer: issuer})
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					principal.Claims = append(principal.Claims, claims.Claim{Type: k, Value: s, Issuer: issuer})
				}
			}
		}
	}

	return principal, nil
}

// GenerateToken signs an HS256 token carrying the given identity attributes.
// Used by the development token endpoint and by tests.
func GenerateToken(attributes map[string]any, issuer string, secretKey []byte, validity time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{
		"iss": issuer,
		"exp": jwt.NewNumericDate(time.Now().Add(validity)),
	}
	for k, v := range attributes {
		mapClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
