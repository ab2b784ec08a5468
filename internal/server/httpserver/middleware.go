package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ndanilenko/claimgate/internal/common"
	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/auth"
	"github.com/ndanilenko/claimgate/internal/server/claims"
)

// Enricher is the minimal interface the middleware depends on.
type Enricher interface {
	BuildClaims(ctx context.Context, principal *claims.Principal) ([]claims.Claim, error)
}

// AuthMiddleware returns a gin middleware that verifies the bearer token,
// runs claim enrichment once for the request, and attaches the resulting
// enriched principal to the request context. Handlers behind it never see
// the external token claims, only the internally asserted set.
func AuthMiddleware(secretKey []byte, enricher Enricher, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		principal, err := auth.ParseToken(token, secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		enriched, err := enricher.BuildClaims(c.Request.Context(), principal)
		if err != nil {
			status := enrichmentStatus(err)
			if status == http.StatusInternalServerError {
				logger.Error(c.Request.Context(), "claim enrichment failed", "error", err)
			}
			c.AbortWithStatusJSON(status, gin.H{"error": enrichmentMessage(status)})
			return
		}

		ctx := claims.NewContext(c.Request.Context(), claims.NewEnrichedPrincipal(enriched))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// enrichmentStatus maps enrichment outcomes onto HTTP statuses. Identity
// resolution failures read as unauthenticated; a resolved identity without a
// usable account reads as forbidden.
func enrichmentStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrAuthenticationRequired),
		errors.Is(err, common.ErrAmbiguousExternalIdentity),
		errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrUserDisabled),
		errors.Is(err, common.ErrUserDeleted):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// enrichmentMessage keeps response bodies generic so account state is not
// disclosed to the caller.
func enrichmentMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "authentication failed"
	case http.StatusForbidden:
		return "access denied"
	default:
		return "internal error"
	}
}
