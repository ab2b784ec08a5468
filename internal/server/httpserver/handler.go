package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/auth"
	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/services"
)

// Handler holds the request handlers behind the enrichment middleware.
type Handler struct {
	authz         *services.AuthorizationService
	secretKey     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

func NewHandler(authz *services.AuthorizationService, secretKey []byte, tokenValidity time.Duration, logger logging.Logger) *Handler {
	return &Handler{
		authz:         authz,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		logger:        logger.With("module", "httpserver"),
	}
}

// Me reports the caller's asserted identity: the internal user id and the
// role names, in stored assignment order.
func (h *Handler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := claims.FromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}
	userID, _ := principal.UserID()

	current, err := h.authz.CurrentRoles(ctx)
	if err != nil {
		h.logger.Error(ctx, "role lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	names := make([]string, 0, len(current))
	for _, role := range current {
		names = append(names, role.String())
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "roles": names})
}

// devIssuer marks tokens minted locally for development and testing.
const devIssuer = "https://dev.claimgate.local"

// DevToken mints a signed HS256 token from the posted identity attributes.
// It stands in for a real identity provider in development environments.
func (h *Handler) DevToken(c *gin.Context) {
	var attributes map[string]any
	if err := c.ShouldBindJSON(&attributes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := auth.GenerateToken(attributes, devIssuer, h.secretKey, h.tokenValidity)
	if err != nil {
		h.logger.Error(c.Request.Context(), "token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
