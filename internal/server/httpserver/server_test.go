package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndanilenko/claimgate/internal/server/claims"
	"github.com/ndanilenko/claimgate/internal/server/config"
	"github.com/ndanilenko/claimgate/internal/server/services"
	"github.com/stretchr/testify/require"
)

func newTestServer(enricher Enricher) *Server {
	cfg := &config.Config{
		SecretKey:     string(testSecret),
		TokenValidity: time.Hour,
	}
	return NewServer(cfg, enricher, services.NewAuthorizationService(), testLogger())
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(&fakeEnricher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
}

func TestServer_Me(t *testing.T) {
	enricher := &fakeEnricher{out: []claims.Claim{
		claims.Internal(claims.TypeUserID, "u-1"),
		claims.Internal(claims.TypeRole, "Auditor"),
		claims.Internal(claims.TypeRole, "Administrator"),
	}}
	s := newTestServer(enricher)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+devToken(t, map[string]any{"oid": "abc-123"}))
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"user_id":"u-1","roles":["Auditor","Administrator"]}`, rw.Body.String())
}

func TestServer_Me_Unauthenticated(t *testing.T) {
	s := newTestServer(&fakeEnricher{})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestServer_DevTokenRoundTrip(t *testing.T) {
	enricher := &fakeEnricher{out: []claims.Claim{
		claims.Internal(claims.TypeUserID, "u-1"),
	}}
	s := newTestServer(enricher)

	body := strings.NewReader(`{"oid":"abc-123","upn":"alice@corp.com","name":"Alice"}`)
	req := httptest.NewRequest(http.MethodPost, "/dev/token", body)
	req.Header.Set("Content-Type", "application/json")
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rw = httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusOK, rw.Code)

	require.Equal(t, "abc-123", enricher.seen.FindFirst(claims.TypeExternalID))
}

func TestServer_DevToken_BadBody(t *testing.T) {
	s := newTestServer(&fakeEnricher{})

	req := httptest.NewRequest(http.MethodPost, "/dev/token", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	rw := httptest.NewRecorder()
	s.Handler().ServeHTTP(rw, req)

	require.Equal(t, http.StatusBadRequest, rw.Code)
}
