// Package httpserver hosts the public HTTP surface: the enrichment
// middleware, the identity endpoints, and the liveness probe.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/config"
	"github.com/ndanilenko/claimgate/internal/server/services"
)

type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	logger logging.Logger
}

func NewServer(cfg *config.Config, enricher Enricher, authz *services.AuthorizationService, logger logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := NewHandler(authz, []byte(cfg.SecretKey), cfg.TokenValidity, logger)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/dev/token", handler.DevToken)

	api := engine.Group("/api", AuthMiddleware([]byte(cfg.SecretKey), enricher, logger))
	api.GET("/me", handler.Me)

	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger.With("module", "httpserver"),
	}
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.EndpointAddrHTTP, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
