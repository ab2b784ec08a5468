// Package server initializes and runs the claim enrichment service. It wires
// configuration, storage, the cache invalidation port, and the HTTP server,
// and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ndanilenko/claimgate/internal/logging"
	"github.com/ndanilenko/claimgate/internal/server/cache"
	"github.com/ndanilenko/claimgate/internal/server/config"
	"github.com/ndanilenko/claimgate/internal/server/httpserver"
	"github.com/ndanilenko/claimgate/internal/server/repositories/repomanager"
	"github.com/ndanilenko/claimgate/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	enricher *services.EnrichmentService
	authz    *services.AuthorizationService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	invalidator := newInvalidator(cfg)

	bootstrapper := services.NewBootstrapper(db, rm, invalidator, cfg, logger)
	enricher := services.NewEnrichmentService(db, rm, bootstrapper, logger)
	authz := services.NewAuthorizationService()

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		enricher: enricher,
		authz:    authz,
	}, nil
}

// newInvalidator returns the redis-backed invalidator when a redis address
// is configured, otherwise a no-op for cacheless deployments.
func newInvalidator(cfg *config.Config) cache.Invalidator {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return cache.NewRedisInvalidator(client)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewServer(app.config, app.enricher, app.authz, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
