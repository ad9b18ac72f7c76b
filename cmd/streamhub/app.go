package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/streamhub/internal/db"
	"github.com/nkiryanov/streamhub/internal/handlers"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/metrics"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/repository"
	"github.com/nkiryanov/streamhub/internal/repository/memory"
	"github.com/nkiryanov/streamhub/internal/repository/postgres"
	"github.com/nkiryanov/streamhub/internal/service/account"
	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/streamhub/internal/service/catalog"
)

const shutdownTimeout = 5 * time.Second

// Demo accounts created with --seed-demo
var demoAccounts = []auth.RegisterParams{
	{Email: "admin@example.com", Password: "admin123", Name: "Demo Admin", Role: string(models.RoleAdmin)},
	{Email: "user@example.com", Password: "user123", Name: "Demo User", Role: string(models.RoleViewer)},
}

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	close  func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations, or keep everything in memory
	storage, closeStorage, err := newStorage(ctx, c.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}

	app, err := newServerApp(ctx, c, storage, log)
	if err != nil {
		closeStorage()
		return nil, err
	}
	app.close = closeStorage

	return app, nil
}

func newStorage(ctx context.Context, dsn string, log logger.Logger) (repository.Storage, func(), error) {
	if dsn == "" {
		log.Warn("database is not configured, data is kept in memory and lost on restart")
		return memory.NewStorage(), func() {}, nil
	}

	pool, err := db.ConnectAndMigrate(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	return postgres.NewStorage(pool), pool.Close, nil
}

func newServerApp(ctx context.Context, c *Config, storage repository.Storage, log logger.Logger) (*ServerApp, error) {
	m := metrics.New()

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error while creating password hasher. Err: %w", err)
	}

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{Hasher: hasher, Logger: log, Observer: m}, tokenManager, storage.Account())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	catalogService := catalog.NewService(storage.Video())

	if c.SeedDemo {
		for _, params := range demoAccounts {
			a, created, err := authService.SeedAccount(ctx, params)
			if err != nil {
				return nil, fmt.Errorf("error while seeding demo account %s. Err: %w", params.Email, err)
			}
			log.Info("demo account", "email", a.Email, "role", a.Role, "created", created)
		}
	}

	router, err := handlers.NewRouter(
		handlers.Config{
			APIs:               c.APIs,
			AuthRateLimit:      c.AuthRateLimit,
			CORSAllowedOrigins: c.CORSAllowedOrigins,
		},
		handlers.Services{
			Auth:     authService,
			Accounts: account.NewService(hasher, storage.Account()),
			Videos:   catalogService,
			Catalog:  catalogService,
		},
		m,
		log,
	)
	if err != nil {
		return nil, err
	}

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		logger:     log,
		close:      func() {},
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}

// Close releases storage connections
func (s *ServerApp) Close() {
	s.close()
}
