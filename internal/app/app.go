// Package app provides the main application lifecycle management for the
// newsdesk service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moltnews/newsdesk/internal/api"
	"github.com/moltnews/newsdesk/internal/articles"
	"github.com/moltnews/newsdesk/internal/config"
	"github.com/moltnews/newsdesk/internal/leaderboard"
	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/queue"
	"github.com/moltnews/newsdesk/internal/storage"
	"github.com/moltnews/newsdesk/internal/telemetry"
)

const (
	// DefaultShutdownTimeout is the default timeout for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
	// redisPingTimeout bounds the startup connectivity check
	redisPingTimeout = 2 * time.Second
)

// App represents the newsdesk application with all its dependencies
type App struct {
	config      *config.Config
	logger      logger.Logger
	redisClient redis.UniversalClient
	backend     storage.Backend
	writes      *queue.FIFO
	server      *http.Server
	version     string
}

// Options contains configuration for creating a new App
type Options struct {
	ConfigPath string
	Version    string
}

// New creates a new App instance with all dependencies initialized. The
// storage backend is selected here, once per process: Redis when configured,
// the local file document otherwise.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", "newsdesk"),
		logger.String("version", opts.Version),
	)

	a := &App{
		config:  cfg,
		logger:  appLogger,
		version: opts.Version,
	}

	if err := a.selectBackend(); err != nil {
		_ = appLogger.Sync()
		return nil, err
	}

	a.writes = queue.NewFIFO()

	metrics := telemetry.New()
	repo := articles.NewRepository(a.backend, a.writes, metrics, appLogger)
	board := leaderboard.NewService(a.backend)

	handlers := api.NewHandlers(repo, board, appLogger, opts.Version, a.backend.Name())
	router := api.NewRouter(handlers, metrics, cfg)

	a.server = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return a, nil
}

// selectBackend picks the storage backend from configuration. The choice is
// never re-evaluated mid-request.
func (a *App) selectBackend() error {
	if a.config.RemoteConfigured() {
		client := redis.NewClient(&redis.Options{
			Addr:     a.config.Redis.URL,
			Password: a.config.Redis.Password,
			DB:       a.config.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}

		a.redisClient = client
		a.backend = storage.NewRedisStore(client, a.logger)
		a.logger.Info("Using Redis backend",
			logger.String("url", a.config.Redis.URL),
		)
		return nil
	}

	writable := !a.config.Storage.RequireRemote
	a.backend = storage.NewFileStore(a.config.Storage.DataFile, writable, a.logger)
	if writable {
		a.logger.Info("Using file backend",
			logger.String("data_file", a.config.Storage.DataFile),
		)
	} else {
		a.logger.Warn("No writable backend configured; mutations will be rejected",
			logger.String("data_file", a.config.Storage.DataFile),
		)
	}
	return nil
}

// Run starts the HTTP server and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server",
			logger.String("address", a.config.Server.Address),
			logger.String("backend", a.backend.Name()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		a.logger.Info("Shutting down gracefully",
			logger.String("signal", sig.String()),
		)
	case err := <-serverErr:
		a.logger.Error("Server error", logger.Error(err))
		runErr = err
	case <-ctx.Done():
		a.logger.Info("Shutting down: context canceled")
	}

	a.shutdownHTTPServer()
	a.writes.Close()

	a.logger.Info("Service stopped")
	return runErr
}

// shutdownHTTPServer gracefully shuts down the HTTP server
func (a *App) shutdownHTTPServer() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", logger.Error(err))
	} else {
		a.logger.Info("HTTP server stopped")
	}
}

// Close cleans up resources
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}
	return a.logger.Sync()
}

// Logger returns the application logger
func (a *App) Logger() logger.Logger {
	return a.logger
}
