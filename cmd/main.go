// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/config"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/database"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/handler"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/service"
)

func main() {
	var (
		configPath string
		port       string
		backend    string
	)
	pflag.StringVar(&configPath, "config", os.Getenv("BOOKING_CONFIG"), "path to a YAML config file")
	pflag.StringVar(&port, "port", "", "listen port (overrides config)")
	pflag.StringVar(&backend, "storage", "", "storage backend: memory, file, sqlite, postgres, redis, mongo")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if port != "" {
		cfg.Port = port
	}
	if backend != "" {
		cfg.Storage.Backend = backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// ── 1. Open durable storage ─────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()
	logger.Info("storage ready", "backend", cfg.Storage.Backend)

	events, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	// ── 2. Wire up layers ───────────────────────────────────────────────
	accounts := service.NewAccountStore(repository.NewAccountRepository(store), cfg.Auth.BcryptCost, logger)
	bookings := service.NewBookingStore(
		repository.NewBookingRepository(store),
		accounts,
		service.NewLogNotifier(logger.With("component", "notifications")),
		logger,
	)

	// Malformed state must not take the service down; the stores come up
	// empty instead.
	if err := accounts.Restore(ctx); err != nil {
		logger.Error("session not restored", "error", err)
	}
	if err := bookings.Restore(ctx); err != nil {
		logger.Error("bookings not restored", "error", err)
	}

	h := handler.New(service.NewEventService(events), accounts, bookings, logger)

	// ── 3. Start server with graceful shutdown ──────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler.NewRouter(h, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", "http://localhost:"+cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// openStore returns the configured backend and a function releasing it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.Store, func(), error) {
	sc := cfg.Storage
	closer := func(s repository.Store) func() {
		return func() {
			if err := repository.Close(s); err != nil {
				logger.Error("closing storage", "error", err)
			}
		}
	}

	switch sc.Backend {
	case config.BackendMemory:
		s := repository.NewMemoryStore()
		return s, func() {}, nil

	case config.BackendFile:
		s := repository.NewFileStore(sc.File)
		return s, func() {}, nil

	case config.BackendSQLite:
		s, err := repository.OpenSQLite(sc.SQLite, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s), nil

	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, sc.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		s, err := repository.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, closePool(pool), nil

	case config.BackendRedis:
		client, err := repository.NewRedisClient(ctx, sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		s := repository.NewRedisStore(client, sc.Redis.Prefix)
		return s, closer(s), nil

	case config.BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := repository.ConnectMongo(connectCtx, sc.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}
		s := repository.NewMongoStore(client.Database(sc.Mongo.Database).Collection(sc.Mongo.Collection))
		return s, closer(s), nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
}

func closePool(pool *pgxpool.Pool) func() {
	return func() { pool.Close() }
}

func loadCatalog(path string) (*repository.EventRepository, error) {
	if path == "" {
		return repository.NewEventRepository()
	}
	return repository.LoadEventRepository(path)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
