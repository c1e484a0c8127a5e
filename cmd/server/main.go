package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shoppingify/internal/api"
	"shoppingify/internal/config"
	"shoppingify/internal/database"
	"shoppingify/internal/handlers"
	"shoppingify/internal/logging"
	"shoppingify/internal/store"
	"shoppingify/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, envFileLoaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !envFileLoaded {
		logger.Info("no .env file found, using environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("shutdown with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	users, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := websocket.NewHub(logger, cfg.CORS.AllowedOrigins)
	router := api.SetupRouter(cfg, users, hub, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.Environment))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// openStore connects to the configured database, applies migrations and
// returns the matching repository.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (handlers.UserRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
		return store.NewPostgresStore(db), db.Close, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigrateSQLite(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("opened sqlite database", zap.String("path", cfg.SQLitePath))
		return store.NewSQLiteStore(db), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
