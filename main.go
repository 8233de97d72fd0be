package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/snippet-board/internal/config"
	"github.com/msomdec/snippet-board/internal/domain"
	"github.com/msomdec/snippet-board/internal/handler"
	"github.com/msomdec/snippet-board/internal/repository/postgres"
	"github.com/msomdec/snippet-board/internal/repository/sqlite"
	"github.com/msomdec/snippet-board/internal/service"
	"github.com/msomdec/snippet-board/internal/session"
)

// storage is the opened database and the repositories it backs.
type storage struct {
	db       domain.Database
	users    domain.UserRepository
	snippets domain.SnippetRepository
	sessions domain.SessionStore
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer store.db.Close()

	if err := store.db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "driver", cfg.DatabaseDriver)

	sessionStore := store.sessions
	if cfg.SessionStore == config.SessionStoreBadger {
		bs, err := session.OpenBadger(cfg.SessionDir, logger.With("component", "badger"))
		if err != nil {
			slog.Error("failed to open session store", "error", err)
			os.Exit(1)
		}
		defer bs.Close()
		sessionStore = bs
	}

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	go sessions.RunJanitor(ctx, 10*time.Minute)

	authService := service.NewAuthService(store.users, cfg.BcryptCost)
	snippetService := service.NewSnippetService(store.snippets)
	loginLimiter := service.NewTokenBucket(ctx, cfg.LoginRate, cfg.LoginBurst)

	metrics := handler.NewMetrics()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, store.db, authService, snippetService, loginLimiter)
	mux.Handle("GET /metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Wrap(mux, sessions, metrics),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &storage{db: db, users: db.Users(), snippets: db.Snippets(), sessions: db.Sessions()}, nil
	default:
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return &storage{db: db, users: db.Users(), snippets: db.Snippets(), sessions: db.Sessions()}, nil
	}
}
