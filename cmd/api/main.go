package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/userlist/internal/config"
	"github.com/crucial707/userlist/internal/db"
	"github.com/crucial707/userlist/internal/handlers"
	"github.com/crucial707/userlist/internal/middleware"
	"github.com/crucial707/userlist/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Open(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer database.Close()

	slog.Info("connected to the database", "driver", cfg.DBDriver)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server LAST
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", cfg.Port, "tls", cfg.TLSEnabled())
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "err", err)
		}
	}
}

// newRouter wires the middleware chain and the user routes around a store handle.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	userHandler := &handlers.UserHandler{
		Repo:        repo.NewUserRepo(database),
		RequireName: cfg.RequireName,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Get("/users", userHandler.ListUsers)
	r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).Post("/users", userHandler.CreateUser)

	return r
}

// setupLogger installs the default slog logger; format is "json" or "text".
func setupLogger(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
