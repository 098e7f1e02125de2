package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	pgRepo "ogooue-feed/internal/infra/adapter/persistence/postgres"
	"ogooue-feed/internal/infra/db"

	hhttp "ogooue-feed/internal/handler/http"
	hfeed "ogooue-feed/internal/handler/http/feed"
	"ogooue-feed/internal/handler/http/requestid"
	"ogooue-feed/internal/observability/logging"
	"ogooue-feed/internal/observability/tracing"
	"ogooue-feed/internal/resilience/circuitbreaker"
	feedsUC "ogooue-feed/internal/usecase/feeds"
)

const requestTimeout = 15 * time.Second

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := getVersion()
	handler := setupServer(logger, database, version)

	runServer(logger, handler, version)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and applies the schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer configures the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	feedSvc := &feedsUC.Service{Repo: pgRepo.NewFeedRepo(guarded), Logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("/ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("/live", &hhttp.LiveHandler{})
	mux.Handle("/metrics", hhttp.MetricsHandler())
	hfeed.Register(mux, feedSvc)

	// innermost to outermost: metrics, body limit, timeout, logging,
	// recovery, request ID, tracing
	chain := http.Handler(mux)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Timeout(requestTimeout)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = tracing.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
