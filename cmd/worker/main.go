package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"ogooue-feed/internal/config"
	"ogooue-feed/internal/handler/http/respond"
	pgRepo "ogooue-feed/internal/infra/adapter/persistence/postgres"
	"ogooue-feed/internal/infra/db"
	"ogooue-feed/internal/infra/dedupcache"
	"ogooue-feed/internal/infra/fetcher"
	redisQueue "ogooue-feed/internal/infra/queue"
	"ogooue-feed/internal/infra/scraper"
	workerPkg "ogooue-feed/internal/infra/worker"
	"ogooue-feed/internal/observability/logging"
	"ogooue-feed/internal/observability/slo"
	envcfg "ogooue-feed/internal/pkg/config"
	"ogooue-feed/internal/resilience/circuitbreaker"
	"ogooue-feed/internal/usecase/enrich"
	"ogooue-feed/internal/usecase/ingest"
)

const (
	dedupCacheTTL        = 15 * time.Minute
	dedupCacheMaxEntries = 10000
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("cycle_timeout", workerConfig.CycleTimeout),
		slog.Int("batch_size", workerConfig.BatchSize),
		slog.Int("feed_concurrency", workerConfig.FeedConcurrency),
		slog.Int("health_port", workerConfig.HealthPort))

	seedFeeds(ctx, logger, database)

	enrichQueue, redisQ := initEnrichQueue(ctx, logger)
	svc := setupIngestService(logger, database, enrichQueue, workerConfig)

	startMetricsServer(ctx, logger, redisQ)
	go db.ReportPoolStats(ctx, database, 15*time.Second)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	runCronWorker(ctx, logger, svc, workerConfig, workerMetrics, healthServer)
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
		logger.Error("migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// seedFeeds applies the feed seed file to the database. The file path comes
// from FEEDS_FILE (default feeds.yaml); a missing file is not an error so
// the worker can run against an already-seeded database.
func seedFeeds(ctx context.Context, logger *slog.Logger, database *sql.DB) {
	path := envcfg.LoadEnvString("FEEDS_FILE", "feeds.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("feeds file not found, skipping seed", slog.String("path", path))
		return
	}

	feeds, err := config.LoadFeeds(path)
	if err != nil {
		logger.Error("failed to load feeds file", slog.Any("error", err))
		os.Exit(1)
	}

	repo := pgRepo.NewFeedRepo(database)
	for _, feed := range feeds {
		if err := repo.Upsert(ctx, feed); err != nil {
			logger.Error("failed to register feed",
				slog.String("slug", feed.Slug),
				slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("feeds registered", slog.Int("count", len(feeds)), slog.String("path", path))
}

// initEnrichQueue connects the Redis-backed enrichment queue. When REDIS_ADDR
// is unset, enrichment is disabled and articles are ingested without jobs.
// The concrete queue is also returned for the queue health endpoint.
func initEnrichQueue(ctx context.Context, logger *slog.Logger) (enrich.Queue, *redisQueue.RedisQueue) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Info("REDIS_ADDR not set, enrichment queue disabled")
		return enrich.NoopQueue{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	q := redisQueue.NewRedisQueue(client, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := q.Ping(pingCtx); err != nil {
		logger.Error("redis not reachable", slog.String("addr", addr), slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("enrichment queue connected", slog.String("addr", addr))
	return q, q
}

// setupIngestService wires the ingestion service with all its dependencies.
func setupIngestService(logger *slog.Logger, database *sql.DB, queue enrich.Queue, cfg *workerPkg.WorkerConfig) *ingest.Service {
	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	feedRepo := pgRepo.NewFeedRepo(guarded)
	articleStore := dedupcache.New(pgRepo.NewArticleRepo(guarded), dedupCacheTTL, dedupCacheMaxEntries)

	httpClient := createHTTPClient()
	feedFetcher := scraper.NewRSSFetcher(httpClient)
	pageScraper := scraper.NewPageScraper(httpClient)
	normalizer := ingest.NewNormalizer(pageScraper, logger)

	var contentFetcher ingest.ContentFetcher
	contentFetchConfig, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load content fetch configuration", slog.Any("error", err))
		logger.Warn("content fetching disabled due to configuration error")
	} else if contentFetchConfig.Enabled {
		contentFetcher = fetcher.NewReadabilityFetcher(contentFetchConfig)
		logger.Info("content fetching enabled",
			slog.Duration("timeout", contentFetchConfig.Timeout),
			slog.Int64("max_body_size", contentFetchConfig.MaxBodySize))
	} else {
		logger.Info("content fetching disabled")
	}

	return ingest.NewService(
		feedRepo,
		articleStore,
		feedFetcher,
		contentFetcher,
		normalizer,
		queue,
		cfg.IngestConfig(),
		logger,
	)
}

// createHTTPClient creates the shared HTTP client for feed fetching and page
// scraping, with connection pooling and TLS 1.2+ enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// runCronWorker runs one cycle at startup, then schedules cycles with cron
// until the context is canceled.
func runCronWorker(ctx context.Context, logger *slog.Logger, svc *ingest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics, healthServer *workerPkg.HealthServer) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.CronSchedule, func() {
		runCycle(logger, svc, cfg, metrics)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	// initial cycle so a fresh deploy ingests immediately
	runCycle(logger, svc, cfg, metrics)

	<-ctx.Done()
	logger.Info("shutdown signal received")
	cronCtx := c.Stop()
	<-cronCtx.Done()
	logger.Info("worker stopped")
}

// runCycle executes a single ingestion cycle with timeout and metrics.
func runCycle(logger *slog.Logger, svc *ingest.Service, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) {
	startTime := time.Now()
	metrics.RecordCycleRun("started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CycleTimeout)
	defer cancel()

	stats, err := svc.RunCycle(ctx)
	if err != nil {
		logger.Error("ingestion cycle failed", slog.String("error", respond.SanitizeError(err)))
		metrics.RecordCycleRun("failure")
		metrics.RecordCycleDuration(time.Since(startTime).Seconds())
		return
	}
	if stats.Skipped {
		metrics.RecordCycleRun("skipped")
		return
	}

	duration := time.Since(startTime)
	metrics.RecordCycleRun("success")
	metrics.RecordCycleDuration(duration.Seconds())
	metrics.RecordFeedsProcessed(int(stats.FeedsProcessed.Load()))
	metrics.RecordLastSuccess()

	recordSLO(stats, duration)
}

// recordSLO derives the per-cycle SLO gauges from the cycle stats.
func recordSLO(stats *ingest.CycleStats, duration time.Duration) {
	fetchFailures := 0
	persistFailures := 0
	for _, cycleErr := range stats.Errors {
		switch cycleErr.Stage {
		case "fetch":
			fetchFailures++
		case "persist":
			persistFailures++
		}
	}
	itemsProcessed := int(stats.Ingested.Load()+stats.Duplicates.Load()) + persistFailures
	slo.RecordCycle(stats.FeedsDue, fetchFailures, itemsProcessed, persistFailures, duration.Seconds())
}
