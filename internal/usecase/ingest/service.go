package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/observability/metrics"
	"ogooue-feed/internal/observability/tracing"
	"ogooue-feed/internal/pkg/identity"
	"ogooue-feed/internal/repository"
	"ogooue-feed/internal/usecase/enrich"
)

const (
	// DefaultBatchSize caps how many items of one feed a single cycle
	// persists. Backlogs drain over successive cycles instead of flooding
	// the feed with stale entries.
	DefaultBatchSize = 10

	// DefaultPacing is the minimum gap between feed fetch starts, keeping
	// the crawler polite toward the small set of hosts it visits.
	DefaultPacing = 1500 * time.Millisecond

	DefaultFeedConcurrency = 4

	// DefaultContentThreshold is the feed content length below which the
	// article's own page is fetched for fuller text.
	DefaultContentThreshold = 600
)

// Config tunes an ingestion Service. Zero values fall back to the defaults
// above.
type Config struct {
	BatchSize        int
	Pacing           time.Duration
	FeedConcurrency  int
	ContentThreshold int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Pacing <= 0 {
		c.Pacing = DefaultPacing
	}
	if c.FeedConcurrency <= 0 {
		c.FeedConcurrency = DefaultFeedConcurrency
	}
	if c.ContentThreshold <= 0 {
		c.ContentThreshold = DefaultContentThreshold
	}
	return c
}

// CycleError records one failure inside a cycle, attributed to a feed and a
// pipeline stage.
type CycleError struct {
	FeedSlug string
	Stage    string // fetch, persist, enqueue, health
	Err      error
}

func (e CycleError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.FeedSlug, e.Stage, e.Err)
}

// CycleStats summarizes one ingestion cycle.
type CycleStats struct {
	Skipped        bool // a previous cycle was still running
	FeedsDue       int
	FeedsProcessed atomic.Int64
	Ingested       atomic.Int64
	Duplicates     atomic.Int64
	Duration       time.Duration

	mu     sync.Mutex
	Errors []CycleError
}

func (s *CycleStats) addError(feedSlug, stage string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, CycleError{FeedSlug: feedSlug, Stage: stage, Err: err})
}

// ErrorCount returns the number of per-feed failures recorded in the cycle.
func (s *CycleStats) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Errors)
}

// Service orchestrates ingestion cycles. One cycle fetches every due feed,
// normalizes and deduplicates its items, persists the new ones, and hands
// them to the enrichment queue. A feed's failure never aborts the cycle.
type Service struct {
	feeds      repository.FeedRepository
	articles   repository.ArticleStore
	fetcher    FeedFetcher
	content    ContentFetcher // optional, may be nil
	normalizer *Normalizer
	health     *HealthTracker
	queue      enrich.Queue
	cfg        Config
	logger     *slog.Logger

	limiter *rate.Limiter
	running atomic.Bool
	clock   func() time.Time
}

// NewService wires an ingestion Service. content may be nil to disable page
// content enhancement, and queue may be enrich.NoopQueue{} when no
// enrichment backend is configured.
func NewService(
	feeds repository.FeedRepository,
	articles repository.ArticleStore,
	fetcher FeedFetcher,
	content ContentFetcher,
	normalizer *Normalizer,
	queue enrich.Queue,
	cfg Config,
	logger *slog.Logger,
) *Service {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	if queue == nil {
		queue = enrich.NoopQueue{}
	}
	return &Service{
		feeds:      feeds,
		articles:   articles,
		fetcher:    fetcher,
		content:    content,
		normalizer: normalizer,
		health:     NewHealthTracker(feeds, logger),
		queue:      queue,
		cfg:        cfg,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Every(cfg.Pacing), 1),
		clock:      time.Now,
	}
}

// RunCycle executes one ingestion cycle. If a previous cycle is still in
// flight the call returns immediately with Skipped set; overlapping cycles
// are refused rather than queued. The returned error covers only failures
// that prevent the cycle from running at all — per-feed failures are
// collected in the stats.
func (s *Service) RunCycle(ctx context.Context) (*CycleStats, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("ingestion cycle still running, skipping this trigger")
		metrics.RecordCycleSkipped()
		return &CycleStats{Skipped: true}, nil
	}
	defer s.running.Store(false)

	ctx, span := tracing.GetTracer().Start(ctx, "ingest.cycle")
	defer span.End()

	start := s.clock()
	stats := &CycleStats{}

	feeds, err := s.feeds.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active feeds: %w", err)
	}

	due := make([]*entity.Feed, 0, len(feeds))
	for _, feed := range feeds {
		if feed.DueAt(start) {
			due = append(due, feed)
		}
	}
	stats.FeedsDue = len(due)
	span.SetAttributes(attribute.Int("feeds.due", len(due)))

	s.logger.Info("ingestion cycle started",
		slog.Int("feeds_active", len(feeds)),
		slog.Int("feeds_due", len(due)),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.FeedConcurrency)
	for _, feed := range due {
		eg.Go(func() error {
			if err := s.limiter.Wait(egCtx); err != nil {
				return err
			}
			s.processFeed(egCtx, feed, stats)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// Only context cancellation escapes the workers.
		s.logger.Warn("ingestion cycle interrupted", slog.Any("error", err))
	}

	stats.Duration = s.clock().Sub(start)
	metrics.RecordCycleCompleted(stats.Duration)
	s.logger.Info("ingestion cycle finished",
		slog.Int64("feeds_processed", stats.FeedsProcessed.Load()),
		slog.Int64("articles_ingested", stats.Ingested.Load()),
		slog.Int64("duplicates", stats.Duplicates.Load()),
		slog.Int("errors", stats.ErrorCount()),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// processFeed runs the full pipeline for one feed. All failure paths are
// absorbed into stats and feed health; nothing propagates.
func (s *Service) processFeed(ctx context.Context, feed *entity.Feed, stats *CycleStats) {
	ctx, span := tracing.GetTracer().Start(ctx, "ingest.feed",
		trace.WithAttributes(attribute.String("feed.slug", feed.Slug)))
	defer span.End()

	defer stats.FeedsProcessed.Add(1)

	fetchStart := s.clock()
	result, err := s.fetcher.Fetch(ctx, feed.FeedURL)
	metrics.RecordFeedFetch(feed.Slug, s.clock().Sub(fetchStart))
	if err != nil {
		s.recordFetchFailure(ctx, feed, err, stats)
		return
	}

	items := result.Items
	if len(items) > s.cfg.BatchSize {
		items = items[:s.cfg.BatchSize]
	}

	now := s.clock()
	for _, item := range items {
		item.Content = s.enhanceContent(ctx, item)

		article := s.normalizer.Normalize(ctx, feed, item, now)
		if article.Title == "" || article.URL == "" {
			s.logger.Debug("skipping item without title or link", slog.String("feed", feed.Slug))
			continue
		}
		article.IdentityHash = identity.Compute(article.Title, article.URL, feed.Slug)
		article.CreatedAt = s.clock()

		res, err := s.articles.InsertIfAbsent(ctx, article)
		if err != nil {
			stats.addError(feed.Slug, "persist", err)
			s.logger.Error("persist article failed",
				slog.String("feed", feed.Slug),
				slog.String("url", article.URL),
				slog.Any("error", err),
			)
			continue
		}
		if !res.Inserted {
			stats.Duplicates.Add(1)
			metrics.RecordArticleDuplicated(feed.Slug)
			continue
		}
		stats.Ingested.Add(1)
		metrics.RecordArticleIngested(feed.Slug)

		job := enrich.NewJob(res.Article, feed, s.clock())
		if err := s.queue.Enqueue(ctx, job, enrich.PriorityFor(res.Article.Category)); err != nil {
			// The article is already persisted; losing the job only delays
			// enrichment until a backfill.
			stats.addError(feed.Slug, "enqueue", err)
			metrics.RecordEnrichmentEnqueued(false)
			s.logger.Warn("enqueue enrichment job failed",
				slog.String("feed", feed.Slug),
				slog.Int64("article_id", res.Article.ID),
				slog.Any("error", err),
			)
		} else {
			metrics.RecordEnrichmentEnqueued(true)
		}
	}

	if err := s.health.Success(ctx, feed, s.clock()); err != nil {
		stats.addError(feed.Slug, "health", err)
		s.logger.Error("record feed success failed", slog.String("feed", feed.Slug), slog.Any("error", err))
	}
}

func (s *Service) recordFetchFailure(ctx context.Context, feed *entity.Feed, cause error, stats *CycleStats) {
	stats.addError(feed.Slug, "fetch", cause)
	metrics.RecordFeedFetchError(feed.Slug, fetchErrorType(cause))
	s.logger.Warn("feed fetch failed",
		slog.String("feed", feed.Slug),
		slog.String("url", feed.FeedURL),
		slog.Any("error", cause),
	)
	if _, err := s.health.Failure(ctx, feed, cause, s.clock()); err != nil {
		stats.addError(feed.Slug, "health", err)
		s.logger.Error("record feed failure failed", slog.String("feed", feed.Slug), slog.Any("error", err))
	}
}

// enhanceContent swaps thin feed content for the article page's readable
// text. A fetch failure keeps the original content.
func (s *Service) enhanceContent(ctx context.Context, item RawItem) string {
	current := item.Content
	if current == "" {
		current = item.Description
	}
	if s.content == nil || item.Link == "" {
		return current
	}
	if len(current) >= s.cfg.ContentThreshold {
		metrics.RecordContentFetchSkipped()
		return current
	}
	start := s.clock()
	full, err := s.content.FetchContent(ctx, item.Link)
	if err != nil {
		metrics.RecordContentFetchFailed(s.clock().Sub(start))
		s.logger.Debug("content fetch failed, keeping feed content",
			slog.String("url", item.Link), slog.Any("error", err))
		return current
	}
	metrics.RecordContentFetchSuccess(s.clock().Sub(start))
	if len(full) <= len(current) {
		return current
	}
	return full
}

func fetchErrorType(err error) string {
	var fe *FetchError
	var pe *ParseError
	switch {
	case errors.As(err, &fe):
		return "fetch"
	case errors.As(err, &pe):
		return "parse"
	default:
		return "other"
	}
}
