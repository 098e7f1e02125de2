package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/observability/metrics"
	"ogooue-feed/internal/repository"
)

// HealthTracker records fetch outcomes against feed health state. State
// transitions happen in the database in a single conditional update, so
// concurrent trackers cannot double-count failures.
type HealthTracker struct {
	feeds  repository.FeedRepository
	logger *slog.Logger
}

func NewHealthTracker(feeds repository.FeedRepository, logger *slog.Logger) *HealthTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthTracker{feeds: feeds, logger: logger}
}

// Success resets the feed's consecutive error count and marks it active.
// Disabled feeds are left untouched; they only return via explicit
// reactivation.
func (t *HealthTracker) Success(ctx context.Context, feed *entity.Feed, at time.Time) error {
	if err := t.feeds.RecordSuccess(ctx, feed.ID, at); err != nil {
		return fmt.Errorf("record success for feed %q: %w", feed.Slug, err)
	}
	return nil
}

// Failure increments the feed's consecutive error count and returns the
// resulting status. Crossing the disable threshold flips the feed to
// disabled, which removes it from future cycles.
func (t *HealthTracker) Failure(ctx context.Context, feed *entity.Feed, cause error, at time.Time) (entity.FeedStatus, error) {
	update, err := t.feeds.RecordFailure(ctx, feed.ID, cause.Error(), at)
	if err != nil {
		return "", fmt.Errorf("record failure for feed %q: %w", feed.Slug, err)
	}
	if update.Status == entity.FeedStatusDisabled && feed.Status != entity.FeedStatusDisabled {
		metrics.RecordFeedDisabled(feed.Slug)
		t.logger.Warn("feed auto-disabled after repeated failures",
			slog.String("feed", feed.Slug),
			slog.Int("consecutive_errors", update.ConsecutiveErrors),
			slog.String("last_error", cause.Error()),
		)
	}
	return update.Status, nil
}
