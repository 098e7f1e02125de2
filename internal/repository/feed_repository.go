package repository

import (
	"context"
	"time"

	"ogooue-feed/internal/domain/entity"
)

// HealthUpdate is the outcome of a feed status update, as applied by the store.
// The store performs the increment-and-disable logic in a single conditional
// statement, so the returned values reflect the committed row even when
// concurrent updates race.
type HealthUpdate struct {
	ConsecutiveErrors int
	Status            entity.FeedStatus
}

type FeedRepository interface {
	Get(ctx context.Context, id int64) (*entity.Feed, error)
	List(ctx context.Context) ([]*entity.Feed, error)
	// ListActive retrieves feeds that are administratively active and not
	// auto-disabled. Due-ness (fetch interval, error backoff) is evaluated
	// by the orchestrator, not the store.
	ListActive(ctx context.Context) ([]*entity.Feed, error)
	// Upsert inserts a feed or updates its configuration fields by slug.
	// Health fields (status, error count, timestamps) are never touched by
	// Upsert; they belong to RecordSuccess/RecordFailure.
	Upsert(ctx context.Context, feed *entity.Feed) error
	// RecordSuccess resets the consecutive error count, marks the feed
	// active, and records the fetch and success timestamps. Applied as a
	// single atomic update.
	RecordSuccess(ctx context.Context, id int64, at time.Time) error
	// RecordFailure increments the consecutive error count, records the
	// error message and fetch timestamp, and transitions the feed to
	// disabled once the threshold is reached. Applied as a single atomic
	// conditional update so overlapping attempts never double-count.
	RecordFailure(ctx context.Context, id int64, message string, at time.Time) (HealthUpdate, error)
	// Reactivate moves a disabled feed back to active with a clean error
	// count. This is the administrative path, never called by the pipeline.
	Reactivate(ctx context.Context, id int64) error
}
