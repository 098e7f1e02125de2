// Package postgres provides PostgreSQL implementations of the repository
// interfaces used by the ingestion pipeline.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/repository"
)

// Querier is the subset of *sql.DB the repositories use. It is also
// satisfied by circuitbreaker.DBCircuitBreaker, letting callers shield
// the pool without the repositories knowing.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type FeedRepo struct {
	db Querier
}

func NewFeedRepo(db Querier) repository.FeedRepository {
	return &FeedRepo{db: db}
}

const feedColumns = `id, slug, name, feed_url, category, active, status,
fetch_interval_minutes, consecutive_errors, last_fetched_at, last_success_at,
COALESCE(last_error, ''), COALESCE(author_fallback, '')`

func scanFeed(row interface{ Scan(...any) error }) (*entity.Feed, error) {
	var feed entity.Feed
	err := row.Scan(&feed.ID, &feed.Slug, &feed.Name, &feed.FeedURL, &feed.Category,
		&feed.Active, &feed.Status, &feed.FetchIntervalMinutes, &feed.ConsecutiveErrors,
		&feed.LastFetchedAt, &feed.LastSuccessAt, &feed.LastError, &feed.AuthorFallback)
	if err != nil {
		return nil, err
	}
	return &feed, nil
}

func (repo *FeedRepo) Get(ctx context.Context, id int64) (*entity.Feed, error) {
	query := `
SELECT ` + feedColumns + `
FROM feeds
WHERE id = $1
LIMIT 1`
	feed, err := scanFeed(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return feed, nil
}

func (repo *FeedRepo) List(ctx context.Context) ([]*entity.Feed, error) {
	query := `
SELECT ` + feedColumns + `
FROM feeds
ORDER BY slug`
	return repo.queryFeeds(ctx, "List", query)
}

func (repo *FeedRepo) ListActive(ctx context.Context) ([]*entity.Feed, error) {
	query := `
SELECT ` + feedColumns + `
FROM feeds
WHERE active = TRUE AND status <> 'disabled'
ORDER BY slug`
	return repo.queryFeeds(ctx, "ListActive", query)
}

func (repo *FeedRepo) queryFeeds(ctx context.Context, op, query string) ([]*entity.Feed, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	feeds := make([]*entity.Feed, 0, 32)
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}

// Upsert registers a feed by slug, updating its configuration fields when the
// slug already exists. Health fields are deliberately left untouched so a
// redeploy never resets error counts or re-enables a disabled feed.
func (repo *FeedRepo) Upsert(ctx context.Context, feed *entity.Feed) error {
	const query = `
INSERT INTO feeds (slug, name, feed_url, category, active, status,
	fetch_interval_minutes, consecutive_errors, author_fallback)
VALUES ($1, $2, $3, $4, $5, 'active', $6, 0, $7)
ON CONFLICT (slug) DO UPDATE SET
	name = EXCLUDED.name,
	feed_url = EXCLUDED.feed_url,
	category = EXCLUDED.category,
	active = EXCLUDED.active,
	fetch_interval_minutes = EXCLUDED.fetch_interval_minutes,
	author_fallback = EXCLUDED.author_fallback
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		feed.Slug, feed.Name, feed.FeedURL, feed.Category, feed.Active,
		feed.FetchIntervalMinutes, feed.AuthorFallback,
	).Scan(&feed.ID)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

// RecordSuccess resets the error count and marks the feed healthy in a single
// statement. Disabled feeds are excluded; they are never fetched, so a
// success report for one indicates a stale caller.
func (repo *FeedRepo) RecordSuccess(ctx context.Context, id int64, at time.Time) error {
	const query = `
UPDATE feeds
SET consecutive_errors = 0,
	status = 'active',
	last_error = '',
	last_fetched_at = $2,
	last_success_at = $2
WHERE id = $1 AND status <> 'disabled'`
	if _, err := repo.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("RecordSuccess: %w", err)
	}
	return nil
}

// RecordFailure applies the increment-and-maybe-disable transition as one
// conditional UPDATE, so concurrent reporters cannot double-count or revive a
// disabled feed. The committed error count and status are returned.
func (repo *FeedRepo) RecordFailure(ctx context.Context, id int64, message string, at time.Time) (repository.HealthUpdate, error) {
	const query = `
UPDATE feeds
SET consecutive_errors = consecutive_errors + 1,
	last_error = $2,
	last_fetched_at = $3,
	status = CASE
		WHEN status = 'disabled' THEN status
		WHEN consecutive_errors + 1 >= $4 THEN 'disabled'
		ELSE 'error'
	END
WHERE id = $1
RETURNING consecutive_errors, status`
	var update repository.HealthUpdate
	err := repo.db.QueryRowContext(ctx, query, id, message, at, entity.DisableThreshold).
		Scan(&update.ConsecutiveErrors, &update.Status)
	if err == sql.ErrNoRows {
		return repository.HealthUpdate{}, fmt.Errorf("RecordFailure: %w", entity.ErrNotFound)
	}
	if err != nil {
		return repository.HealthUpdate{}, fmt.Errorf("RecordFailure: %w", err)
	}
	return update, nil
}

func (repo *FeedRepo) Reactivate(ctx context.Context, id int64) error {
	const query = `
UPDATE feeds
SET status = 'active',
	active = TRUE,
	consecutive_errors = 0,
	last_error = ''
WHERE id = $1`
	result, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Reactivate: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Reactivate: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}
