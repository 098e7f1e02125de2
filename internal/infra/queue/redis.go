// Package queue provides the Redis-backed enrichment queue. Jobs are
// pushed onto priority lists that the enrichment workers drain with BRPOP.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ogooue-feed/internal/resilience/retry"
	"ogooue-feed/internal/usecase/enrich"
)

const (
	normalKey = "enrich:jobs:normal"
	highKey   = "enrich:jobs:high"

	// Jobs older than this are useless to enrich; the TTL keeps an
	// abandoned queue from growing without bound.
	queueTTL = 72 * time.Hour
)

// RedisQueue implements enrich.Queue on a Redis list per priority.
type RedisQueue struct {
	client      redis.UniversalClient
	retryConfig retry.Config
	logger      *slog.Logger
}

// NewRedisQueue wraps an existing Redis client. The queue does not own the
// client; closing it is the caller's responsibility.
func NewRedisQueue(client redis.UniversalClient, logger *slog.Logger) *RedisQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisQueue{
		client:      client,
		retryConfig: retry.QueueConfig(),
		logger:      logger,
	}
}

// Enqueue pushes a job onto the list for its priority. Transient Redis
// failures are retried briefly; a persistent failure is returned to the
// caller, who treats the job as lost rather than failing the article.
func (q *RedisQueue) Enqueue(ctx context.Context, job enrich.Job, priority enrich.Priority) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal enrichment job %s: %w", job.ID, err)
	}

	key := normalKey
	if priority == enrich.PriorityHigh {
		key = highKey
	}

	err = retry.WithBackoff(ctx, q.retryConfig, func() error {
		pipe := q.client.TxPipeline()
		pipe.LPush(ctx, key, payload)
		pipe.Expire(ctx, key, queueTTL)
		_, pipeErr := pipe.Exec(ctx)
		return pipeErr
	})
	if err != nil {
		return fmt.Errorf("enqueue enrichment job %s: %w", job.ID, err)
	}

	q.logger.Debug("enrichment job enqueued",
		slog.String("job_id", job.ID),
		slog.Int64("article_id", job.ArticleID),
		slog.String("priority", string(priority)),
	)
	return nil
}

// Depth returns the number of pending jobs for a priority, for the
// operational API.
func (q *RedisQueue) Depth(ctx context.Context, priority enrich.Priority) (int64, error) {
	key := normalKey
	if priority == enrich.PriorityHigh {
		key = highKey
	}
	n, err := q.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue depth for %s: %w", key, err)
	}
	return n, nil
}

// Ping verifies the Redis connection, for startup checks.
func (q *RedisQueue) Ping(ctx context.Context) error {
	if err := q.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
