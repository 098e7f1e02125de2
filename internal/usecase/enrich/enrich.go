// Package enrich defines the contract between ingestion and the external
// enrichment workers that produce AI summaries, sentiment, and keywords.
// Ingestion only enqueues; it never waits for enrichment results.
package enrich

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ogooue-feed/internal/domain/entity"
)

// Priority selects the queue an enrichment job lands on. High-priority jobs
// are drained before normal ones.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// highPriorityCategories lists the categories whose articles jump the
// enrichment backlog. Political and economic stories age the fastest.
var highPriorityCategories = map[string]bool{
	"political": true,
	"economic":  true,
}

// PriorityFor maps an article category onto a queue priority.
func PriorityFor(category string) Priority {
	if highPriorityCategories[category] {
		return PriorityHigh
	}
	return PriorityNormal
}

// Job is the payload handed to enrichment workers. Content is included so
// workers do not have to read the database back.
type Job struct {
	ID         string    `json:"id"`
	ArticleID  int64     `json:"article_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	SourceName string    `json:"source_name"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob builds an enrichment job for a freshly ingested article.
func NewJob(article *entity.Article, feed *entity.Feed, now time.Time) Job {
	return Job{
		ID:         uuid.NewString(),
		ArticleID:  article.ID,
		Title:      article.Title,
		Content:    article.Content,
		SourceName: feed.Name,
		EnqueuedAt: now.UTC(),
	}
}

// Queue enqueues enrichment jobs. Implementations must be safe for
// concurrent use.
type Queue interface {
	Enqueue(ctx context.Context, job Job, priority Priority) error
}

// NoopQueue discards every job. Used when no enrichment backend is
// configured, so ingestion keeps working without Redis.
type NoopQueue struct{}

func (NoopQueue) Enqueue(context.Context, Job, Priority) error { return nil }
