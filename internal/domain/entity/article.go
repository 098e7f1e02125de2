package entity

import "time"

// Article is the canonical, deduplicated representation of one feed item.
// It is constructed once by the ingestion pipeline and handed to the article
// store for persistence; the enrichment fields (AISummary, Sentiment,
// Keywords) are populated later by external enrichment workers and are never
// written by the pipeline itself.
type Article struct {
	ID              int64
	FeedID          int64
	IdentityHash    string // stable dedup key, see internal/pkg/identity
	Title           string
	Summary         string // cleaned, capped at 500 characters
	Content         string
	URL             string
	ImageURL        string // empty when no acceptable image was found
	Author          string
	Category        string
	ReadTimeMinutes int
	PublishedAt     time.Time
	CreatedAt       time.Time

	// Enrichment fields, owned by the external enrichment stage.
	AISummary string
	Sentiment string
	Keywords  []string
}
