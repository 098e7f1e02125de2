// Package ingest implements the feed ingestion pipeline: it fetches RSS/Atom
// feeds on a schedule, normalizes and deduplicates their items, persists new
// articles, tracks per-feed health, and enqueues enrichment jobs for
// downstream workers.
package ingest

import (
	"context"
	"time"
)

// Enclosure is an attachment declared on a feed item.
type Enclosure struct {
	URL  string
	Type string // declared MIME type, e.g. "image/jpeg"
}

// RawItem is one entry as returned by parsing a feed, before normalization.
// All fields are optional except Title and Link; downstream code must not
// assume any of the others are present.
type RawItem struct {
	Title           string
	Link            string
	Description     string // short snippet, possibly HTML
	Content         string // full content, possibly HTML
	GUID            string
	Published       string // raw date string, possibly malformed
	PublishedParsed *time.Time
	Authors         []string
	Categories      []string
	Enclosures      []Enclosure
	ImageURL        string // item-level image field (channel image, og:image on the item)
	MediaContentURL string // media:content url
	MediaThumbURL   string // media:thumbnail url
}

// FetchResult is the parsed form of one feed document.
type FetchResult struct {
	FeedTitle       string
	FeedDescription string
	Items           []RawItem
}

// FeedFetcher fetches and parses a feed URL. Implementations do not retry
// internally; retry spacing is the health tracker's responsibility.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// ContentFetcher retrieves the readable text of an article's own web page.
// Used to enhance items whose feed content is too thin.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// PageScraper extracts the best candidate image from an article's web page.
// Used as the last resort of the image extraction chain.
type PageScraper interface {
	ScrapeImage(ctx context.Context, url string) (string, error)
}
