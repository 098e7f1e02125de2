// Package scraper fetches and parses RSS/Atom feeds and scrapes article
// pages. It uses the gofeed library for feed parsing and goquery for page
// scraping.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"ogooue-feed/internal/usecase/ingest"
)

const (
	feedUserAgent = "OgooueFeedBot/1.0 (+https://ogooue.media/bot)"

	// DefaultFeedTimeout bounds one feed fetch. A slow feed must not eat
	// into the cycle budget of its neighbours.
	DefaultFeedTimeout = 10 * time.Second

	maxFeedBodySize = 10 * 1024 * 1024
)

// RSSFetcher implements ingest.FeedFetcher using the gofeed library.
//
// It deliberately carries no retry or circuit breaker: fetch failures feed
// the per-feed health state, whose backoff already spaces out retries
// across cycles. Retrying inside a cycle would mostly hammer feeds that
// are down anyway.
type RSSFetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewRSSFetcher creates an RSSFetcher. A nil client gets a default one;
// the client's own timeout is left alone because each fetch is bounded by
// a per-request context.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &RSSFetcher{client: client, timeout: DefaultFeedTimeout}
}

// Fetch retrieves and parses a feed. Network and HTTP-status failures come
// back as *ingest.FetchError, malformed documents as *ingest.ParseError.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) (*ingest.FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &ingest.FetchError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", feedUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &ingest.FetchError{URL: feedURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ingest.FetchError{URL: feedURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodySize))
	if err != nil {
		return nil, &ingest.FetchError{URL: feedURL, Err: fmt.Errorf("read body: %w", err)}
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, &ingest.ParseError{URL: feedURL, Err: err}
	}

	result := &ingest.FetchResult{
		FeedTitle:       feed.Title,
		FeedDescription: feed.Description,
		Items:           make([]ingest.RawItem, 0, len(feed.Items)),
	}
	for _, it := range feed.Items {
		result.Items = append(result.Items, toRawItem(it))
	}
	return result, nil
}

// toRawItem flattens a gofeed item, including the media RSS extensions
// that many news feeds use for their lead image.
func toRawItem(it *gofeed.Item) ingest.RawItem {
	item := ingest.RawItem{
		Title:           it.Title,
		Link:            it.Link,
		Description:     it.Description,
		Content:         it.Content,
		GUID:            it.GUID,
		Published:       it.Published,
		PublishedParsed: it.PublishedParsed,
		Categories:      it.Categories,
	}
	for _, a := range it.Authors {
		if a != nil && a.Name != "" {
			item.Authors = append(item.Authors, a.Name)
		} else if a != nil && a.Email != "" {
			item.Authors = append(item.Authors, a.Email)
		}
	}
	if it.Image != nil {
		item.ImageURL = it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc == nil {
			continue
		}
		item.Enclosures = append(item.Enclosures, ingest.Enclosure{URL: enc.URL, Type: enc.Type})
	}
	item.MediaContentURL = mediaExtensionURL(it, "content")
	item.MediaThumbURL = mediaExtensionURL(it, "thumbnail")
	return item
}

func mediaExtensionURL(it *gofeed.Item, name string) string {
	media, ok := it.Extensions["media"]
	if !ok {
		return ""
	}
	for _, ext := range media[name] {
		if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
			return u
		}
	}
	return ""
}
