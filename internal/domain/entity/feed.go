// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Feed and Article, along with
// their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"strings"
	"time"
)

// FeedStatus describes the health state of a feed.
// A feed moves between states based on fetch outcomes:
//
//	active --success--> active (error count reset)
//	active/error --failure--> error (error count incremented)
//	error --failure, count >= DisableThreshold--> disabled
//
// The disabled state is terminal from the pipeline's perspective; only an
// administrative reactivation moves a feed back to active.
type FeedStatus string

const (
	FeedStatusActive   FeedStatus = "active"
	FeedStatusError    FeedStatus = "error"
	FeedStatusDisabled FeedStatus = "disabled"
)

// DisableThreshold is the number of consecutive fetch failures after which
// a feed is automatically disabled.
const DisableThreshold = 5

// maxErrorBackoff caps the retry spacing applied to feeds in error state.
const maxErrorBackoff = 6 * time.Hour

// Feed represents a configured RSS/Atom source with its scheduling and
// health metadata. Feeds are created by an administrative action; the
// ingestion pipeline only reads active feeds and writes back status fields.
type Feed struct {
	ID                   int64
	Slug                 string // stable identifier, part of the article identity hash
	Name                 string
	FeedURL              string
	Category             string
	Active               bool // administrative flag, independent of health status
	Status               FeedStatus
	FetchIntervalMinutes int
	ConsecutiveErrors    int
	LastFetchedAt        *time.Time
	LastSuccessAt        *time.Time
	LastError            string
	AuthorFallback       string // byline used when no author can be extracted
}

// FetchInterval returns the configured fetch interval as a duration.
func (f *Feed) FetchInterval() time.Duration {
	return time.Duration(f.FetchIntervalMinutes) * time.Minute
}

// DueAt reports whether the feed should be fetched at the given time.
// A feed is due when it has never been fetched, or when its fetch interval
// has elapsed since the last attempt. Feeds in error state are additionally
// spaced out by an exponential backoff derived from the consecutive error
// count, so a flaky feed is retried with increasing gaps before the disable
// threshold kicks in. Disabled or administratively inactive feeds are never due.
func (f *Feed) DueAt(now time.Time) bool {
	if !f.Active || f.Status == FeedStatusDisabled {
		return false
	}
	if f.LastFetchedAt == nil {
		return true
	}

	wait := f.FetchInterval()
	if f.Status == FeedStatusError && f.ConsecutiveErrors > 0 {
		wait = f.errorBackoff()
	}
	return now.Sub(*f.LastFetchedAt) >= wait
}

// errorBackoff returns the retry spacing for a feed in error state:
// the fetch interval doubled per consecutive failure, capped at maxErrorBackoff.
func (f *Feed) errorBackoff() time.Duration {
	backoff := f.FetchInterval()
	for i := 1; i < f.ConsecutiveErrors; i++ {
		backoff *= 2
		if backoff >= maxErrorBackoff {
			return maxErrorBackoff
		}
	}
	return backoff
}

// DefaultAuthor returns the byline to use when no author could be extracted
// from a feed item. Falls back to a generic label when the feed has no
// configured fallback.
func (f *Feed) DefaultAuthor() string {
	if f.AuthorFallback != "" {
		return f.AuthorFallback
	}
	return "Editorial Staff"
}

// Validate validates the Feed entity fields.
func (f *Feed) Validate() error {
	if strings.TrimSpace(f.Slug) == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if err := ValidateURL(f.FeedURL); err != nil {
		return fmt.Errorf("feed_url: %w", err)
	}
	if f.FetchIntervalMinutes < 1 {
		return &ValidationError{Field: "fetch_interval_minutes", Message: "fetch interval must be at least 1 minute"}
	}
	if f.Status == "" {
		f.Status = FeedStatusActive
	}
	switch f.Status {
	case FeedStatusActive, FeedStatusError, FeedStatusDisabled:
	default:
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status: %s (must be active, error, or disabled)", f.Status),
		}
	}
	return nil
}
