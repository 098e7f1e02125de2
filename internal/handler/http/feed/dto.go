package feed

import "time"

type DTO struct {
	ID                   int64      `json:"id"`
	Slug                 string     `json:"slug"`
	Name                 string     `json:"name"`
	FeedURL              string     `json:"feed_url"`
	Category             string     `json:"category"`
	Active               bool       `json:"active"`
	Status               string     `json:"status"`
	FetchIntervalMinutes int        `json:"fetch_interval_minutes"`
	ConsecutiveErrors    int        `json:"consecutive_errors"`
	LastFetchedAt        *time.Time `json:"last_fetched_at,omitempty"`
	LastSuccessAt        *time.Time `json:"last_success_at,omitempty"`
	LastError            string     `json:"last_error,omitempty"`
}
