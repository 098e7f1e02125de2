package entity

import (
	"testing"
	"time"
)

func TestFeed_DueAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		feed Feed
		want bool
	}{
		{
			name: "never fetched",
			feed: Feed{Active: true, Status: FeedStatusActive, FetchIntervalMinutes: 15},
			want: true,
		},
		{
			name: "interval elapsed",
			feed: Feed{Active: true, Status: FeedStatusActive, FetchIntervalMinutes: 15, LastFetchedAt: past(16 * time.Minute)},
			want: true,
		},
		{
			name: "interval not elapsed",
			feed: Feed{Active: true, Status: FeedStatusActive, FetchIntervalMinutes: 15, LastFetchedAt: past(5 * time.Minute)},
			want: false,
		},
		{
			name: "disabled never due",
			feed: Feed{Active: true, Status: FeedStatusDisabled, FetchIntervalMinutes: 15},
			want: false,
		},
		{
			name: "administratively inactive never due",
			feed: Feed{Active: false, Status: FeedStatusActive, FetchIntervalMinutes: 15},
			want: false,
		},
		{
			name: "error state waits for backoff",
			feed: Feed{
				Active: true, Status: FeedStatusError, FetchIntervalMinutes: 15,
				ConsecutiveErrors: 3, LastFetchedAt: past(20 * time.Minute),
			},
			// 3 failures: 15m doubled twice = 60m, 20m elapsed is not enough
			want: false,
		},
		{
			name: "error state due after backoff",
			feed: Feed{
				Active: true, Status: FeedStatusError, FetchIntervalMinutes: 15,
				ConsecutiveErrors: 2, LastFetchedAt: past(31 * time.Minute),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.feed.DueAt(now); got != tt.want {
				t.Errorf("DueAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFeed_errorBackoffCap(t *testing.T) {
	f := Feed{FetchIntervalMinutes: 30, ConsecutiveErrors: 20}
	if got := f.errorBackoff(); got != maxErrorBackoff {
		t.Errorf("errorBackoff() = %v, want cap %v", got, maxErrorBackoff)
	}
}

func TestFeed_DefaultAuthor(t *testing.T) {
	withFallback := Feed{Name: "Gabon Review", AuthorFallback: "Rédaction Gabon Review"}
	if got := withFallback.DefaultAuthor(); got != "Rédaction Gabon Review" {
		t.Errorf("DefaultAuthor() = %q", got)
	}

	bare := Feed{Name: "L'Union"}
	if got := bare.DefaultAuthor(); got != "Editorial Staff" {
		t.Errorf("DefaultAuthor() = %q, want Editorial Staff", got)
	}
}

func TestFeed_Validate(t *testing.T) {
	valid := Feed{
		Slug: "gabonreview", Name: "Gabon Review",
		FeedURL: "https://www.gabonreview.com/feed/", FetchIntervalMinutes: 15,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if valid.Status != FeedStatusActive {
		t.Errorf("Validate() should default status to active, got %s", valid.Status)
	}

	tests := []struct {
		name string
		feed Feed
	}{
		{"missing slug", Feed{Name: "n", FeedURL: "https://ex.com/f", FetchIntervalMinutes: 15}},
		{"missing name", Feed{Slug: "s", FeedURL: "https://ex.com/f", FetchIntervalMinutes: 15}},
		{"bad url scheme", Feed{Slug: "s", Name: "n", FeedURL: "ftp://ex.com/f", FetchIntervalMinutes: 15}},
		{"zero interval", Feed{Slug: "s", Name: "n", FeedURL: "https://ex.com/f"}},
		{"unknown status", Feed{Slug: "s", Name: "n", FeedURL: "https://ex.com/f", FetchIntervalMinutes: 15, Status: "paused"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.feed.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}
