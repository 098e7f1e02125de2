// Package config loads the feed seed file: the YAML list of sources the
// pipeline ingests, applied to the database at worker startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ogooue-feed/internal/domain/entity"
)

// FeedSeed is one entry of the feeds file.
type FeedSeed struct {
	Slug                 string `yaml:"slug"`
	Name                 string `yaml:"name"`
	URL                  string `yaml:"url"`
	Category             string `yaml:"category"`
	FetchIntervalMinutes int    `yaml:"fetch_interval_minutes"`
	AuthorFallback       string `yaml:"author_fallback"`
	Active               *bool  `yaml:"active"` // nil means active
}

type feedsFile struct {
	Feeds []FeedSeed `yaml:"feeds"`
}

// LoadFeeds reads and validates the feed seed file. Every entry must carry
// a unique slug and a valid URL; an invalid file is rejected whole, so a
// bad deploy cannot half-apply.
func LoadFeeds(path string) ([]*entity.Feed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file %s: %w", path, err)
	}

	var file feedsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(file.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s declares no feeds", path)
	}

	seen := make(map[string]bool, len(file.Feeds))
	feeds := make([]*entity.Feed, 0, len(file.Feeds))
	for i, seed := range file.Feeds {
		if seen[seed.Slug] {
			return nil, fmt.Errorf("feeds file %s: duplicate slug %q", path, seed.Slug)
		}
		seen[seed.Slug] = true

		active := true
		if seed.Active != nil {
			active = *seed.Active
		}
		feed := &entity.Feed{
			Slug:                 seed.Slug,
			Name:                 seed.Name,
			FeedURL:              seed.URL,
			Category:             seed.Category,
			FetchIntervalMinutes: seed.FetchIntervalMinutes,
			AuthorFallback:       seed.AuthorFallback,
			Active:               active,
			Status:               entity.FeedStatusActive,
		}
		if err := feed.Validate(); err != nil {
			return nil, fmt.Errorf("feeds file %s: entry %d (%q): %w", path, i, seed.Slug, err)
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}
