// Package feeds provides the administrative use cases exposed by the
// operational API: inspecting feed health and reactivating disabled feeds.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/repository"
)

// ErrFeedNotFound indicates that the requested feed does not exist.
var ErrFeedNotFound = errors.New("feed not found")

// Service provides feed administration use cases.
type Service struct {
	Repo   repository.FeedRepository
	Logger *slog.Logger
}

// List retrieves all configured feeds with their health metadata.
func (s *Service) List(ctx context.Context) ([]*entity.Feed, error) {
	feeds, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	return feeds, nil
}

// Get retrieves a single feed by ID.
// Returns ErrFeedNotFound if no such feed exists.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Feed, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}
	feed, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	if feed == nil {
		return nil, ErrFeedNotFound
	}
	return feed, nil
}

// Reactivate moves a disabled or erroring feed back to the active state with
// a clean error count. The next scheduler cycle will pick it up again.
// Returns ErrFeedNotFound if the feed does not exist.
func (s *Service) Reactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	err := s.Repo.Reactivate(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return ErrFeedNotFound
	}
	if err != nil {
		return fmt.Errorf("reactivate feed: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Info("feed reactivated", slog.Int64("feed_id", id))
	}
	return nil
}
