// Package dedupcache provides a bounded, time-evicting cache of recently seen
// identity hashes, layered in front of an ArticleStore. It avoids a storage
// round-trip for items re-seen within the same polling window. The cache is an
// optimization only: the storage-level uniqueness constraint remains the
// source of truth, and a cache miss always falls through to the store.
package dedupcache

import (
	"context"
	"sync"
	"time"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/repository"
)

const (
	// DefaultTTL covers a typical polling interval.
	DefaultTTL = 15 * time.Minute

	// DefaultMaxEntries bounds memory use; oldest entries are evicted first.
	DefaultMaxEntries = 10000
)

// Store decorates an ArticleStore with a TTL set of recently seen hashes.
// Safe for concurrent use.
type Store struct {
	inner repository.ArticleStore
	ttl   time.Duration
	max   int
	clock func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// New creates a caching store around inner with the given TTL and entry bound.
// Non-positive arguments fall back to the defaults.
func New(inner repository.ArticleStore, ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		inner: inner,
		ttl:   ttl,
		max:   maxEntries,
		clock: time.Now,
		seen:  make(map[string]time.Time),
	}
}

// ExistsByHash consults the cache first; a fresh hit short-circuits the store.
func (s *Store) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	if s.cached(hash) {
		return true, nil
	}
	exists, err := s.inner.ExistsByHash(ctx, hash)
	if err != nil {
		return false, err
	}
	if exists {
		s.remember(hash)
	}
	return exists, nil
}

// GetByHash always goes to the store; the cache holds hashes, not rows.
func (s *Store) GetByHash(ctx context.Context, hash string) (*entity.Article, error) {
	return s.inner.GetByHash(ctx, hash)
}

// InsertIfAbsent short-circuits to the duplicate path on a fresh cache hit,
// otherwise delegates to the store and remembers the hash either way: an
// insert conflict means some other writer stored it, which is just as seen.
func (s *Store) InsertIfAbsent(ctx context.Context, article *entity.Article) (repository.InsertResult, error) {
	if s.cached(article.IdentityHash) {
		existing, err := s.inner.GetByHash(ctx, article.IdentityHash)
		if err != nil {
			return repository.InsertResult{}, err
		}
		if existing != nil {
			return repository.InsertResult{Inserted: false, Article: existing}, nil
		}
		// Stale cache entry (row deleted externally); drop it and insert.
		s.forget(article.IdentityHash)
	}

	result, err := s.inner.InsertIfAbsent(ctx, article)
	if err != nil {
		return repository.InsertResult{}, err
	}
	s.remember(article.IdentityHash)
	return result, nil
}

func (s *Store) cached(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.seen[hash]
	if !ok {
		return false
	}
	if s.clock().Sub(at) > s.ttl {
		delete(s.seen, hash)
		return false
	}
	return true
}

func (s *Store) remember(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.seen[hash] = now

	if len(s.seen) <= s.max {
		return
	}

	// Over bound: drop expired entries, then oldest until within bound.
	var oldestKey string
	var oldestAt time.Time
	for k, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, k)
			continue
		}
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey, oldestAt = k, at
		}
	}
	if len(s.seen) > s.max && oldestKey != "" {
		delete(s.seen, oldestKey)
	}
}

func (s *Store) forget(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, hash)
}
