package repository

import (
	"context"

	"ogooue-feed/internal/domain/entity"
)

// InsertResult reports the outcome of an insert-if-absent attempt.
// When Inserted is false the article already existed and Article holds the
// previously stored row.
type InsertResult struct {
	Inserted bool
	Article  *entity.Article
}

// ArticleStore guarantees at-most-one stored article per identity hash.
// Implementations rely on a storage-level uniqueness constraint and treat the
// conflict as the already-exists signal, never check-then-insert.
type ArticleStore interface {
	// ExistsByHash reports whether an article with the given identity hash
	// is already stored.
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	// GetByHash retrieves the stored article for an identity hash.
	// Returns (nil, nil) when no such article exists.
	GetByHash(ctx context.Context, hash string) (*entity.Article, error)
	// InsertIfAbsent atomically inserts the article unless its identity
	// hash is already present. Safe under concurrent attempts: exactly one
	// caller observes Inserted=true.
	InsertIfAbsent(ctx context.Context, article *entity.Article) (InsertResult, error)
}
