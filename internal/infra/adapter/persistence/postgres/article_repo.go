package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/repository"

	"github.com/lib/pq"
)

type ArticleRepo struct {
	db Querier
}

func NewArticleRepo(db Querier) repository.ArticleStore {
	return &ArticleRepo{db: db}
}

func (repo *ArticleRepo) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE identity_hash = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, hash).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByHash: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) GetByHash(ctx context.Context, hash string) (*entity.Article, error) {
	const query = `
SELECT id, feed_id, identity_hash, title, summary, content, url,
	COALESCE(image_url, ''), author, category, read_time_minutes,
	published_at, created_at,
	COALESCE(ai_summary, ''), COALESCE(sentiment, ''), COALESCE(keywords, '{}')
FROM articles
WHERE identity_hash = $1
LIMIT 1`
	var article entity.Article
	err := repo.db.QueryRowContext(ctx, query, hash).Scan(
		&article.ID, &article.FeedID, &article.IdentityHash, &article.Title,
		&article.Summary, &article.Content, &article.URL, &article.ImageURL,
		&article.Author, &article.Category, &article.ReadTimeMinutes,
		&article.PublishedAt, &article.CreatedAt,
		&article.AISummary, &article.Sentiment, pq.Array(&article.Keywords))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByHash: %w", err)
	}
	return &article, nil
}

// InsertIfAbsent stores the article unless its identity hash already exists.
// The UNIQUE constraint on identity_hash plus ON CONFLICT DO NOTHING makes the
// operation safe under concurrent insert attempts: exactly one writer gets a
// row back, every other caller falls through to the duplicate path and returns
// the previously stored article.
func (repo *ArticleRepo) InsertIfAbsent(ctx context.Context, article *entity.Article) (repository.InsertResult, error) {
	const query = `
INSERT INTO articles (feed_id, identity_hash, title, summary, content, url,
	image_url, author, category, read_time_minutes, published_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (identity_hash) DO NOTHING
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.FeedID, article.IdentityHash, article.Title, article.Summary,
		article.Content, article.URL, article.ImageURL, article.Author,
		article.Category, article.ReadTimeMinutes, article.PublishedAt, article.CreatedAt,
	).Scan(&article.ID)

	if err == sql.ErrNoRows {
		existing, getErr := repo.GetByHash(ctx, article.IdentityHash)
		if getErr != nil {
			return repository.InsertResult{}, fmt.Errorf("InsertIfAbsent: fetch existing: %w", getErr)
		}
		return repository.InsertResult{Inserted: false, Article: existing}, nil
	}
	if err != nil {
		return repository.InsertResult{}, fmt.Errorf("InsertIfAbsent: %w", err)
	}
	return repository.InsertResult{Inserted: true, Article: article}, nil
}
