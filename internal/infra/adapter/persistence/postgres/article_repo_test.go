package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"ogooue-feed/internal/domain/entity"
	"ogooue-feed/internal/infra/adapter/persistence/postgres"
)

func sampleArticle() *entity.Article {
	return &entity.Article{
		FeedID:          1,
		IdentityHash:    "a3f1",
		Title:           "Port-Gentil oil find",
		Summary:         "Large reserve discovered off the coast.",
		Content:         "Large reserve discovered off the coast of Port-Gentil.",
		URL:             "https://ex.com/a1",
		Author:          "Editorial Staff",
		Category:        "economic",
		ReadTimeMinutes: 1,
		PublishedAt:     time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestArticleRepo_ExistsByHash(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("a3f1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewArticleRepo(db)
	exists, err := repo.ExistsByHash(context.Background(), "a3f1")
	if err != nil {
		t.Fatalf("ExistsByHash err=%v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_InsertIfAbsent_Inserted(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	art := sampleArticle()
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (identity_hash) DO NOTHING`)).
		WithArgs(art.FeedID, art.IdentityHash, art.Title, art.Summary, art.Content,
			art.URL, art.ImageURL, art.Author, art.Category, art.ReadTimeMinutes,
			art.PublishedAt, art.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	repo := postgres.NewArticleRepo(db)
	result, err := repo.InsertIfAbsent(context.Background(), art)
	if err != nil {
		t.Fatalf("InsertIfAbsent err=%v", err)
	}
	if !result.Inserted {
		t.Error("expected Inserted=true")
	}
	if result.Article.ID != 11 {
		t.Errorf("expected ID from RETURNING, got %d", result.Article.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_InsertIfAbsent_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	art := sampleArticle()

	// Conflict path: INSERT returns no row, then the existing article is loaded.
	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (identity_hash) DO NOTHING`)).
		WithArgs(art.FeedID, art.IdentityHash, art.Title, art.Summary, art.Content,
			art.URL, art.ImageURL, art.Author, art.Category, art.ReadTimeMinutes,
			art.PublishedAt, art.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectQuery(`WHERE identity_hash = \$1`).
		WithArgs(art.IdentityHash).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "feed_id", "identity_hash", "title", "summary", "content", "url",
			"image_url", "author", "category", "read_time_minutes",
			"published_at", "created_at", "ai_summary", "sentiment", "keywords",
		}).AddRow(
			int64(5), art.FeedID, art.IdentityHash, art.Title, art.Summary, art.Content,
			art.URL, "", art.Author, art.Category, art.ReadTimeMinutes,
			art.PublishedAt, art.CreatedAt, "", "", pq.Array([]string{}),
		))

	repo := postgres.NewArticleRepo(db)
	result, err := repo.InsertIfAbsent(context.Background(), art)
	if err != nil {
		t.Fatalf("InsertIfAbsent err=%v", err)
	}
	if result.Inserted {
		t.Error("expected Inserted=false on conflict")
	}
	if result.Article == nil || result.Article.ID != 5 {
		t.Errorf("expected existing article id=5, got %+v", result.Article)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_GetByHash_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`WHERE identity_hash`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := postgres.NewArticleRepo(db)
	got, err := repo.GetByHash(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByHash err=%v", err)
	}
	if got != nil {
		t.Fatalf("expected nil article, got %+v", got)
	}
}
