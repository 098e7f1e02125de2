package db

import (
	"database/sql"
)

// MigrateUp creates the feeds and articles tables and their indexes.
// Statements are idempotent so the worker can run this on every start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS feeds (
    id                     BIGSERIAL PRIMARY KEY,
    slug                   TEXT NOT NULL UNIQUE,
    name                   TEXT NOT NULL,
    feed_url               TEXT NOT NULL,
    category               TEXT NOT NULL DEFAULT 'general',
    active                 BOOLEAN NOT NULL DEFAULT TRUE,
    status                 VARCHAR(20) NOT NULL DEFAULT 'active',
    fetch_interval_minutes INTEGER NOT NULL DEFAULT 30,
    consecutive_errors     INTEGER NOT NULL DEFAULT 0,
    last_fetched_at        TIMESTAMPTZ,
    last_success_at        TIMESTAMPTZ,
    last_error             TEXT,
    author_fallback        TEXT
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id                BIGSERIAL PRIMARY KEY,
    feed_id           BIGINT NOT NULL REFERENCES feeds(id),
    identity_hash     CHAR(64) NOT NULL UNIQUE,
    title             TEXT NOT NULL,
    summary           TEXT NOT NULL DEFAULT '',
    content           TEXT NOT NULL DEFAULT '',
    url               TEXT NOT NULL,
    image_url         TEXT,
    author            TEXT NOT NULL DEFAULT '',
    category          TEXT NOT NULL DEFAULT 'general',
    read_time_minutes INTEGER NOT NULL DEFAULT 1,
    published_at      TIMESTAMPTZ NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    ai_summary        TEXT,
    sentiment         VARCHAR(20),
    keywords          TEXT[]
)`); err != nil {
		return err
	}

	indexes := []string{
		// feed listing queries order by slug; the scheduler filters on these
		`CREATE INDEX IF NOT EXISTS idx_feeds_active ON feeds(active) WHERE active = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_feeds_status ON feeds(status)`,
		// newest-first article listings
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_feed_id ON articles(feed_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Constraint creation is not idempotent in plain DDL; ignore the error
	// when the constraint already exists.
	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_feed_status'
    ) THEN
        ALTER TABLE feeds ADD CONSTRAINT chk_feed_status
        CHECK (status IN ('active', 'error', 'disabled'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the pipeline tables. All article and feed data is lost.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS articles CASCADE`,
		`DROP TABLE IF EXISTS feeds CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
