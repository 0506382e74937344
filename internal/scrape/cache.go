package scrape

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/esap-ai/quotescout/internal/model"
)

// PageCache stores scraped page text in SQLite with a TTL, so repeated
// queries over the same retail sites do not re-fetch (or re-bill
// ZenRows for) unchanged pages.
type PageCache struct {
	db  *sql.DB
	ttl time.Duration
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	id         TEXT PRIMARY KEY,
	url        TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

// NewPageCache opens (or creates) the cache database at dsn and
// applies the schema. WAL mode keeps concurrent scrapers from blocking
// each other.
func NewPageCache(dsn string, ttl time.Duration) (*PageCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	if _, err := db.Exec(cacheMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: migrate")
	}
	return &PageCache{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (p *PageCache) Close() error {
	return p.db.Close()
}

// Get returns the cached page for url if present and unexpired.
func (p *PageCache) Get(ctx context.Context, url string) (*model.Page, bool) {
	var text string
	err := p.db.QueryRowContext(ctx,
		`SELECT text FROM page_cache WHERE url = ? AND expires_at > ?`,
		url, time.Now().UTC(),
	).Scan(&text)
	if err != nil {
		return nil, false
	}
	return &model.Page{Source: url, Text: text}, true
}

// Put stores a page, replacing any previous entry for the same URL.
func (p *PageCache) Put(ctx context.Context, page model.Page) error {
	now := time.Now().UTC()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO page_cache (id, url, text, fetched_at, expires_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET text = excluded.text, fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		uuid.New().String(), page.Source, page.Text, now, now.Add(p.ttl),
	)
	return eris.Wrap(err, "cache: put")
}

// Prune deletes expired entries and returns how many were removed.
func (p *PageCache) Prune(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM page_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: prune")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
