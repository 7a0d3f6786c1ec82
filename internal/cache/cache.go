package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite"
)

const lastScrapeKey = "last_scrape"

type Cache struct {
	readDB  *sqlx.DB
	writeDB *sqlx.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sqlx.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS read_markers (
			article_id TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			link       TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL DEFAULT '',
			read_at    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_read_markers_read_at ON read_markers(read_at DESC);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	return errors.Join(errs...)
}

// MarkRead records m, refreshing read_at if the article was read before.
func (c *Cache) MarkRead(ctx context.Context, m Marker) error {
	if m.ArticleID == "" {
		return errors.New("marking read: empty article id")
	}
	readAt := m.ReadAt
	if readAt.IsZero() {
		readAt = time.Now()
	}
	_, err := c.writeDB.ExecContext(ctx, `
		INSERT INTO read_markers (article_id, title, link, source, read_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			source = excluded.source,
			read_at = excluded.read_at
	`, m.ArticleID, m.Title, m.Link, m.Source, readAt.Unix())
	if err != nil {
		return fmt.Errorf("marking %s read: %w", m.ArticleID, err)
	}
	return nil
}

// ReadSet reports which of ids have a read marker.
func (c *Cache) ReadSet(ctx context.Context, ids []string) (map[string]bool, error) {
	read := make(map[string]bool)
	ids = lo.Uniq(lo.Filter(ids, func(id string, _ int) bool { return id != "" }))
	if len(ids) == 0 {
		return read, nil
	}

	q, args, err := sqlx.In(`SELECT article_id FROM read_markers WHERE article_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("building read query: %w", err)
	}

	var found []string
	if err := c.readDB.SelectContext(ctx, &found, c.readDB.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("querying read markers: %w", err)
	}
	for _, id := range found {
		read[id] = true
	}
	return read, nil
}

// Recent returns the most recently read articles, newest first.
func (c *Cache) Recent(ctx context.Context, limit int) ([]Marker, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []dbMarker
	err := c.readDB.SelectContext(ctx, &rows, `
		SELECT article_id, title, link, source, read_at
		FROM read_markers
		ORDER BY read_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent markers: %w", err)
	}
	return lo.Map(rows, func(r dbMarker, _ int) Marker {
		return r.marker()
	}), nil
}

// Prune deletes markers older than olderThan and returns how many were removed.
func (c *Cache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := c.writeDB.ExecContext(ctx, `DELETE FROM read_markers WHERE read_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning read markers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		// Reclaim space; failure here leaves a larger file, nothing worse.
		_, _ = c.writeDB.ExecContext(ctx, `VACUUM`)
	}
	return n, nil
}

// Stats returns the marker count and the on-disk size of dbPath.
func (c *Cache) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := c.readDB.Get(&count, `SELECT COUNT(*) FROM read_markers`); err != nil {
		return 0, 0, fmt.Errorf("counting markers: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat cache file: %w", err)
	}
	return count, info.Size(), nil
}

// LastScrape returns when a scrape last succeeded from this machine.
func (c *Cache) LastScrape() (time.Time, bool) {
	var value string
	err := c.readDB.Get(&value, `SELECT value FROM meta WHERE key = ?`, lastScrapeKey)
	if err != nil {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

func (c *Cache) SetLastScrape(t time.Time) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastScrapeKey, strconv.FormatInt(t.Unix(), 10))
	return err
}
