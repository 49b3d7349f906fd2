package pubfront

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the last good rendering of every
// generated page, so a restart serves stale pages instead of regenerating
// all of them up front.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request path read while a background regeneration writes.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS pages (
    slug TEXT PRIMARY KEY,
    post_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL,
    html BLOB NOT NULL,
    generated_at TEXT NOT NULL
);
`)
	return err
}

// SavePage upserts the rendering of a page.
func (s *Store) SavePage(ctx context.Context, p Page) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO pages (slug, post_id, title, status, html, generated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Slug, p.PostID, p.Title, p.Status, p.HTML, p.GeneratedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("pubfront: save snapshot %q: %w", p.Slug, err)
	}
	return nil
}

// ListPages returns every snapshot ordered by slug.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, post_id, title, status, html, generated_at FROM pages ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// DeletePage removes the snapshot for slug.
func (s *Store) DeletePage(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE slug = ?`, slug)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (Page, error) {
	var p Page
	var generated string
	if err := row.Scan(&p.Slug, &p.PostID, &p.Title, &p.Status, &p.HTML, &generated); err != nil {
		return Page{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, generated)
	if err != nil {
		return Page{}, fmt.Errorf("pubfront: snapshot %q: bad timestamp: %w", p.Slug, err)
	}
	p.GeneratedAt = t
	return p, nil
}
