// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a SQLite index of finalized captures so they can be
// listed and filtered by tag or domain without walking the output tree.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/capture/pkg/types"
)

// Entry is one cataloged capture.
type Entry struct {
	Folder    string                  `yaml:"folder"`
	Path      string                  `yaml:"path"`
	Record    types.FrontmatterRecord `yaml:"frontmatter"`
	UpdatedAt time.Time               `yaml:"updated_at"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Tag    string
	Domain string
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog at path, creating parent directories.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS captures (
			folder TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			domain TEXT,
			url TEXT,
			hackernews TEXT,
			capture_date TEXT,
			publish_date TEXT,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS capture_tags (
			folder TEXT NOT NULL REFERENCES captures(folder) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			tag TEXT NOT NULL,
			PRIMARY KEY (folder, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_capture_tags_tag ON capture_tags(tag)`,
		`CREATE INDEX IF NOT EXISTS idx_captures_domain ON captures(domain)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts the capture stored at path under folder.
func (s *Store) Record(ctx context.Context, folder, path string, rec types.FrontmatterRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO captures
		(folder, path, title, domain, url, hackernews, capture_date, publish_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			domain = excluded.domain,
			url = excluded.url,
			hackernews = excluded.hackernews,
			capture_date = excluded.capture_date,
			publish_date = excluded.publish_date,
			updated_at = excluded.updated_at`,
		folder, path, rec.Title, rec.Domain, rec.URL, rec.Hackernews,
		rec.CaptureDate, rec.PublishDate, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("recording %s: %w", folder, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM capture_tags WHERE folder = ?`, folder); err != nil {
		return fmt.Errorf("clearing tags for %s: %w", folder, err)
	}
	for i, tag := range rec.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO capture_tags (folder, position, tag) VALUES (?, ?, ?)`,
			folder, i, tag,
		); err != nil {
			return fmt.Errorf("recording tag %q for %s: %w", tag, folder, err)
		}
	}

	return tx.Commit()
}

// List returns cataloged captures matching f, newest capture first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Domain != "" {
		where = append(where, "c.domain = ?")
		args = append(args, f.Domain)
	}
	if f.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM capture_tags t WHERE t.folder = c.folder AND t.tag = ?)")
		args = append(args, f.Tag)
	}

	query := `SELECT c.folder, c.path, c.title, c.domain, c.url, c.hackernews,
		c.capture_date, c.publish_date, c.updated_at FROM captures c`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.capture_date DESC, c.folder ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying captures: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated string
		)
		if err := rows.Scan(&e.Folder, &e.Path, &e.Record.Title, &e.Record.Domain, &e.Record.URL,
			&e.Record.Hackernews, &e.Record.CaptureDate, &e.Record.PublishDate, &updated); err != nil {
			return nil, fmt.Errorf("scanning capture: %w", err)
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating captures: %w", err)
	}

	for i := range entries {
		tags, err := s.tags(ctx, entries[i].Folder)
		if err != nil {
			return nil, err
		}
		entries[i].Record.Tags = tags
	}
	return entries, nil
}

func (s *Store) tags(ctx context.Context, folder string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM capture_tags WHERE folder = ? ORDER BY position`, folder)
	if err != nil {
		return nil, fmt.Errorf("querying tags for %s: %w", folder, err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
