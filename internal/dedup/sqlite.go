// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyzed_papers (
	id              TEXT NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	relevance_score INTEGER NOT NULL DEFAULT 0,
	analyzed_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyzed_papers_id ON analyzed_papers(id);
`

// SQLiteStore keeps records in an analyzed_papers table. Rows are only
// ever inserted.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %w", types.ErrPersistence, dir, err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", types.ErrPersistence, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %w", types.ErrPersistence, err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Load reads all rows in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	var records []types.DedupRecord
	err := s.db.SelectContext(ctx, &records,
		`SELECT id, title, relevance_score FROM analyzed_papers ORDER BY rowid`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: loading records: %w", types.ErrPersistence, err)
	}
	return NewSnapshot(records), nil
}

// Append inserts one row.
func (s *SQLiteStore) Append(ctx context.Context, rec types.DedupRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyzed_papers (id, title, relevance_score, analyzed_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.RelevanceScore, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: inserting %s: %w", types.ErrPersistence, rec.ID, err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
