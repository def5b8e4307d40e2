// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// FileStore keeps records as "id,title,score" lines in a text file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load parses every non-blank line. A missing file is an empty snapshot.
func (s *FileStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewSnapshot(nil), nil
		}
		return Snapshot{}, fmt.Errorf("%w: opening %s: %w", types.ErrPersistence, s.path, err)
	}
	defer f.Close()

	var records []types.DedupRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if rec, ok := ParseLine(sc.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: reading %s: %w", types.ErrPersistence, s.path, err)
	}
	return NewSnapshot(records), nil
}

// Append writes one line and syncs it to disk before returning.
func (s *FileStore) Append(ctx context.Context, rec types.DedupRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %w", types.ErrPersistence, dir, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrPersistence, s.path, err)
	}
	if _, err := f.WriteString(FormatLine(rec) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing %s: %w", types.ErrPersistence, s.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: syncing %s: %w", types.ErrPersistence, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %w", types.ErrPersistence, s.path, err)
	}
	return nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error { return nil }

// FormatLine renders rec in the three-field form. Line breaks in the title
// become spaces so one record is always one line.
func FormatLine(rec types.DedupRecord) string {
	title := strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(rec.Title)
	return rec.ID + "," + title + "," + strconv.Itoa(rec.RelevanceScore)
}

// ParseLine decodes one line. It reports false for blank lines.
//
// With three or more fields whose last field is an integer, the title is
// everything between the first and last comma, so titles containing commas
// round-trip. Otherwise the line is split from the left into at most three
// fields: a missing title is types.UnknownTitle and a missing or non-integer
// score is 0.
func ParseLine(line string) (types.DedupRecord, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return types.DedupRecord{}, false
	}

	first := strings.Index(line, ",")
	last := strings.LastIndex(line, ",")
	if first >= 0 && last > first {
		if score, err := strconv.Atoi(strings.TrimSpace(line[last+1:])); err == nil {
			return types.DedupRecord{
				ID:             strings.TrimSpace(line[:first]),
				Title:          line[first+1 : last],
				RelevanceScore: score,
			}, true
		}
	}

	parts := strings.SplitN(line, ",", 3)
	rec := types.DedupRecord{ID: strings.TrimSpace(parts[0]), Title: types.UnknownTitle}
	if len(parts) >= 2 {
		rec.Title = parts[1]
	}
	if len(parts) == 3 {
		if score, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			rec.RelevanceScore = score
		}
	}
	return rec, true
}
