// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup remembers which papers have already been analyzed, so a
// paper is never sent twice across runs. Records are append-only.
package dedup

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-digest/internal/arxiv"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Store persists DedupRecords.
type Store interface {
	// Load reads every record into a Snapshot. A store that does not
	// exist yet yields an empty Snapshot.
	Load(ctx context.Context) (Snapshot, error)
	// Append durably adds one record.
	Append(ctx context.Context, rec types.DedupRecord) error
	Close() error
}

// Snapshot is a read-only view of the store at load time.
type Snapshot struct {
	// Records holds every record in storage order, duplicates included.
	Records []types.DedupRecord
	known   map[string]types.DedupRecord
}

// NewSnapshot indexes records by id; later records replace earlier ones.
// Ids are stored without their arXiv version suffix, the same form fetched
// candidates carry, so "2301.07041v1" written by older versions matches.
func NewSnapshot(records []types.DedupRecord) Snapshot {
	normalized := make([]types.DedupRecord, len(records))
	known := make(map[string]types.DedupRecord, len(records))
	for i, r := range records {
		r.ID = arxiv.StripVersion(r.ID)
		normalized[i] = r
		known[r.ID] = r
	}
	return Snapshot{Records: normalized, known: known}
}

// Score returns the stored relevance score for id.
func (s Snapshot) Score(id string) (int, bool) {
	r, ok := s.known[id]
	return r.RelevanceScore, ok
}

// Has reports whether id has been analyzed before.
func (s Snapshot) Has(id string) bool {
	_, ok := s.known[id]
	return ok
}

// Get returns the effective record for id.
func (s Snapshot) Get(id string) (types.DedupRecord, bool) {
	r, ok := s.known[id]
	return r, ok
}

// IDs returns the set of known ids.
func (s Snapshot) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.known))
	for id := range s.known {
		ids[id] = struct{}{}
	}
	return ids
}

// Len returns the number of distinct ids.
func (s Snapshot) Len() int { return len(s.known) }

// Unique returns one record per id, in order of each id's last occurrence.
func (s Snapshot) Unique() []types.DedupRecord {
	last := make(map[string]int, len(s.Records))
	for i, r := range s.Records {
		last[r.ID] = i
	}
	out := make([]types.DedupRecord, 0, len(last))
	for i, r := range s.Records {
		if last[r.ID] == i {
			out = append(out, r)
		}
	}
	return out
}

// Open returns the Store selected by cfg.
func Open(cfg types.DedupConfig) (Store, error) {
	switch cfg.Backend {
	case types.DedupFile, "":
		return NewFileStore(cfg.Path), nil
	case types.DedupSQLite:
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: unknown dedup backend %q", types.ErrPersistence, cfg.Backend)
	}
}
