// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// --- ParseLine / FormatLine ---

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   types.DedupRecord
		wantOK bool
	}{
		{"three fields", "2401.00001,Some Title,87", types.DedupRecord{ID: "2401.00001", Title: "Some Title", RelevanceScore: 87}, true},
		{"one field", "2401.00002", types.DedupRecord{ID: "2401.00002", Title: types.UnknownTitle}, true},
		{"two fields", "2401.00003,Only Title", types.DedupRecord{ID: "2401.00003", Title: "Only Title"}, true},
		{"non-integer score", "2401.00004,T,abc", types.DedupRecord{ID: "2401.00004", Title: "T"}, true},
		{"comma in title", "2401.00005,Attention, Please,42", types.DedupRecord{ID: "2401.00005", Title: "Attention, Please", RelevanceScore: 42}, true},
		{"two-field title ending in digits", "2401.00007,Results, 7", types.DedupRecord{ID: "2401.00007", Title: "Results", RelevanceScore: 7}, true},
		{"two-field title ending in a year", "2401.00008,Survey of Methods, 2024", types.DedupRecord{ID: "2401.00008", Title: "Survey of Methods", RelevanceScore: 2024}, true},
		{"crlf line ending", "2401.00006,T,5\r", types.DedupRecord{ID: "2401.00006", Title: "T", RelevanceScore: 5}, true},
		{"blank", "   ", types.DedupRecord{}, false},
		{"empty", "", types.DedupRecord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSnapshot_StripsVersions(t *testing.T) {
	rec, ok := ParseLine("2301.07041v1,T,80")
	require.True(t, ok)
	snap := NewSnapshot([]types.DedupRecord{rec, {ID: "local-paper", Title: "L", RelevanceScore: 3}})

	score, ok := snap.Score("2301.07041")
	assert.True(t, ok)
	assert.Equal(t, 80, score)
	assert.False(t, snap.Has("2301.07041v1"))
	assert.True(t, snap.Has("local-paper"))
	assert.Equal(t, "2301.07041", snap.Records[0].ID)
	assert.Equal(t, "2301.07041v1", rec.ID, "input records are not modified")
}

func TestFileStore_VersionedLegacyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzed_papers.txt")
	require.NoError(t, os.WriteFile(path, []byte("2301.07041v1,T,80\n2301.07041v2,T (revised),85\n"), 0o644))

	snap, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	got, ok := snap.Get("2301.07041")
	require.True(t, ok)
	assert.Equal(t, types.DedupRecord{ID: "2301.07041", Title: "T (revised)", RelevanceScore: 85}, got)
}

func TestFormatLine_RoundTrip(t *testing.T) {
	recs := []types.DedupRecord{
		{ID: "2401.00001", Title: "Plain", RelevanceScore: 0},
		{ID: "2401.00002", Title: "Commas, everywhere, here", RelevanceScore: 100},
		{ID: "2401.00003", Title: "", RelevanceScore: 55},
	}
	for _, rec := range recs {
		got, ok := ParseLine(FormatLine(rec))
		require.True(t, ok)
		assert.Equal(t, rec, got)
	}
}

func TestFormatLine_StripsLineBreaks(t *testing.T) {
	got := FormatLine(types.DedupRecord{ID: "x", Title: "a\nb\r\nc\rd", RelevanceScore: 1})
	assert.Equal(t, "x,a b c d,1", got)
}

// --- FileStore ---

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.txt"))
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.False(t, snap.Has("anything"))
}

func TestFileStore_AppendThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "analyzed_papers.txt")
	s := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "a", Title: "First", RelevanceScore: 90}))
	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "b", Title: "Second, part two", RelevanceScore: 70}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,First,90\nb,Second, part two,70\n", string(data))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	score, ok := snap.Score("b")
	assert.True(t, ok)
	assert.Equal(t, 70, score)
}

func TestFileStore_LegacyLinesAndLastWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzed_papers.txt")
	content := "old1\n\nold2,Legacy Title\nold3,T,notanumber\ndup,First,10\ndup,Second,20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	r, ok := snap.Get("old1")
	require.True(t, ok)
	assert.Equal(t, types.UnknownTitle, r.Title)
	assert.Equal(t, 0, r.RelevanceScore)

	r, _ = snap.Get("old2")
	assert.Equal(t, "Legacy Title", r.Title)
	assert.Equal(t, 0, r.RelevanceScore)

	score, _ := snap.Score("old3")
	assert.Equal(t, 0, score)

	r, _ = snap.Get("dup")
	assert.Equal(t, "Second", r.Title)
	assert.Equal(t, 20, r.RelevanceScore)

	assert.Equal(t, 4, snap.Len())
	assert.Len(t, snap.Records, 5)
	assert.Len(t, snap.Unique(), 4)
	assert.Contains(t, snap.IDs(), "old3")
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStore(filepath.Join(t.TempDir(), "x.txt"))
	assert.ErrorIs(t, s.Append(ctx, types.DedupRecord{ID: "a"}), context.Canceled)
}

func TestFileStore_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes OpenFile fail.
	path := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(path, 0o755))

	err := NewFileStore(path).Append(context.Background(), types.DedupRecord{ID: "a"})
	assert.True(t, errors.Is(err, types.ErrPersistence), "got %v", err)
}

// --- SQLiteStore ---

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())

	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "a", Title: "Alpha", RelevanceScore: 80}))
	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "b", Title: "Beta", RelevanceScore: 60}))
	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "a", Title: "Alpha v2", RelevanceScore: 85}))
	require.NoError(t, s.Append(ctx, types.DedupRecord{ID: "2301.07041v2", Title: "Versioned", RelevanceScore: 70}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())
	assert.Len(t, snap.Records, 4)
	assert.True(t, snap.Has("2301.07041"))
	r, _ := snap.Get("a")
	assert.Equal(t, "Alpha v2", r.Title)
	assert.Equal(t, 85, r.RelevanceScore)
}

// --- Open ---

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(types.DedupConfig{Backend: types.DedupFile, Path: filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(types.DedupConfig{Backend: types.DedupSQLite, Path: filepath.Join(dir, "a.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open(types.DedupConfig{Backend: "redis", Path: "x"})
	assert.ErrorIs(t, err, types.ErrPersistence)
}

// --- Export ---

func TestExport(t *testing.T) {
	snap := NewSnapshot([]types.DedupRecord{
		{ID: "2401.00001", Title: "One", RelevanceScore: 10},
		{ID: "2401.00002", Title: "Two", RelevanceScore: 20},
		{ID: "2401.00001", Title: "One again", RelevanceScore: 15},
	})

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, snap, FormatJSON))
	var fromJSON []ExportEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, "2401.00002", fromJSON[0].ID)
	assert.Equal(t, "One again", fromJSON[1].Title)
	assert.Equal(t, "https://arxiv.org/abs/2401.00001", fromJSON[1].URL)

	buf.Reset()
	require.NoError(t, Export(&buf, snap, FormatYAML))
	var fromYAML []ExportEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)

	assert.Error(t, Export(&buf, snap, "csv"))
}
