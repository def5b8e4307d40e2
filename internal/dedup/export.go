// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ExportEntry is one record in an export file.
type ExportEntry struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	RelevanceScore int    `json:"relevance_score" yaml:"relevance_score"`
	URL            string `json:"url" yaml:"url"`
}

// Export writes the snapshot's effective records to w.
func Export(w io.Writer, snap Snapshot, format string) error {
	entries := exportEntries(snap)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, FormatYAML, FormatJSON)
	}
}

func exportEntries(snap Snapshot) []ExportEntry {
	recs := snap.Unique()
	entries := make([]ExportEntry, len(recs))
	for i, r := range recs {
		entries[i] = entryFor(r)
	}
	return entries
}

func entryFor(r types.DedupRecord) ExportEntry {
	return ExportEntry{
		ID:             r.ID,
		Title:          r.Title,
		RelevanceScore: r.RelevanceScore,
		URL:            "https://arxiv.org/abs/" + r.ID,
	}
}
