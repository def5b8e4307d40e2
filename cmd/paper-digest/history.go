// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/dedup"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the record of analyzed papers",
	Long: `History reads the dedup store (dedup.path) that records every paper
the pipeline has analyzed, so it is never analyzed twice.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print analyzed papers",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	snap, err := loadHistory(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(os.Stdout, snap, jsonOutput)
}

func formatHistory(w io.Writer, snap dedup.Snapshot, jsonOutput bool) error {
	records := snap.Unique()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No papers analyzed yet.")
		return nil
	}

	fmt.Fprintf(w, "%-14s  %-5s  %s\n", "ID", "Score", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range records {
		title := r.Title
		if len(title) > 57 {
			title = title[:54] + "..."
		}
		fmt.Fprintf(w, "%-14s  %-5d  %s\n", r.ID, r.RelevanceScore, title)
	}
	fmt.Fprintf(w, "\n%d papers\n", len(records))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export analyzed papers to YAML or JSON",
	Long: `Export writes every analyzed paper, one entry per ID with its latest
title and score, to --out (stdout when empty).`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	snap, err := loadHistory(cmd.Context())
	if err != nil {
		return err
	}

	if out == "" {
		return dedup.Export(os.Stdout, snap, format)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := dedup.Export(f, snap, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d papers to %s\n", snap.Len(), out)
	return nil
}

// --- shared helpers ---

func loadHistory(ctx context.Context) (dedup.Snapshot, error) {
	store, err := dedup.Open(appConfig.Dedup)
	if err != nil {
		return dedup.Snapshot{}, err
	}
	defer store.Close()
	return store.Load(ctx)
}

func init() {
	historyListCmd.Flags().Bool("json", false, "output records as JSON")
	historyExportCmd.Flags().String("format", dedup.FormatYAML, "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output file (default: stdout)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
