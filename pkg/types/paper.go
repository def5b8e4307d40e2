// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline:
// discovered candidates, analyzed papers, dedup records, configuration, and
// the error classes every stage wraps its failures in.
package types

import "time"

// Candidate is one paper discovered by a metadata fetch, before deep analysis.
// Candidates are created fresh every run; only the (ID, Title, RelevanceScore)
// projection survives, through the dedup store.
type Candidate struct {
	// ID is the stable external identifier (arXiv ID without version suffix).
	// It is the sole dedup key.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title as returned by the search provider.
	Title string `json:"title" yaml:"title"`

	// Summary is the provider-supplied abstract.
	Summary string `json:"summary" yaml:"summary"`

	// PDFURL locates the full text: a remote URL or a local path.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Published is the first-version submission time.
	Published time.Time `json:"published" yaml:"published"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the arXiv categories, primary first.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// RelevanceScore is the 0-100 relevance score. Meaningful only when Scored.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	// Scored reports whether RelevanceScore has been populated, either from
	// the dedup snapshot or from a fresh scoring call.
	Scored bool `json:"scored" yaml:"scored"`
}

// AnalyzedPaper is a Candidate whose full text was extracted and analyzed.
// It is consumed once by the digest formatter and never persisted.
type AnalyzedPaper struct {
	Candidate `yaml:",inline"`

	// FullText is the extracted plain text, pages in order.
	FullText string `json:"-" yaml:"-"`

	// Analysis is the model's structured analysis, kept verbatim.
	Analysis string `json:"analysis" yaml:"analysis"`
}

// DedupRecord marks a paper that completed deep analysis.
type DedupRecord struct {
	ID             string `json:"id" yaml:"id" db:"id"`
	Title          string `json:"title" yaml:"title" db:"title"`
	RelevanceScore int    `json:"relevance_score" yaml:"relevance_score" db:"relevance_score"`
}

// UnknownTitle is recorded for legacy dedup lines that carried only an ID.
const UnknownTitle = "Unknown Title"

// RecordFor projects a candidate onto the persisted dedup record.
func RecordFor(c Candidate) DedupRecord {
	return DedupRecord{ID: c.ID, Title: c.Title, RelevanceScore: c.RelevanceScore}
}
