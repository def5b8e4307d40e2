// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze downloads a paper, extracts its text and asks the model
// for a structured analysis.
package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultMaxInputChars bounds the full text sent to the model.
const DefaultMaxInputChars = 400000

// NotConfiguredAnalysis stands in for the analysis when no model is set up.
const NotConfiguredAnalysis = "**Highlights**\nModel API key not configured. Add it to the configuration or the secrets directory.\n\n**Concrete Work**\nNo analysis performed."

// PDFSource retrieves PDF bytes for a location.
type PDFSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Analyzer runs retrieval, extraction and analysis for one paper.
type Analyzer struct {
	source    PDFSource
	extractor extract.Extractor
	gen       llm.Generator
	maxChars  int
	logger    *slog.Logger
}

// New creates an Analyzer. gen may be nil.
func New(source PDFSource, extractor extract.Extractor, gen llm.Generator, maxChars int, logger *slog.Logger) *Analyzer {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{source: source, extractor: extractor, gen: gen, maxChars: maxChars, logger: logger}
}

// Analyze returns the paper with its full text and the model's analysis,
// verbatim. Errors wrap types.ErrDownload, types.ErrExtract or
// types.ErrModel.
func (a *Analyzer) Analyze(ctx context.Context, c types.Candidate) (types.AnalyzedPaper, error) {
	data, err := a.source.Fetch(ctx, c.PDFURL)
	if err != nil {
		return types.AnalyzedPaper{}, fmt.Errorf("retrieving %s: %w", c.ID, err)
	}
	a.logger.Debug("downloaded pdf", "id", c.ID, "bytes", len(data))

	text, err := a.extractor.Extract(ctx, data)
	if err != nil {
		return types.AnalyzedPaper{}, fmt.Errorf("extracting %s: %w", c.ID, err)
	}
	a.logger.Debug("extracted text", "id", c.ID, "chars", len(text))

	paper := types.AnalyzedPaper{Candidate: c, FullText: text}

	if a.gen == nil {
		a.logger.Warn("model not configured, skipping analysis", "id", c.ID)
		paper.Analysis = NotConfiguredAnalysis
		return paper, nil
	}

	prompt, err := renderPrompt(c.Title, c.Authors, text, a.maxChars)
	if err != nil {
		return types.AnalyzedPaper{}, err
	}

	analysis, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return types.AnalyzedPaper{}, fmt.Errorf("analyzing %s: %w", c.ID, err)
	}
	paper.Analysis = analysis
	return paper, nil
}
