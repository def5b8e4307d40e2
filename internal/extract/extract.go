// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns PDF bytes into plain text.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-digest/internal/container"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Extractor returns the text of a PDF, pages in order. Unparseable input
// and documents with no text wrap types.ErrExtract.
type Extractor interface {
	Extract(ctx context.Context, pdf []byte) (string, error)
}

// New returns the Extractor for backend. The markitdown backend needs a
// working container runtime and the image present locally.
func New(ctx context.Context, backend types.ExtractorBackend) (Extractor, error) {
	switch backend {
	case types.ExtractorPDF, "":
		return PDFExtractor{}, nil
	case types.ExtractorMarkitdown:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownExtractor(ctx, rt)
	default:
		return nil, fmt.Errorf("unsupported extractor %q", backend)
	}
}

// nonEmpty rejects whitespace-only output.
func nonEmpty(text, backend string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s produced no text", types.ErrExtract, backend)
	}
	return text, nil
}
