// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire retrieves paper PDFs into memory from arXiv, arbitrary
// URLs or the local filesystem.
package acquire

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// DefaultMaxBytes caps a single PDF download.
const DefaultMaxBytes int64 = 64 << 20

// Fetcher downloads or reads PDFs.
type Fetcher struct {
	Client   *http.Client
	HTTP     types.HTTPConfig
	MaxBytes int64
}

// New returns a Fetcher using cfg for timeouts and headers.
func New(cfg types.HTTPConfig, maxBytes int64) *Fetcher {
	return &Fetcher{Client: httputil.NewClient(cfg), HTTP: cfg, MaxBytes: maxBytes}
}

// Fetch returns the bytes at location. Every failure wraps
// types.ErrDownload.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	t, normalized := Classify(location)
	switch t {
	case TypeArxiv, TypeURL:
		return f.download(ctx, PDFURL(t, normalized))
	case TypeFile:
		return f.readFile(normalized)
	default:
		return nil, fmt.Errorf("%w: unrecognized location %q", types.ErrDownload, location)
	}
}

// download sets User-Agent and requests PDF via the Accept header. The
// HTTP client follows redirects.
func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.Get(ctx, client, url, "application/pdf", f.HTTP)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrDownload, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", types.ErrDownload, resp.StatusCode, url)
	}

	limit := f.maxBytes()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrDownload, url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", types.ErrDownload, url, limit)
	}
	return data, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrDownload, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", types.ErrDownload, path)
	}
	if info.Size() > f.maxBytes() {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", types.ErrDownload, path, f.maxBytes())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrDownload, err)
	}
	return data, nil
}

func (f *Fetcher) maxBytes() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return DefaultMaxBytes
}
