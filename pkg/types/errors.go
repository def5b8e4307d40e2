// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error classes shared by all stages. Stages wrap concrete failures with
// fmt.Errorf("%w: ...: %w", ErrX, err) so callers can branch with errors.Is.
var (
	// ErrTransport marks a failed search or metadata request. Fatal to a run.
	ErrTransport = errors.New("transport error")

	// ErrModel marks a failed language-model call. Scoring degrades to 0;
	// a failed analysis skips that paper.
	ErrModel = errors.New("model error")

	// ErrDownload marks a PDF retrieval failure. The paper is skipped.
	ErrDownload = errors.New("download error")

	// ErrExtract marks a PDF that could not be parsed into text. The paper
	// is skipped.
	ErrExtract = errors.New("extract error")

	// ErrPersistence marks a dedup store that could not be read or written.
	ErrPersistence = errors.New("persistence error")

	// ErrDelivery marks a failed email send. Logged; the run still completes.
	ErrDelivery = errors.New("delivery error")
)
