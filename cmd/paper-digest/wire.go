// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"

	"github.com/pdiddy/paper-digest/internal/acquire"
	"github.com/pdiddy/paper-digest/internal/analyze"
	"github.com/pdiddy/paper-digest/internal/arxiv"
	"github.com/pdiddy/paper-digest/internal/dedup"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/fetch"
	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/internal/mail"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/score"
	"github.com/pdiddy/paper-digest/internal/telemetry"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// app owns the runner and the resources it holds open.
type app struct {
	runner *pipeline.Runner
	store  dedup.Store
}

// newApp builds every stage from cfg.
func newApp(ctx context.Context, cfg types.Config, logger *slog.Logger) (*app, error) {
	gen, err := llm.New(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		logger.Warn("model API key not configured: relevance scores will be 0 and analyses placeholders",
			"provider", cfg.Model.Provider)
	} else {
		logger.Info("using model", "provider", cfg.Model.Provider, "model", gen.ModelName())
	}

	extractor, err := extract.New(ctx, cfg.Analysis.Extractor)
	if err != nil {
		return nil, err
	}

	store, err := dedup.Open(cfg.Dedup)
	if err != nil {
		return nil, err
	}

	source := arxiv.New(cfg.Search.HTTPConfig)
	pdfs := acquire.New(cfg.Search.HTTPConfig, cfg.Analysis.MaxPDFBytes)

	runner := &pipeline.Runner{
		Config: cfg,
		Store:  store,
		Fetcher: &fetch.Fetcher{
			Source: source,
			Scorer: score.New(gen, cfg.Search, logger),
			Logger: logger,
		},
		Analyzer:  analyze.New(pdfs, extractor, gen, cfg.Analysis.MaxInputChars, logger),
		Formatter: digest.New(cfg.Digest),
		Sender:    mail.New(cfg.Mail, logger),
		Metadata:  source,
		Logger:    logger,
		Tracer:    telemetry.Tracer(),
	}
	return &app{runner: runner, store: store}, nil
}

// Close releases the dedup store.
func (a *app) Close() error {
	return a.store.Close()
}
