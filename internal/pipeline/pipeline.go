// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the digest pipeline end to end: load the dedup
// snapshot, fetch and score candidates, select the top unseen papers,
// analyze them one at a time, then render and deliver the digest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/paper-digest/internal/acquire"
	"github.com/pdiddy/paper-digest/internal/dedup"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/mail"
	"github.com/pdiddy/paper-digest/internal/rank"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Fetcher returns scored candidates for a run.
type Fetcher interface {
	Fetch(ctx context.Context, cfg types.SearchConfig, snap dedup.Snapshot, now time.Time) ([]types.Candidate, error)
}

// Analyzer turns one candidate into an analyzed paper.
type Analyzer interface {
	Analyze(ctx context.Context, c types.Candidate) (types.AnalyzedPaper, error)
}

// MetadataLookup resolves an arXiv id to its metadata.
type MetadataLookup interface {
	Lookup(ctx context.Context, id string, cfg types.HTTPConfig) (types.Candidate, error)
}

// Outcome summarizes how a run ended.
type Outcome string

const (
	OutcomeDelivered    Outcome = "delivered"
	OutcomeNoCandidates Outcome = "no_candidates"
	OutcomeNothingNew   Outcome = "nothing_new"
	OutcomeNoneAnalyzed Outcome = "none_analyzed"
)

// Report describes one run.
type Report struct {
	RunID      string
	Outcome    Outcome
	Candidates int
	Selected   []string
	Analyzed   []string
	Skipped    []string

	// PersistErrors holds dedup append failures. A non-empty list is also
	// returned as the run's error after delivery.
	PersistErrors []error

	// DeliveryErr is the email failure, if any. It does not fail the run.
	DeliveryErr error

	// ArchivePath is where the digest was archived, if archiving is enabled.
	ArchivePath string
}

// Runner wires the stages together. Every field except Metadata, Logger and
// Tracer is required.
type Runner struct {
	Config    types.Config
	Store     dedup.Store
	Fetcher   Fetcher
	Analyzer  Analyzer
	Formatter *digest.Formatter
	Sender    mail.Sender
	Metadata  MetadataLookup
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

// Run executes one scheduled run. It returns an error when the snapshot
// cannot be loaded, the fetch fails, or a dedup append failed; delivery
// failures are only recorded in the report.
func (r *Runner) Run(ctx context.Context, now time.Time) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", report.RunID)
	ctx, span := r.tracer().Start(ctx, "pipeline.run", trace.WithAttributes(attribute.String("run_id", report.RunID)))
	defer span.End()

	logger.Info("starting run")

	snap, err := r.load(ctx)
	if err != nil {
		return report, fail(span, err)
	}
	logger.Info("loaded dedup snapshot", "records", snap.Len())

	cands, err := r.fetch(ctx, snap, now)
	if err != nil {
		return report, fail(span, err)
	}
	report.Candidates = len(cands)
	if len(cands) == 0 {
		logger.Info("no papers found")
		report.Outcome = OutcomeNoCandidates
		return report, nil
	}

	selected := rank.Select(cands, snap.IDs(), r.Config.Selection.MaxNewPapers)
	for _, c := range selected {
		report.Selected = append(report.Selected, c.ID)
	}
	if len(selected) == 0 {
		logger.Info("no new papers to analyze", "candidates", len(cands))
		report.Outcome = OutcomeNothingNew
		return report, nil
	}
	logger.Info("selected papers", "count", len(selected), "candidates", len(cands))

	var papers []types.AnalyzedPaper
	for i, c := range selected {
		if err := ctx.Err(); err != nil {
			return report, fail(span, err)
		}
		logger.Info("analyzing paper", "n", i+1, "of", len(selected), "id", c.ID, "score", c.RelevanceScore)

		paper, err := r.analyze(ctx, c)
		if err != nil {
			logger.Warn("skipping paper", "id", c.ID, "error", err)
			report.Skipped = append(report.Skipped, c.ID)
			continue
		}
		papers = append(papers, paper)
		report.Analyzed = append(report.Analyzed, c.ID)

		if err := r.Store.Append(ctx, types.RecordFor(c)); err != nil {
			logger.Error("failed to record analyzed paper", "id", c.ID, "error", err)
			report.PersistErrors = append(report.PersistErrors, err)
		}
	}

	if len(papers) == 0 {
		logger.Warn("no papers analyzed, digest not sent", "skipped", len(report.Skipped))
		report.Outcome = OutcomeNoneAnalyzed
		return report, nil
	}

	if err := r.deliver(ctx, logger, &report, now, "", digest.Subject(len(papers), now), papers); err != nil {
		return report, fail(span, err)
	}
	report.Outcome = OutcomeDelivered
	logger.Info("run complete", "analyzed", len(papers), "skipped", len(report.Skipped))

	if len(report.PersistErrors) > 0 {
		return report, fail(span, errors.Join(report.PersistErrors...))
	}
	return report, nil
}

// RunSingle analyzes one paper at location (local path, URL or arXiv id)
// and emails the result. The dedup store is not read or written.
func (r *Runner) RunSingle(ctx context.Context, location string, now time.Time) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	logger := r.logger().With("run_id", report.RunID)
	ctx, span := r.tracer().Start(ctx, "pipeline.single", trace.WithAttributes(attribute.String("location", location)))
	defer span.End()

	cand, err := r.candidateFor(ctx, logger, location)
	if err != nil {
		return report, fail(span, err)
	}
	report.Selected = []string{cand.ID}
	logger.Info("analyzing single paper", "location", location, "title", cand.Title)

	paper, err := r.analyze(ctx, cand)
	if err != nil {
		report.Skipped = report.Selected
		return report, fail(span, err)
	}
	report.Analyzed = report.Selected

	subject := digest.SingleSubject(cand.Title, now)
	if err := r.deliver(ctx, logger, &report, now, "paper-"+cand.ID, subject, []types.AnalyzedPaper{paper}); err != nil {
		return report, fail(span, err)
	}
	report.Outcome = OutcomeDelivered
	return report, nil
}

// candidateFor builds the candidate for a single-shot location, taking the
// title and authors from arXiv when the location names an arXiv paper.
func (r *Runner) candidateFor(ctx context.Context, logger *slog.Logger, location string) (types.Candidate, error) {
	t, normalized := acquire.Classify(location)
	if t == acquire.TypeUnknown {
		return types.Candidate{}, fmt.Errorf("%w: empty location", types.ErrDownload)
	}

	cand := types.Candidate{ID: acquire.DisplayName(location), Title: acquire.DisplayName(location), PDFURL: location}
	if u := acquire.PDFURL(t, normalized); u != "" {
		cand.PDFURL = u
	} else {
		cand.PDFURL = normalized
	}

	id, ok := acquire.ArxivID(location)
	if !ok {
		return cand, nil
	}
	cand.ID = id
	cand.Title = "arXiv:" + id
	cand.PDFURL = acquire.PDFURL(acquire.TypeArxiv, id)
	if r.Metadata == nil {
		return cand, nil
	}

	meta, err := r.Metadata.Lookup(ctx, id, r.Config.Search.HTTPConfig)
	if err != nil {
		logger.Warn("arXiv metadata lookup failed, using id as title", "id", id, "error", err)
		return cand, nil
	}
	meta.Scored = false
	return meta, nil
}

func (r *Runner) load(ctx context.Context) (dedup.Snapshot, error) {
	_, span := r.tracer().Start(ctx, "dedup.load")
	defer span.End()

	snap, err := r.Store.Load(ctx)
	if err != nil {
		return dedup.Snapshot{}, fail(span, err)
	}
	span.SetAttributes(attribute.Int("records", snap.Len()))
	return snap, nil
}

func (r *Runner) fetch(ctx context.Context, snap dedup.Snapshot, now time.Time) ([]types.Candidate, error) {
	ctx, span := r.tracer().Start(ctx, "fetch")
	defer span.End()

	cands, err := r.Fetcher.Fetch(ctx, r.Config.Search, snap, now)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("candidates", len(cands)))
	return cands, nil
}

func (r *Runner) analyze(ctx context.Context, c types.Candidate) (types.AnalyzedPaper, error) {
	ctx, span := r.tracer().Start(ctx, "analyze", trace.WithAttributes(attribute.String("paper.id", c.ID)))
	defer span.End()

	paper, err := r.Analyzer.Analyze(ctx, c)
	if err != nil {
		return types.AnalyzedPaper{}, fail(span, err)
	}
	return paper, nil
}

// deliver renders, archives and sends the digest. Only a render failure is
// returned; archive and send failures are logged and recorded.
func (r *Runner) deliver(ctx context.Context, logger *slog.Logger, report *Report, now time.Time, label, subject string, papers []types.AnalyzedPaper) error {
	ctx, span := r.tracer().Start(ctx, "deliver", trace.WithAttributes(attribute.Int("papers", len(papers))))
	defer span.End()

	html, err := r.Formatter.Render(now, papers)
	if err != nil {
		return fail(span, err)
	}

	path, err := r.Formatter.Archive(now, label, html)
	if err != nil {
		logger.Error("failed to archive digest", "error", err)
	} else if path != "" {
		report.ArchivePath = path
		logger.Info("archived digest", "path", path)
	}

	if err := r.Sender.Send(ctx, subject, html); err != nil {
		logger.Error("failed to send digest", "error", err)
		report.DeliveryErr = err
		span.RecordError(err)
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer("github.com/pdiddy/paper-digest/internal/pipeline")
}
