// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch discovers candidate papers and attaches a relevance score to
// each, reusing stored scores for papers already seen.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/paper-digest/internal/dedup"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Source searches a paper provider. A zero [from, to) means no date filter.
type Source interface {
	Name() string
	Search(ctx context.Context, cfg types.SearchConfig, from, to time.Time) ([]types.Candidate, error)
}

// Scorer rates how well a paper matches the search criteria, 0-100.
type Scorer interface {
	Score(ctx context.Context, title, summary string) int
}

// Fetcher combines a Source with a Scorer.
type Fetcher struct {
	Source Source
	Scorer Scorer
	Logger *slog.Logger
}

// Window returns the lookback range [midnight(now)-days, midnight(now)) in
// now's location. days <= 0 returns zero times, meaning no filtering.
func Window(now time.Time, days int) (from, to time.Time) {
	if days <= 0 {
		return time.Time{}, time.Time{}
	}
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from = to.AddDate(0, 0, -days)
	return from, to
}

// InWindow reports whether t falls within [from, to).
func InWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// Fetch queries the source and scores every candidate. Candidates whose id
// is in snap take the stored score without a model call. When cfg selects
// papers by id and a lookback is configured, papers published outside the
// window are dropped. A source failure returns no candidates.
func (f *Fetcher) Fetch(ctx context.Context, cfg types.SearchConfig, snap dedup.Snapshot, now time.Time) ([]types.Candidate, error) {
	logger := f.logger()
	from, to := Window(now, cfg.LookbackDays)

	found, err := f.Source.Search(ctx, cfg, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", f.Source.Name(), err)
	}

	cands := make([]types.Candidate, 0, len(found))
	reused := 0
	for _, c := range found {
		if len(cfg.IDs) > 0 && !from.IsZero() && !InWindow(c.Published, from, to) {
			logger.Debug("outside lookback window", "id", c.ID, "published", c.Published)
			continue
		}

		if score, ok := snap.Score(c.ID); ok {
			c.RelevanceScore = score
			reused++
			logger.Debug("using stored relevance score", "id", c.ID, "score", score)
		} else {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.RelevanceScore = f.Scorer.Score(ctx, c.Title, c.Summary)
			logger.Debug("scored relevance", "id", c.ID, "title", c.Title, "score", c.RelevanceScore)
		}
		c.Scored = true
		cands = append(cands, c)
	}

	logger.Info("fetched candidates", "source", f.Source.Name(),
		"returned", len(found), "candidates", len(cands), "stored_scores", reused)
	return cands, nil
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
