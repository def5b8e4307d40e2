// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates a paper's title and abstract against the configured
// search criteria using a language model.
package score

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/paper-digest/internal/llm"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var scorePromptTmpl = template.Must(template.New("score").Parse(`You are an expert AI research assistant. Rate how relevant the following paper is to the search criteria on a scale from 0 to 100, where 100 means highly relevant and 0 means not relevant at all.

Search criteria: {{.Criteria}}

Paper title: {{.Title}}
Paper abstract: {{.Summary}}

Respond with a single integer and nothing else.
`))

// Scorer calls a Generator once per paper. A nil Generator scores every
// paper 0.
type Scorer struct {
	gen      llm.Generator
	criteria string
	logger   *slog.Logger
}

// New returns a Scorer for the criteria in cfg.
func New(gen llm.Generator, cfg types.SearchConfig, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{gen: gen, criteria: Criteria(cfg), logger: logger}
}

// Criteria describes the search criteria for the prompt.
func Criteria(cfg types.SearchConfig) string {
	var parts []string
	if q := strings.TrimSpace(cfg.Query); q != "" {
		parts = append(parts, "Keywords: "+q)
	}
	if len(cfg.Categories) > 0 {
		parts = append(parts, "Categories: "+strings.Join(cfg.Categories, ", "))
	}
	if len(parts) == 0 {
		return "No specific search criteria"
	}
	return strings.Join(parts, "; ")
}

// Score returns the relevance of the paper, 0-100. Model failures and
// unparseable replies score 0.
func (s *Scorer) Score(ctx context.Context, title, summary string) int {
	if s.gen == nil {
		return 0
	}

	var buf bytes.Buffer
	if err := scorePromptTmpl.Execute(&buf, struct{ Criteria, Title, Summary string }{s.criteria, title, summary}); err != nil {
		s.logger.Warn("rendering score prompt", "error", err)
		return 0
	}

	reply, err := s.gen.Generate(ctx, buf.String())
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "relevance scoring failed", "title", title, "error", err,
			"model_error", errors.Is(err, types.ErrModel))
		return 0
	}

	score, ok := Parse(reply)
	if !ok {
		s.logger.Warn("model returned non-integer score, defaulting to 0", "title", title, "reply", reply)
	}
	return score
}

// Parse extracts an integer score from a model reply, clamped to [0,100].
// It tolerates surrounding whitespace, code fences and a trailing period.
func Parse(reply string) (int, bool) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.Trim(strings.TrimSpace(s), "`")
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return max(0, min(100, n)), true
}
