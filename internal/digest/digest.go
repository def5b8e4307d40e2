// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest renders analyzed papers into the HTML email body.
package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const dateLayout = "2006-01-02"

var pageTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Heading}}</title>
<style>body { font-family: sans-serif; } h1, h2, h3 { color: #333; } a { color: #1a73e8; text-decoration: none; } hr { border: 0; border-top: 1px solid #eee; }</style>
</head>
<body>
<h1>{{.Heading}}</h1>
<p>{{.Date}}</p>
{{range .Papers -}}
<h2>{{.Index}}. <a href="{{.URL}}">{{.Title}}</a> (Relevance Score: {{.Score}})</h2>
{{if .Authors}}<p><strong>Authors:</strong> {{.Authors}}</p>
{{end -}}
<h3>Summary:</h3>
<p>{{.Summary}}</p>
<h3>Analysis:</h3>
<div>
{{.Analysis}}
</div>
<hr>
{{end -}}
</body>
</html>
`))

type pageData struct {
	Heading string
	Date    string
	Papers  []paperData
}

type paperData struct {
	Index    int
	URL      string
	Title    string
	Score    string
	Authors  string
	Summary  string
	Analysis template.HTML
}

// Formatter renders digests.
type Formatter struct {
	renderer   types.DigestRenderer
	archiveDir string
}

// New creates a Formatter from cfg.
func New(cfg types.DigestConfig) *Formatter {
	return &Formatter{renderer: cfg.Renderer, archiveDir: cfg.ArchiveDir}
}

// Render produces the complete HTML document for papers, numbered from 1
// in the given order.
func (f *Formatter) Render(date time.Time, papers []types.AnalyzedPaper) (string, error) {
	data := pageData{Heading: "Daily arXiv Paper Digest", Date: date.Format(dateLayout)}

	for i, p := range papers {
		analysis, err := f.markup(p.Analysis)
		if err != nil {
			return "", fmt.Errorf("rendering analysis of %s: %w", p.ID, err)
		}
		score := "N/A"
		if p.Scored {
			score = fmt.Sprint(p.RelevanceScore)
		}
		data.Papers = append(data.Papers, paperData{
			Index:    i + 1,
			URL:      p.PDFURL,
			Title:    p.Title,
			Score:    score,
			Authors:  strings.Join(p.Authors, ", "),
			Summary:  p.Summary,
			Analysis: analysis,
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing digest template: %w", err)
	}
	return buf.String(), nil
}

func (f *Formatter) markup(analysis string) (template.HTML, error) {
	if f.renderer == types.RendererGoldmark {
		return MarkupGoldmark(analysis)
	}
	return MarkupLines(analysis), nil
}

// Archive writes html to <archive_dir>/<label>-YYYY-MM-DD.html and returns
// the path; label defaults to "digest". It does nothing and returns "" when
// no directory is configured.
func (f *Formatter) Archive(date time.Time, label, html string) (string, error) {
	if f.archiveDir == "" {
		return "", nil
	}
	if label == "" {
		label = "digest"
	}
	if err := os.MkdirAll(f.archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}
	label = strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(label)
	path := filepath.Join(f.archiveDir, label+"-"+date.Format(dateLayout)+".html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}
	return path, nil
}

// Subject is the subject line for a scheduled digest of n papers.
func Subject(n int, date time.Time) string {
	return fmt.Sprintf("Daily arXiv Digest: Top %d New Papers - %s", n, date.Format(dateLayout))
}

// SingleSubject is the subject line for a single-paper analysis.
func SingleSubject(title string, date time.Time) string {
	return fmt.Sprintf("Paper Analysis: %s - %s", title, date.Format(dateLayout))
}
