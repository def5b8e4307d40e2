// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

var day = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

// --- MarkupLines ---

func TestMarkupLines_HighlightsExample(t *testing.T) {
	got := string(MarkupLines("**Highlights**\n- Point 1\n- Point 2\n\n**Concrete Work**"))

	want := strings.Join([]string{
		"<p><strong>Highlights</strong></p>",
		"<ul>",
		"<li>Point 1</li>",
		"<li>Point 2</li>",
		"</ul>",
		"<br>",
		"<p><strong>Concrete Work</strong></p>",
	}, "\n")
	assert.Equal(t, want, got)
	assert.Less(t, strings.Index(got, "</ul>"), strings.Index(got, "<br>"))
}

func TestMarkupLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading levels", "# One\n## Two\n#### Four", "<h1>One</h1>\n<h2>Two</h2>\n<h3>Four</h3>"},
		{"heading without space", "##Tight", "<h2>Tight</h2>"},
		{"list closed at end", "* a\n  - b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{"list closed before heading", "- a\n# H", "<ul>\n<li>a</li>\n</ul>\n<h1>H</h1>"},
		{"non-greedy bold", "**a** and **b**", "<p><strong>a</strong> and <strong>b</strong></p>"},
		{"escapes html", "<script>x</script> & **<b>**", "<p>&lt;script&gt;x&lt;/script&gt; &amp; <strong>&lt;b&gt;</strong></p>"},
		{"bullet with bold", "* **Key**: value", "<ul>\n<li><strong>Key</strong>: value</li>\n</ul>"},
		{"blank lines", "a\n\n\nb", "<p>a</p>\n<br>\n<br>\n<p>b</p>"},
		{"crlf", "a\r\nb", "<p>a</p>\n<p>b</p>"},
		{"dash without space is text", "-not a bullet", "<p>-not a bullet</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(MarkupLines(tt.in)))
		})
	}
}

// --- MarkupGoldmark ---

func TestMarkupGoldmark(t *testing.T) {
	got, err := MarkupGoldmark("## Method\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	s := string(got)
	assert.Contains(t, s, "<h2>Method</h2>")
	assert.Contains(t, s, "<table>")
	assert.NotContains(t, s, "<script>")
}

// --- Render ---

func samplePapers() []types.AnalyzedPaper {
	return []types.AnalyzedPaper{
		{
			Candidate: types.Candidate{
				ID: "2403.01234", Title: "Attention <Again>", PDFURL: "https://arxiv.org/pdf/2403.01234",
				Summary: "We revisit attention.", Authors: []string{"Ada", "Alan"},
				RelevanceScore: 95, Scored: true,
			},
			Analysis: "**Highlights**\n- fast",
		},
		{
			Candidate: types.Candidate{ID: "local", Title: "Local Paper", PDFURL: "/tmp/local.pdf"},
			Analysis:  "plain",
		},
	}
}

func TestRender(t *testing.T) {
	html, err := New(types.DigestConfig{}).Render(day, samplePapers())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "<h1>Daily arXiv Paper Digest</h1>")
	assert.Contains(t, html, "2024-03-10")
	assert.Contains(t, html, `<h2>1. <a href="https://arxiv.org/pdf/2403.01234">Attention &lt;Again&gt;</a> (Relevance Score: 95)</h2>`)
	assert.Contains(t, html, "<p><strong>Authors:</strong> Ada, Alan</p>")
	assert.Contains(t, html, "<p>We revisit attention.</p>")
	assert.Contains(t, html, "<ul>\n<li>fast</li>\n</ul>")
	assert.Contains(t, html, "2. <a href=\"/tmp/local.pdf\">Local Paper</a> (Relevance Score: N/A)")
	assert.Equal(t, 1, strings.Count(html, "Authors:"), "papers without authors omit the line")
	assert.Equal(t, 2, strings.Count(html, "<hr>"))
}

func TestRender_Goldmark(t *testing.T) {
	html, err := New(types.DigestConfig{Renderer: types.RendererGoldmark}).Render(day, samplePapers())
	require.NoError(t, err)
	assert.Contains(t, html, "<li>fast</li>")
	assert.Contains(t, html, "<p><strong>Highlights</strong></p>")
}

func TestRender_Empty(t *testing.T) {
	html, err := New(types.DigestConfig{}).Render(day, nil)
	require.NoError(t, err)
	assert.NotContains(t, html, "<h2>")
}

// --- Archive ---

func TestArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	f := New(types.DigestConfig{ArchiveDir: dir})

	path, err := f.Archive(day, "", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "digest-2024-03-10.html"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	path, err = f.Archive(day, "paper-hep/123", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "paper-hep_123-2024-03-10.html"), path)
}

func TestArchive_Disabled(t *testing.T) {
	path, err := New(types.DigestConfig{}).Archive(day, "", "x")
	require.NoError(t, err)
	assert.Empty(t, path)
}

// --- Subjects ---

func TestSubjects(t *testing.T) {
	assert.Equal(t, "Daily arXiv Digest: Top 2 New Papers - 2024-03-10", Subject(2, day))
	assert.Equal(t, "Paper Analysis: World Models - 2024-03-10", SingleSubject("World Models", day))
}
