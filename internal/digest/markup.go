// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	headingPattern = regexp.MustCompile(`^(#+)\s*(.*)$`)
)

// MarkupLines converts the lightweight markdown models emit into HTML, line
// by line. The text is HTML-escaped first, so only the markup introduced
// here reaches the page.
func MarkupLines(analysis string) template.HTML {
	lines := strings.Split(strings.ReplaceAll(analysis, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines)+2)
	inList := false

	for _, line := range lines {
		line = boldPattern.ReplaceAllString(template.HTMLEscapeString(line), "<strong>$1</strong>")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			if !inList {
				out = append(out, "<ul>")
				inList = true
			}
			out = append(out, "<li>"+strings.TrimSpace(trimmed[2:])+"</li>")
			continue
		}

		if inList {
			out = append(out, "</ul>")
			inList = false
		}

		switch m := headingPattern.FindStringSubmatch(trimmed); {
		case m != nil:
			level := min(len(m[1]), 3)
			out = append(out, fmt.Sprintf("<h%d>%s</h%d>", level, strings.TrimSpace(m[2]), level))
		case trimmed != "":
			out = append(out, "<p>"+trimmed+"</p>")
		default:
			out = append(out, "<br>")
		}
	}
	if inList {
		out = append(out, "</ul>")
	}

	return template.HTML(strings.Join(out, "\n"))
}

// markdownRenderer renders CommonMark with GitHub extensions. Raw HTML in
// the source is omitted.
var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// MarkupGoldmark converts analysis as full markdown.
func MarkupGoldmark(analysis string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(analysis), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
