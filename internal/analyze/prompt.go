// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// analysisPromptTmpl asks for the fixed eight-part structured review.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`As an expert AI researcher, analyze the full text of the paper below rigorously and professionally. Output only the structured summary that follows, with no introduction or preamble.

Paper title: {{.Title}}
{{- if .Authors}}
Listed authors: {{.Authors}}
{{- end}}

Full text:
"""
{{.Text}}
"""
{{- if .Truncated}}
(The full text was truncated to fit the model context.)
{{- end}}

Structure your analysis as follows:

0. **Author & Institution Analysis**:
   - Briefly describe the authors (including email addresses if present in the text).
   - Name the main institution, company or university behind the paper.

1. **Abstract**:
   - Summarize the core content, goals, method and main findings.

2. **Introduction**:
   - Research background, motivation and the key problem addressed.
   - Main contributions and novelty.

3. **Related Work**:
   - Comparison with existing research, highlighting what is new.

4. **Methodology**:
   - The proposed method, model, algorithm or framework in detail.
   - Key technical details and theoretical basis.

5. **Experiments & Results**:
   - Experimental setup, datasets and evaluation metrics.
   - Key results with a first analysis.

6. **Discussion**:
   - Interpretation of the results, their significance and limitations.
   - Potential impact and future research directions.

7. **Conclusion**:
   - Main findings and contributions.
   - The value of the work.

Be thorough, logically clear and focused, and follow the structure above strictly.
`))

type promptData struct {
	Title     string
	Authors   string
	Text      string
	Truncated bool
}

// renderPrompt fills the template, cutting text to at most maxChars runes.
func renderPrompt(title string, authors []string, text string, maxChars int) (string, error) {
	data := promptData{Title: title, Authors: strings.Join(authors, ", ")}
	data.Text, data.Truncated = truncate(text, maxChars)

	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return buf.String(), nil
}

// truncate keeps the first maxChars runes of s. maxChars <= 0 keeps all.
func truncate(s string, maxChars int) (string, bool) {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s, false
	}
	i, n := 0, 0
	for i = range s {
		if n == maxChars {
			break
		}
		n++
	}
	return s[:i], true
}
