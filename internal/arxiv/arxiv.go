// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv queries the arXiv Atom API for paper metadata.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// submittedLayout is the arXiv submittedDate range format.
const submittedLayout = "200601021504"

// Client queries the arXiv API.
type Client struct {
	HTTP *http.Client
}

// New returns a Client whose HTTP timeout comes from cfg.
func New(cfg types.HTTPConfig) *Client {
	return &Client{HTTP: httputil.NewClient(cfg)}
}

// Name returns the source identifier.
func (c *Client) Name() string { return "arxiv" }

// Search runs the configured criteria against arXiv. A non-zero [from, to)
// window restricts category and keyword searches by submittedDate; ID
// searches are returned unfiltered. Results are sorted by submission date,
// newest first.
func (c *Client) Search(ctx context.Context, cfg types.SearchConfig, from, to time.Time) ([]types.Candidate, error) {
	params := url.Values{}
	if len(cfg.IDs) > 0 {
		params.Set("id_list", strings.Join(cfg.IDs, ","))
	} else {
		q := BuildQuery(cfg, from, to)
		if q == "" {
			return nil, fmt.Errorf("%w: empty arXiv query", types.ErrTransport)
		}
		params.Set("search_query", q)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	return c.query(ctx, params, cfg.HTTPConfig)
}

// Lookup fetches a single paper's metadata by arXiv id.
func (c *Client) Lookup(ctx context.Context, id string, cfg types.HTTPConfig) (types.Candidate, error) {
	params := url.Values{}
	params.Set("id_list", id)
	cands, err := c.query(ctx, params, cfg)
	if err != nil {
		return types.Candidate{}, err
	}
	if len(cands) == 0 {
		return types.Candidate{}, fmt.Errorf("%w: no entries found for arXiv ID %s", types.ErrTransport, id)
	}
	return cands[0], nil
}

func (c *Client) query(ctx context.Context, params url.Values, cfg types.HTTPConfig) ([]types.Candidate, error) {
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.Get(ctx, client, apiBase+"?"+params.Encode(), "application/atom+xml", cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: arXiv API request: %w", types.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: arXiv API returned HTTP %d", types.ErrTransport, resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: parsing arXiv response: %w", types.ErrTransport, err)
	}

	cands := make([]types.Candidate, 0, len(f.Entries))
	for _, e := range f.Entries {
		if cand, ok := e.candidate(); ok {
			cands = append(cands, cand)
		}
	}
	return cands, nil
}

// BuildQuery composes the search_query expression. Categories take
// precedence over the free-text query. A zero window adds no date clause.
func BuildQuery(cfg types.SearchConfig, from, to time.Time) string {
	var criteria string
	switch {
	case len(cfg.Categories) > 0:
		cats := make([]string, len(cfg.Categories))
		for i, cat := range cfg.Categories {
			cats[i] = "cat:" + cat
		}
		criteria = strings.Join(cats, " OR ")
	case strings.TrimSpace(cfg.Query) != "":
		criteria = strings.TrimSpace(cfg.Query)
	default:
		return ""
	}

	if from.IsZero() || to.IsZero() {
		return criteria
	}
	// arXiv ranges are inclusive, so the exclusive end steps back a minute.
	date := fmt.Sprintf("submittedDate:[%s TO %s]",
		from.Format(submittedLayout), to.Add(-time.Minute).Format(submittedLayout))
	return "(" + date + ") AND (" + criteria + ")"
}

// Atom feed structures.
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Published  string     `xml:"published"`
	Authors    []author   `xml:"author"`
	Links      []link     `xml:"link"`
	Categories []category `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type category struct {
	Term string `xml:"term,attr"`
}

func (e entry) candidate() (types.Candidate, bool) {
	id := ExtractID(e.ID)
	if id == "" {
		return types.Candidate{}, false
	}

	c := types.Candidate{
		ID:      id,
		Title:   collapse(e.Title),
		Summary: strings.TrimSpace(e.Summary),
	}
	for _, a := range e.Authors {
		c.Authors = append(c.Authors, strings.TrimSpace(a.Name))
	}
	for _, cat := range e.Categories {
		c.Categories = append(c.Categories, cat.Term)
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			c.PDFURL = l.Href
			break
		}
	}
	if c.PDFURL == "" {
		c.PDFURL = "https://arxiv.org/pdf/" + id
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		c.Published = t
	}
	return c, true
}

// ExtractID pulls the arXiv ID from an entry's <id> URL and strips the
// version suffix ("http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func ExtractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return StripVersion(idURL[idx+len(prefix):])
}

// StripVersion removes a trailing "vN" from an arXiv id.
func StripVersion(id string) string {
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			return id[:vIdx]
		}
	}
	return id
}

// collapse folds the line breaks arXiv inserts into long titles.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
