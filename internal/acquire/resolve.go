// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// LocationType classifies a paper location.
type LocationType int

const (
	TypeUnknown LocationType = iota
	TypeArxiv
	TypeURL
	TypeFile
)

func (t LocationType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeURL:
		return "url"
	case TypeFile:
		return "file"
	default:
		return "unknown"
	}
}

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?i:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// arxivURLPattern matches arxiv.org abstract and PDF links.
var arxivURLPattern = regexp.MustCompile(`^https?://(?:www\.|export\.)?arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)(?:\.pdf)?/?$`)

// Classify determines the location type and returns the normalized form:
// the bare arXiv ID, the URL as given, or a filesystem path with any
// file:// scheme removed.
func Classify(location string) (LocationType, string) {
	location = strings.TrimSpace(location)
	if location == "" {
		return TypeUnknown, ""
	}

	if m := arxivPattern.FindStringSubmatch(location); m != nil {
		return TypeArxiv, m[1]
	}

	if u, err := url.Parse(location); err == nil {
		switch u.Scheme {
		case "http", "https":
			return TypeURL, location
		case "file":
			return TypeFile, filepath.FromSlash(u.Path)
		}
	}

	return TypeFile, location
}

// ArxivID returns the arXiv ID (version stripped) a location refers to,
// whether given bare or as an arxiv.org abs/pdf URL.
func ArxivID(location string) (string, bool) {
	location = strings.TrimSpace(location)
	var id string
	if m := arxivPattern.FindStringSubmatch(location); m != nil {
		id = m[1]
	} else if m := arxivURLPattern.FindStringSubmatch(location); m != nil {
		id = m[1]
	} else {
		return "", false
	}
	if v := strings.LastIndex(id, "v"); v > 0 {
		id = id[:v]
	}
	return id, true
}

// PDFURL returns the download URL for a classified location: the arXiv PDF
// endpoint for IDs, the URL itself for URLs, and "" for files.
func PDFURL(t LocationType, normalized string) string {
	switch t {
	case TypeArxiv:
		return arxivPDFBase + normalized
	case TypeURL:
		return normalized
	default:
		return ""
	}
}

// DisplayName returns a human-readable stem for a location, used as a title
// when no metadata is available.
func DisplayName(location string) string {
	t, normalized := Classify(location)
	switch t {
	case TypeArxiv:
		return "arXiv:" + normalized
	case TypeURL:
		u, err := url.Parse(normalized)
		if err != nil {
			return normalized
		}
		base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			return u.Host
		}
		return base
	case TypeFile:
		return strings.TrimSuffix(filepath.Base(normalized), filepath.Ext(normalized))
	default:
		return location
	}
}
