// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paper-digest/pkg/types"
)

var fakePDF = []byte("%PDF-1.4 fake content")

func TestFetch_RemoteURL(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write(fakePDF)
	}))
	defer ts.Close()

	f := &Fetcher{Client: ts.Client(), HTTP: types.HTTPConfig{UserAgent: "paper-digest/test"}}
	got, err := f.Fetch(context.Background(), ts.URL+"/paper.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, fakePDF) {
		t.Errorf("body = %q", got)
	}
	if gotUA != "paper-digest/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAccept != "application/pdf" {
		t.Errorf("Accept = %q", gotAccept)
	}
}

func TestFetch_ArxivID(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write(fakePDF)
	}))
	defer ts.Close()

	old := arxivPDFBase
	arxivPDFBase = ts.URL + "/pdf/"
	defer func() { arxivPDFBase = old }()

	f := &Fetcher{Client: ts.Client()}
	if _, err := f.Fetch(context.Background(), "arXiv:2301.07041v2"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotPath != "/pdf/2301.07041v2" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestFetch_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := &Fetcher{Client: ts.Client()}
	_, err := f.Fetch(context.Background(), ts.URL+"/missing.pdf")
	if !errors.Is(err, types.ErrDownload) {
		t.Errorf("err = %v, want ErrDownload", err)
	}
}

func TestFetch_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := ts.URL
	ts.Close()

	f := &Fetcher{Client: &http.Client{}}
	_, err := f.Fetch(context.Background(), url+"/x.pdf")
	if !errors.Is(err, types.ErrDownload) {
		t.Errorf("err = %v, want ErrDownload", err)
	}
}

func TestFetch_TooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 100))
	}))
	defer ts.Close()

	f := &Fetcher{Client: ts.Client(), MaxBytes: 10}
	_, err := f.Fetch(context.Background(), ts.URL)
	if !errors.Is(err, types.ErrDownload) {
		t.Errorf("err = %v, want ErrDownload", err)
	}
}

func TestFetch_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paper.pdf")
	if err := os.WriteFile(path, fakePDF, 0o644); err != nil {
		t.Fatal(err)
	}

	f := &Fetcher{}
	for _, loc := range []string{path, "file://" + path} {
		got, err := f.Fetch(context.Background(), loc)
		if err != nil {
			t.Fatalf("Fetch(%q): %v", loc, err)
		}
		if !bytes.Equal(got, fakePDF) {
			t.Errorf("Fetch(%q) body = %q", loc, got)
		}
	}
}

func TestFetch_LocalErrors(t *testing.T) {
	dir := t.TempDir()
	f := &Fetcher{}

	tests := []struct {
		name string
		loc  string
	}{
		{"missing file", filepath.Join(dir, "nope.pdf")},
		{"directory", dir},
		{"empty location", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.loc)
			if !errors.Is(err, types.ErrDownload) {
				t.Errorf("err = %v, want ErrDownload", err)
			}
		})
	}
}
