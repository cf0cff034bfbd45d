// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/metasearch/pkg/types"
)

func TestCrossrefNormalization(t *testing.T) {
	payload := `{"status":"ok","message":{"items":[
		{
			"DOI":"10.1000/abc",
			"title":["On Federated Retrieval"],
			"abstract":"<jats:p>A study of merged result sets.</jats:p>",
			"author":[
				{"given":"Ada","family":"Lovelace"},
				{"name":"Consortium Group"},
				{"given":"","family":""}
			],
			"issued":{"date-parts":[[2018,4,1]]}
		},
		{
			"DOI":"10.1000/def",
			"URL":"https://doi.org/10.1000/def",
			"title":[],
			"container-title":["Journal of Examples"],
			"created":{"date-parts":[[2020]]}
		}
	]}}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer ts.Close()

	old := crossrefBase
	crossrefBase = ts.URL
	defer func() { crossrefBase = old }()

	p := &Crossref{Client: ts.Client(), Email: "team@example.com"}
	items, err := p.Search(context.Background(), types.Query{FreeText: "federated retrieval"}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.Title != "On Federated Retrieval" {
		t.Errorf("title = %q", first.Title)
	}
	// No URL field: synthesized from the bare DOI.
	if first.URL != "https://doi.org/10.1000/abc" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Year != 2018 {
		t.Errorf("year = %d", first.Year)
	}
	wantAuthors := []string{"Ada Lovelace", "Consortium Group"}
	if len(first.Authors) != 2 || first.Authors[0] != wantAuthors[0] || first.Authors[1] != wantAuthors[1] {
		t.Errorf("authors = %v, want %v", first.Authors, wantAuthors)
	}
	if first.Snippet != "A study of merged result sets." {
		t.Errorf("markup not stripped: %q", first.Snippet)
	}
	if got := first.Extra["doi"]; got != "10.1000/abc" {
		t.Errorf("doi extra = %v", got)
	}

	second := items[1]
	if second.Title != "Journal of Examples" {
		t.Errorf("container-title fallback: %q", second.Title)
	}
	if second.URL != "https://doi.org/10.1000/def" {
		t.Errorf("registry URL preferred: %q", second.URL)
	}
	if second.Year != 2020 {
		t.Errorf("created year fallback: %d", second.Year)
	}
}

func TestCrossrefRequestParams(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"status":"ok","message":{"items":[]}}`)
	}))
	defer ts.Close()

	old := crossrefBase
	crossrefBase = ts.URL
	defer func() { crossrefBase = old }()

	p := &Crossref{Client: ts.Client(), Email: "team@example.com"}
	if _, err := p.Search(context.Background(), types.Query{FreeText: "q"}, 7); err != nil {
		t.Fatalf("Search: %v", err)
	}

	params := captured.URL.Query()
	if got := params.Get("rows"); got != "7" {
		t.Errorf("rows = %q", got)
	}
	if got := params.Get("mailto"); got != "team@example.com" {
		t.Errorf("mailto = %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"<jats:p>wrapped</jats:p>", "wrapped"},
		{" <b>a</b>  <i>b</i> ", "a b"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripMarkup(tt.in); got != tt.want {
			t.Errorf("stripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
