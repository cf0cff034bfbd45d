// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/metasearch/pkg/types"
)

func TestSemanticScholarMissingKeySkipsNetwork(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"total":0,"data":[]}`)
	}))
	defer ts.Close()

	old := semanticBase
	semanticBase = ts.URL
	defer func() { semanticBase = old }()

	p := &SemanticScholar{Client: ts.Client()}
	_, err := p.Search(context.Background(), types.Query{FreeText: "x"}, 5)
	if !errors.Is(err, errMissingAPIKey) {
		t.Fatalf("err = %v, want errMissingAPIKey", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("adapter made a network call without a credential")
	}

	res := Run(context.Background(), p, types.Query{FreeText: "x"}, 5, 0)
	if res.ErrorCode != "semanticscholar_missing_api_key" {
		t.Errorf("code = %q", res.ErrorCode)
	}
}

func TestSemanticScholarKeyHeaderAndNormalization(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total":1,"data":[
			{
				"paperId":"p1",
				"title":"Graph Signals",
				"abstract":"An abstract.",
				"year":2017,
				"url":"https://www.semanticscholar.org/paper/p1",
				"authors":[{"authorId":"1","name":"G. Author"},{"authorId":"2","name":""}],
				"externalIds":{"DOI":"10.2000/gs"}
			}
		]}`)
	}))
	defer ts.Close()

	old := semanticBase
	semanticBase = ts.URL
	defer func() { semanticBase = old }()

	p := &SemanticScholar{Client: ts.Client(), APIKey: "test-key-123"}
	items, err := p.Search(context.Background(), types.Query{FreeText: "graph signals"}, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if got := captured.Header.Get("x-api-key"); got != "test-key-123" {
		t.Errorf("x-api-key header = %q", got)
	}

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	item := items[0]
	if item.Title != "Graph Signals" {
		t.Errorf("title = %q", item.Title)
	}
	if item.URL != "https://www.semanticscholar.org/paper/p1" {
		t.Errorf("landing page preferred: %q", item.URL)
	}
	if item.Year != 2017 {
		t.Errorf("year = %d", item.Year)
	}
	if len(item.Authors) != 1 || item.Authors[0] != "G. Author" {
		t.Errorf("authors = %v", item.Authors)
	}
	if got := item.Extra["doi"]; got != "10.2000/gs" {
		t.Errorf("doi extra = %v", got)
	}
}

func TestSemanticScholarStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	old := semanticBase
	semanticBase = ts.URL
	defer func() { semanticBase = old }()

	p := &SemanticScholar{Client: ts.Client(), APIKey: "k"}
	res := Run(context.Background(), p, types.Query{FreeText: "x"}, 5, 0)
	if res.ErrorCode != "semanticscholar_429" {
		t.Errorf("code = %q, want semanticscholar_429", res.ErrorCode)
	}
}
