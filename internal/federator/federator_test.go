// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federator

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/metasearch/internal/provider"
	"github.com/pdiddy/metasearch/pkg/types"
)

// fakeAdapter stands in for a real provider in orchestration tests.
type fakeAdapter struct {
	id    string
	items []types.Item
	err   error
	delay time.Duration
}

func (f *fakeAdapter) ID() string { return f.id }

func (f *fakeAdapter) Search(ctx context.Context, _ types.Query, _ int) ([]types.Item, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.items, f.err
}

func testFederator(adapters ...provider.Adapter) *Federator {
	return &Federator{
		cfg:      types.FederationConfig{HTTPConfig: types.HTTPConfig{Timeout: 2 * time.Second}},
		adapters: adapters,
		aliases:  map[string][]string{"scholar": {"alpha", "beta"}},
	}
}

func item(pid, title string) types.Item {
	return types.Item{ProviderID: pid, Title: title}
}

func TestSearchPartialFailure(t *testing.T) {
	// One healthy provider, one timing out, one unreachable.
	f := testFederator(
		&fakeAdapter{id: "alpha", items: []types.Item{
			item("alpha", "First"), item("alpha", "Second"), item("alpha", "Third"),
		}},
		&fakeAdapter{id: "beta", err: context.DeadlineExceeded},
		&fakeAdapter{id: "gamma", err: errors.New("connection refused")},
	)

	resp := f.Search(context.Background(), types.Query{
		FreeText: "climate policy",
		Provider: "all",
		Limit:    3,
	})

	if !resp.OK {
		t.Fatalf("ok = false, want true despite provider failures")
	}
	if len(resp.Items) != 3 {
		t.Errorf("items = %d, want 3", len(resp.Items))
	}
	if resp.Count != len(resp.Items) {
		t.Errorf("count = %d, items = %d", resp.Count, len(resp.Items))
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("errors = %v, want 2 entries", resp.Errors)
	}

	// Items are tagged only with configured provider ids.
	for _, it := range resp.Items {
		if it.ProviderID != "alpha" {
			t.Errorf("unexpected provider id %q", it.ProviderID)
		}
	}

	wantErrors := map[string]bool{"beta_timeout": true, "gamma_network": true}
	for _, code := range resp.Errors {
		if !wantErrors[code] {
			t.Errorf("unexpected error code %q", code)
		}
	}
}

func TestSearchErrorCodeCarriesProviderID(t *testing.T) {
	f := testFederator(&fakeAdapter{id: "alpha", err: errors.New("boom")})
	resp := f.Search(context.Background(), types.Query{FreeText: "x", Provider: "all", Limit: 3})
	if len(resp.Errors) != 1 || resp.Errors[0] != "alpha_network" {
		t.Errorf("errors = %v, want [alpha_network]", resp.Errors)
	}
	if len(resp.Items) != 0 {
		t.Errorf("items = %d, want 0", len(resp.Items))
	}
}

func TestSearchSlowProviderDoesNotSuppressFast(t *testing.T) {
	f := testFederator(
		&fakeAdapter{id: "alpha", items: []types.Item{item("alpha", "Fast")}},
		&fakeAdapter{id: "beta", delay: 60 * time.Millisecond, items: []types.Item{item("beta", "Slow")}},
	)

	resp := f.Search(context.Background(), types.Query{FreeText: "x", Provider: "all", Limit: 3})

	// Join semantics: both settle, order follows the adapter listing.
	want := []string{"Fast", "Slow"}
	var got []string
	for _, it := range resp.Items {
		got = append(got, it.Title)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	f := testFederator(&fakeAdapter{id: "alpha"})

	for _, q := range []types.Query{
		{Provider: "all"},
		{FreeText: "   ", Provider: "all"},
		{FreeText: "", Provider: "all", Filters: &types.FilterSet{}},
	} {
		resp := f.Search(context.Background(), q)
		if resp.OK {
			t.Errorf("ok = true for unusable query %+v", q)
		}
		if len(resp.Errors) != 1 || resp.Errors[0] != ErrMissingQuery {
			t.Errorf("errors = %v, want [%s]", resp.Errors, ErrMissingQuery)
		}
		if len(resp.Items) != 0 {
			t.Errorf("items = %d, want 0", len(resp.Items))
		}
	}
}

func TestSearchFiltersAloneAreUsable(t *testing.T) {
	f := testFederator(&fakeAdapter{id: "alpha", items: []types.Item{item("alpha", "A")}})
	resp := f.Search(context.Background(), types.Query{
		Provider: "all",
		Filters:  &types.FilterSet{Term: "data protection"},
	})
	if !resp.OK {
		t.Fatalf("ok = false, filters alone should be usable")
	}
}

func TestSearchUnknownProvider(t *testing.T) {
	f := testFederator(&fakeAdapter{id: "alpha"})
	resp := f.Search(context.Background(), types.Query{FreeText: "x", Provider: "nope"})
	if resp.OK {
		t.Errorf("ok = true for unknown provider")
	}
	if len(resp.Errors) != 1 || resp.Errors[0] != ErrUnknownProvider {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestResolveSelection(t *testing.T) {
	alpha := &fakeAdapter{id: "alpha"}
	beta := &fakeAdapter{id: "beta"}
	gamma := &fakeAdapter{id: "gamma"}
	f := testFederator(alpha, beta, gamma)

	tests := []struct {
		selection string
		wantIDs   []string
		wantOK    bool
	}{
		{"all", []string{"alpha", "beta", "gamma"}, true},
		{"", []string{"alpha", "beta", "gamma"}, true},
		{"ALL", []string{"alpha", "beta", "gamma"}, true},
		{"scholar", []string{"alpha", "beta"}, true},
		{"gamma", []string{"gamma"}, true},
		{"unknown", nil, false},
	}
	for _, tt := range tests {
		selected, ok := f.resolve(tt.selection)
		if ok != tt.wantOK {
			t.Errorf("resolve(%q) ok = %v, want %v", tt.selection, ok, tt.wantOK)
			continue
		}
		var ids []string
		for _, a := range selected {
			ids = append(ids, a.ID())
		}
		if !reflect.DeepEqual(ids, tt.wantIDs) {
			t.Errorf("resolve(%q) = %v, want %v", tt.selection, ids, tt.wantIDs)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"0", DefaultLimit},
		{"-5", MinLimit},
		{"abc", DefaultLimit},
		{"", DefaultLimit},
		{"999", MaxLimit},
		{"10", 10},
		{"1", 1},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.in); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if got := ParseLimit(tt.in); got < MinLimit || got > MaxLimit {
			t.Errorf("ParseLimit(%q) = %d outside [%d,%d]", tt.in, got, MinLimit, MaxLimit)
		}
	}
}

func TestDedupe(t *testing.T) {
	withDOI := func(p, title, doi string) types.Item {
		return types.Item{ProviderID: p, Title: title, Extra: map[string]any{"doi": doi}}
	}

	items := []types.Item{
		withDOI("alpha", "Paper A", "10.1/A"),
		withDOI("beta", "Paper A (reprint)", "10.1/a"), // same DOI, case-insensitive
		item("alpha", "Paper B"),
		item("beta", "paper b"), // same title, case-insensitive
		item("gamma", "Paper C"),
	}

	got := Dedupe(items)
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(got), got)
	}

	// First occurrence wins.
	if got[0].ProviderID != "alpha" || got[0].Title != "Paper A" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Title != "Paper B" {
		t.Errorf("second = %+v", got[1])
	}

	// Idempotent.
	again := Dedupe(got)
	if !reflect.DeepEqual(again, got) {
		t.Errorf("dedupe not idempotent: %+v vs %+v", again, got)
	}
}

func TestNewBuildsAllProviders(t *testing.T) {
	f := New(types.FederationConfig{})
	want := []string{"openalex", "semanticscholar", "crossref", "lexfind", "duckduckgo"}
	if got := f.ProviderIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("providers = %v, want %v", got, want)
	}
}
