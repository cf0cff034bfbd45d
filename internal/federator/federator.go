// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package federator dispatches one query to the selected provider adapters
// concurrently, waits for every outcome, and merges the results into a
// single deduplicated aggregate response. One provider's failure never
// cancels or blocks the others.
package federator

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/metasearch/internal/provider"
	"github.com/pdiddy/metasearch/pkg/types"
)

// Limit bounds for the per-provider result cap.
const (
	MinLimit     = 1
	MaxLimit     = 10
	DefaultLimit = 5
)

// Request-level error codes. Adapter-level codes are produced by
// provider.Run.
const (
	ErrMissingQuery    = "missing_query"
	ErrUnknownProvider = "unknown_provider"
	ErrInternal        = "internal"
)

// Federator owns the configured adapters and the alias table.
type Federator struct {
	cfg      types.FederationConfig
	adapters []provider.Adapter
	aliases  map[string][]string
}

// New builds a federator with all five adapters sharing one HTTP client.
// Credentials and the contact email are read-only configuration; no
// adapter reads ambient state.
func New(cfg types.FederationConfig) *Federator {
	client := &http.Client{}
	agent := cfg.UserAgent

	return &Federator{
		cfg: cfg,
		adapters: []provider.Adapter{
			&provider.OpenAlex{Client: client, Email: cfg.ContactEmail, Agent: agent},
			&provider.SemanticScholar{Client: client, APIKey: cfg.SemanticScholarAPIKey, Agent: agent},
			&provider.Crossref{Client: client, Email: cfg.ContactEmail, Agent: agent},
			&provider.Lexfind{Client: client, Agent: agent},
			&provider.DuckDuckGo{Client: client, Agent: agent},
		},
		aliases: map[string][]string{
			"scholar": {"openalex", "semanticscholar", "crossref"},
			"legal":   {"lexfind"},
			"web":     {"duckduckgo"},
		},
	}
}

// ProviderIDs lists the configured adapter ids in registry order.
func (f *Federator) ProviderIDs() []string {
	ids := make([]string, len(f.adapters))
	for i, a := range f.adapters {
		ids[i] = a.ID()
	}
	return ids
}

// Search runs the fan-out for one query and assembles the aggregate. The
// response is always well-formed: request-level problems short-circuit
// before any adapter runs, adapter-level failures surface only in Errors,
// and an orchestration panic degrades to a generic internal error.
func (f *Federator) Search(ctx context.Context, q types.Query) (resp types.AggregateResponse) {
	resp = types.AggregateResponse{
		Query:    q.FreeText,
		Provider: q.Provider,
		Errors:   []string{},
		Items:    []types.Item{},
	}

	defer func() {
		if recover() != nil {
			resp = types.AggregateResponse{
				Query:    q.FreeText,
				Provider: q.Provider,
				Errors:   []string{ErrInternal},
				Items:    []types.Item{},
			}
		}
	}()

	if !q.HasQuery() {
		resp.Errors = append(resp.Errors, ErrMissingQuery)
		return resp
	}

	selected, ok := f.resolve(q.Provider)
	if !ok {
		resp.Errors = append(resp.Errors, ErrUnknownProvider)
		return resp
	}

	limit := clamp(q.Limit)

	// Fan out and join: every adapter settles before the response is
	// composed, so a slow provider cannot suppress a fast one. Results are
	// written to indexed slots to preserve adapter listing order.
	results := make([]types.ProviderResult, len(selected))
	var wg sync.WaitGroup
	for i, a := range selected {
		wg.Add(1)
		go func(i int, a provider.Adapter) {
			defer wg.Done()
			results[i] = provider.Run(ctx, a, q, limit, f.cfg.Timeout)
		}(i, a)
	}
	wg.Wait()

	resp.OK = true
	var merged []types.Item
	for _, r := range results {
		merged = append(merged, r.Items...)
		if r.ErrorCode != "" {
			resp.Errors = append(resp.Errors, r.ErrorCode)
		}
	}

	resp.Items = Dedupe(merged)
	resp.Count = len(resp.Items)
	return resp
}

// resolve maps a provider selection to the adapters to invoke: "all" (or
// empty) selects everything, an alias selects its group, a bare id selects
// one adapter.
func (f *Federator) resolve(selection string) ([]provider.Adapter, bool) {
	selection = strings.ToLower(strings.TrimSpace(selection))
	if selection == "" || selection == "all" {
		return f.adapters, true
	}

	if ids, ok := f.aliases[selection]; ok {
		return f.byID(ids), true
	}

	for _, a := range f.adapters {
		if a.ID() == selection {
			return []provider.Adapter{a}, true
		}
	}
	return nil, false
}

func (f *Federator) byID(ids []string) []provider.Adapter {
	var out []provider.Adapter
	for _, a := range f.adapters {
		for _, id := range ids {
			if a.ID() == id {
				out = append(out, a)
			}
		}
	}
	return out
}

// ParseLimit parses a raw limit parameter leniently: unparsable input
// falls back to the default, then the value is clamped into
// [MinLimit, MaxLimit].
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLimit
	}
	return clamp(n)
}

func clamp(n int) int {
	switch {
	case n < MinLimit:
		if n == 0 {
			return DefaultLimit
		}
		return MinLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

// Dedupe removes later occurrences of the same record. The key prefers a
// normalized persistent identifier (a DOI or internal identifier from
// Extra, lower-cased) and falls back to the lower-cased title. Idempotent:
// deduping twice equals deduping once.
func Dedupe(items []types.Item) []types.Item {
	seen := make(map[string]bool, len(items))
	out := make([]types.Item, 0, len(items))
	for _, item := range items {
		key := dedupeKey(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func dedupeKey(item types.Item) string {
	for _, field := range []string{"doi", "identifier"} {
		if v, ok := item.Extra[field].(string); ok && v != "" {
			return "id:" + strings.ToLower(v)
		}
	}
	return "title:" + strings.ToLower(item.Title)
}
