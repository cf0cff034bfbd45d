// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the metasearch engine.
// Every provider adapter normalizes its native payload into Item; the
// federator merges per-provider results into an AggregateResponse.
package types

// Item is the canonical record all providers are normalized into. Title is
// always present (possibly empty); every other field is best-effort.
type Item struct {
	// ProviderID identifies the adapter that produced this item
	// (e.g. "openalex", "lexfind").
	ProviderID string `json:"provider" yaml:"provider"`

	// Title is the record title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// URL is a public link for the record when one could be determined.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Year is the publication year, or 0 when unknown. When set it is a
	// plausible calendar year (1600-2100).
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Authors lists author display names in source order. Never contains
	// empty strings.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Snippet is an abstract, summary, or answer-engine excerpt.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Extra carries provider-specific fields that survive normalization,
	// such as a bare DOI or an internal identifier.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ProviderResult is the outcome of one adapter call. Items and ErrorCode
// are not mutually exclusive: a fallback path may return items together
// with the code describing why the primary endpoint was abandoned.
type ProviderResult struct {
	Items     []Item `json:"items"`
	ErrorCode string `json:"error_code,omitempty"`
}

// AggregateResponse is the merged answer for one incoming query. It is
// always well-formed; partial provider failures surface only in Errors.
type AggregateResponse struct {
	// OK reports whether the request itself was well-formed. It stays true
	// even when every provider failed.
	OK bool `json:"ok"`

	// Query echoes the free-text query.
	Query string `json:"query"`

	// Provider echoes the provider selection ("all", an alias, or an id).
	Provider string `json:"provider"`

	// Count is len(Items).
	Count int `json:"count"`

	// Errors collects one code per failed provider, or a single
	// request-level code when OK is false.
	Errors []string `json:"errors"`

	// Items holds the deduplicated merged results in adapter order.
	Items []Item `json:"items"`
}
