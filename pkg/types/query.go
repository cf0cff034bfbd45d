// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Query holds the parsed parameters of one incoming search request.
type Query struct {
	// FreeText is the free-text query. May be empty only when Filters
	// supplies at least one usable clause.
	FreeText string `json:"free_text" yaml:"free_text"`

	// Provider selects which adapters to invoke: "all", an alias group
	// ("scholar", "legal", "web"), or a single provider id.
	Provider string `json:"provider" yaml:"provider"`

	// Limit is the per-provider result cap, already clamped into [1,10].
	Limit int `json:"limit" yaml:"limit"`

	// Filters carries the structured legal-document filters, if any.
	Filters *FilterSet `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// FilterSet holds the structured filter dimensions understood by the
// legal-document provider. All fields keep the raw request form; the query
// builder splits multi-valued fields itself.
type FilterSet struct {
	// Term matches title or description as a whole phrase.
	Term string `json:"term,omitempty" yaml:"term,omitempty"`

	// Types is a comma-separated list of document types
	// (e.g. "Legislation, Case Law").
	Types string `json:"types,omitempty" yaml:"types,omitempty"`

	// Number is an official document number.
	Number string `json:"number,omitempty" yaml:"number,omitempty"`

	// Years is a single year ("2020") or an inclusive range ("2010-2015").
	Years string `json:"years,omitempty" yaml:"years,omitempty"`

	// Locality restricts to a jurisdiction or region.
	Locality string `json:"locality,omitempty" yaml:"locality,omitempty"`

	// Authority restricts to an issuing body.
	Authority string `json:"authority,omitempty" yaml:"authority,omitempty"`

	// Exclude lists terms to exclude, separated by commas or whitespace.
	Exclude string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Empty reports whether no filter dimension carries a value.
func (f *FilterSet) Empty() bool {
	if f == nil {
		return true
	}
	for _, v := range []string{f.Term, f.Types, f.Number, f.Years, f.Locality, f.Authority, f.Exclude} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// HasQuery reports whether the query carries any searchable input at all,
// either free text or at least one structured filter.
func (q Query) HasQuery() bool {
	return strings.TrimSpace(q.FreeText) != "" || !q.Filters.Empty()
}
