// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// openAlexBase is the OpenAlex Works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexBase = "https://api.openalex.org/works"

// snippetWordCap bounds reconstructed abstract previews.
const snippetWordCap = 60

// OpenAlex queries the OpenAlex scholarly index. No credential is
// required; a contact email joins the polite pool.
type OpenAlex struct {
	Client *http.Client
	Email  string
	Agent  string
}

// ID returns the provider identifier.
func (p *OpenAlex) ID() string { return "openalex" }

// Search queries OpenAlex and normalizes the works payload.
func (p *OpenAlex) Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error) {
	text := strings.TrimSpace(q.FreeText)
	if text == "" {
		return nil, errNoUsableQuery
	}

	params := url.Values{
		"search":   {text},
		"per_page": {fmt.Sprintf("%d", limit)},
		"page":     {"1"},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}

	req, err := newRequest(ctx, openAlexBase+"?"+params.Encode(), p.Agent)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, &parseError{err: err}
	}

	var items []types.Item
	for _, work := range oar.Results {
		if len(items) >= limit {
			break
		}
		items = append(items, normalizeOpenAlexWork(work))
	}
	return items, nil
}

// normalizeOpenAlexWork maps one work to the canonical Item. Field
// preference orders are fixed: title then display_name; landing page
// before DOI link before the bare OpenAlex id.
func normalizeOpenAlexWork(w openAlexWork) types.Item {
	item := types.Item{ProviderID: "openalex", Title: w.Title}
	if item.Title == "" {
		item.Title = w.DisplayName
	}

	doi := strings.TrimPrefix(w.DOI, "https://doi.org/")
	switch {
	case w.PrimaryLocation.LandingPageURL != "":
		item.URL = w.PrimaryLocation.LandingPageURL
	case doi != "":
		item.URL = "https://doi.org/" + doi
	default:
		item.URL = w.ID
	}

	if w.PublicationYear >= 1600 && w.PublicationYear <= 2100 {
		item.Year = w.PublicationYear
	} else if w.PublicationDate != "" {
		item.Year = scanYear(w.PublicationDate)
	}

	var names []string
	for _, a := range w.Authorships {
		names = append(names, a.Author.DisplayName)
	}
	item.Authors = cleanAuthors(names)

	item.Snippet = previewAbstract(w.AbstractInvertedIndex)

	if doi != "" {
		item.Extra = map[string]any{"doi": doi}
	}
	return item
}

// previewAbstract converts an inverted-index abstract (word -> positions)
// into a readable preview: words ordered by their first position, capped
// at snippetWordCap. This is a preview, not a faithful reconstruction;
// repeated words appear once.
func previewAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}

	type firstPos struct {
		word string
		pos  int
	}
	entries := make([]firstPos, 0, len(index))
	for word, positions := range index {
		if len(positions) == 0 {
			continue
		}
		first := positions[0]
		for _, p := range positions[1:] {
			if p < first {
				first = p
			}
		}
		entries = append(entries, firstPos{word: word, pos: first})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })

	if len(entries) > snippetWordCap {
		entries = entries[:snippetWordCap]
	}
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string             `json:"id"`
	Title                 string             `json:"title"`
	DisplayName           string             `json:"display_name"`
	DOI                   string             `json:"doi"`
	PublicationDate       string             `json:"publication_date"`
	PublicationYear       int                `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int   `json:"abstract_inverted_index"`
	PrimaryLocation       openAlexLocation   `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexLocation struct {
	LandingPageURL string `json:"landing_page_url"`
}
