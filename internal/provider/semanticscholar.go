// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// semanticBase is the Semantic Scholar paper search endpoint. Declared as a
// var so tests can substitute an httptest server.
var semanticBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,url"

// SemanticScholar queries the Semantic Scholar citation graph. An API key
// is required; without one the adapter reports a missing-key error before
// any network call.
type SemanticScholar struct {
	Client *http.Client
	APIKey string
	Agent  string
}

// ID returns the provider identifier.
func (p *SemanticScholar) ID() string { return "semanticscholar" }

// Search queries Semantic Scholar and normalizes the papers payload.
func (p *SemanticScholar) Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error) {
	if p.APIKey == "" {
		return nil, errMissingAPIKey
	}
	text := strings.TrimSpace(q.FreeText)
	if text == "" {
		return nil, errNoUsableQuery
	}

	params := url.Values{
		"query":  {text},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}

	req, err := newRequest(ctx, semanticBase+"?"+params.Encode(), p.Agent)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &parseError{err: err}
	}

	var items []types.Item
	for _, paper := range sr.Data {
		if len(items) >= limit {
			break
		}
		items = append(items, normalizeSemanticPaper(paper))
	}
	return items, nil
}

// normalizeSemanticPaper maps one paper to the canonical Item. URL
// preference is the paper's landing page, then a synthesized doi.org URL.
func normalizeSemanticPaper(paper semanticPaper) types.Item {
	item := types.Item{
		ProviderID: "semanticscholar",
		Title:      paper.Title,
		Snippet:    paper.Abstract,
	}

	switch {
	case paper.URL != "":
		item.URL = paper.URL
	case paper.ExternalIDs.DOI != "":
		item.URL = "https://doi.org/" + paper.ExternalIDs.DOI
	}

	if paper.Year >= 1600 && paper.Year <= 2100 {
		item.Year = paper.Year
	}

	var names []string
	for _, a := range paper.Authors {
		names = append(names, a.Name)
	}
	item.Authors = cleanAuthors(names)

	extra := map[string]any{}
	if paper.ExternalIDs.DOI != "" {
		extra["doi"] = paper.ExternalIDs.DOI
	}
	if paper.PaperID != "" {
		extra["paper_id"] = paper.PaperID
	}
	if len(extra) > 0 {
		item.Extra = extra
	}
	return item
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID     string              `json:"paperId"`
	Title       string              `json:"title"`
	Abstract    string              `json:"abstract"`
	Year        int                 `json:"year"`
	URL         string              `json:"url"`
	Authors     []semanticAuthor    `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
