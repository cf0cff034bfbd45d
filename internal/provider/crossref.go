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

// crossrefBase is the Crossref works endpoint. Declared as a var so tests
// can substitute an httptest server.
var crossrefBase = "https://api.crossref.org/works"

// Crossref queries the Crossref citation registry. No credential is
// required; a contact email joins the polite pool.
type Crossref struct {
	Client *http.Client
	Email  string
	Agent  string
}

// ID returns the provider identifier.
func (p *Crossref) ID() string { return "crossref" }

// Search queries Crossref and normalizes the works payload.
func (p *Crossref) Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error) {
	text := strings.TrimSpace(q.FreeText)
	if text == "" {
		return nil, errNoUsableQuery
	}

	params := url.Values{
		"query": {text},
		"rows":  {fmt.Sprintf("%d", limit)},
	}
	if p.Email != "" {
		params.Set("mailto", p.Email)
	}

	req, err := newRequest(ctx, crossrefBase+"?"+params.Encode(), p.Agent)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, &parseError{err: err}
	}

	var items []types.Item
	for _, work := range cr.Message.Items {
		if len(items) >= limit {
			break
		}
		items = append(items, normalizeCrossrefWork(work))
	}
	return items, nil
}

// normalizeCrossrefWork maps one work to the canonical Item. URL preference
// is the registry's resolver link first, then a synthesized doi.org URL
// from the bare DOI.
func normalizeCrossrefWork(w crossrefWork) types.Item {
	item := types.Item{ProviderID: "crossref"}

	if len(w.Title) > 0 {
		item.Title = w.Title[0]
	}
	if item.Title == "" && len(w.ContainerTitle) > 0 {
		item.Title = w.ContainerTitle[0]
	}

	switch {
	case w.URL != "":
		item.URL = w.URL
	case w.DOI != "":
		item.URL = "https://doi.org/" + w.DOI
	}

	item.Year = crossrefYear(w)

	var names []string
	for _, a := range w.Author {
		names = append(names, crossrefAuthorName(a))
	}
	item.Authors = cleanAuthors(names)

	item.Snippet = stripMarkup(w.Abstract)

	if w.DOI != "" {
		item.Extra = map[string]any{"doi": w.DOI}
	}
	return item
}

// crossrefYear prefers the issued date-parts, then created, then a year
// token scanned from the DOI-adjacent fields.
func crossrefYear(w crossrefWork) int {
	for _, dp := range [][][]int{w.Issued.DateParts, w.Created.DateParts} {
		if len(dp) > 0 && len(dp[0]) > 0 {
			y := dp[0][0]
			if y >= 1600 && y <= 2100 {
				return y
			}
		}
	}
	if len(w.Title) > 0 {
		return scanYear(w.Title[0])
	}
	return 0
}

// crossrefAuthorName builds a display name from an author object: a single
// display name when present, otherwise given and family concatenated.
func crossrefAuthorName(a crossrefAuthor) string {
	if a.Name != "" {
		return a.Name
	}
	return strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
}

// stripMarkup removes simple tag markup (Crossref abstracts arrive as JATS
// fragments) with a bounded linear scan.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Status  string          `json:"status"`
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	DOI            string           `json:"DOI"`
	URL            string           `json:"URL"`
	Title          []string         `json:"title"`
	ContainerTitle []string         `json:"container-title"`
	Abstract       string           `json:"abstract"`
	Author         []crossrefAuthor `json:"author"`
	Issued         crossrefDate     `json:"issued"`
	Created        crossrefDate     `json:"created"`
}

type crossrefAuthor struct {
	Name   string `json:"name"`
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
