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

// DuckDuckGo Instant Answer endpoints. The API host denies some client
// pools with HTTP 403; the main host accepts the same parameters, so it
// serves as the single fallback. Declared as vars so tests can substitute
// httptest servers.
var (
	duckDuckGoBase    = "https://api.duckduckgo.com/"
	duckDuckGoAltBase = "https://duckduckgo.com/"
)

// DuckDuckGo queries the Instant Answer API. No credential is required.
type DuckDuckGo struct {
	Client *http.Client
	Agent  string
}

// ID returns the provider identifier.
func (p *DuckDuckGo) ID() string { return "duckduckgo" }

// Search queries the Instant Answer API, falling back to the alternate
// host once on access denial. When the fallback served the results the
// returned error carries the primary's status so the caller can surface
// why the primary path was abandoned alongside the items.
func (p *DuckDuckGo) Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error) {
	text := strings.TrimSpace(q.FreeText)
	if text == "" {
		return nil, errNoUsableQuery
	}

	build := func(ctx context.Context, base string) (*http.Request, error) {
		params := url.Values{
			"q":           {text},
			"format":      {"json"},
			"no_html":     {"1"},
			"no_redirect": {"1"},
		}
		return newRequest(ctx, base+"?"+params.Encode(), p.Agent)
	}

	resp, primaryStatus, err := doWithFallback(ctx, p.Client, duckDuckGoBase, duckDuckGoAltBase, build)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	var ddg duckDuckGoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return nil, &parseError{err: err}
	}

	items := normalizeDuckDuckGo(ddg, limit)
	if primaryStatus != 0 {
		// Fallback succeeded; report the items plus the abandoned primary.
		return items, &statusError{status: primaryStatus}
	}
	return items, nil
}

// normalizeDuckDuckGo maps the instant-answer payload to canonical items:
// the abstract answer first when present, then flattened related topics.
func normalizeDuckDuckGo(ddg duckDuckGoResponse, limit int) []types.Item {
	var items []types.Item

	if ddg.Heading != "" {
		items = append(items, types.Item{
			ProviderID: "duckduckgo",
			Title:      ddg.Heading,
			URL:        ddg.AbstractURL,
			Snippet:    firstNonEmpty(ddg.AbstractText, ddg.Answer),
		})
	}

	for _, topic := range flattenTopics(ddg.RelatedTopics) {
		if len(items) >= limit {
			break
		}
		if topic.Text == "" {
			continue
		}
		items = append(items, types.Item{
			ProviderID: "duckduckgo",
			Title:      topicTitle(topic.Text),
			URL:        topic.FirstURL,
			Snippet:    topic.Text,
		})
	}

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// flattenTopics expands one level of topic groups into a flat list.
func flattenTopics(topics []duckDuckGoTopic) []duckDuckGoTopic {
	var flat []duckDuckGoTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			flat = append(flat, t.Topics...)
			continue
		}
		flat = append(flat, t)
	}
	return flat
}

// topicTitle takes the leading clause of a topic's text as its title.
func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DuckDuckGo Instant Answer JSON structures.
type duckDuckGoResponse struct {
	Heading       string           `json:"Heading"`
	AbstractText  string           `json:"AbstractText"`
	AbstractURL   string           `json:"AbstractURL"`
	Answer        string           `json:"Answer"`
	RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
}

type duckDuckGoTopic struct {
	Text     string            `json:"Text"`
	FirstURL string            `json:"FirstURL"`
	Topics   []duckDuckGoTopic `json:"Topics"`
}
