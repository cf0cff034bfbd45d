// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// lexfindBase is the legal-document SRU searchRetrieve endpoint. Declared
// as a var so tests can substitute an httptest server.
var lexfindBase = "https://www.lexfind.ch/sru"

// lexfindBodyCap bounds how much of the SRU response body is scanned.
const lexfindBodyCap = 1 << 20

// Lexfind queries a legal-document SRU service using a CQL boolean query
// built from the structured filters. No credential is required.
type Lexfind struct {
	Client *http.Client
	Agent  string
}

// ID returns the provider identifier.
func (p *Lexfind) ID() string { return "lexfind" }

// Search translates the filters into CQL, queries the SRU endpoint, and
// scans the XML records. When the filters yield no clause the free text is
// used as a bare term; with neither, the adapter is skipped with a
// missing-query error for this provider only.
func (p *Lexfind) Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error) {
	filters := q.Filters
	if filters.Empty() && strings.TrimSpace(q.FreeText) != "" {
		filters = &types.FilterSet{Term: q.FreeText}
	}

	cql := buildCQL(filters)
	if cql == "" {
		return nil, errNoUsableQuery
	}

	params := url.Values{
		"operation":      {"searchRetrieve"},
		"version":        {"1.2"},
		"query":          {cql},
		"maximumRecords": {fmt.Sprintf("%d", limit)},
	}

	req, err := newRequest(ctx, lexfindBase+"?"+params.Encode(), p.Agent)
	if err != nil {
		return nil, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SRU request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, lexfindBodyCap))
	if err != nil {
		return nil, fmt.Errorf("reading SRU response: %w", err)
	}

	return scanRecords(string(body), limit), nil
}

// scanRecords extracts up to limit <record> blocks with a bounded linear
// scan, then pulls the Dublin Core sub-fields from each block
// independently. A block without an extractable title is dropped.
//
// The scan assumes well-formed, non-nested record blocks; a nested record
// would end the outer block at the first inner close tag.
func scanRecords(body string, limit int) []types.Item {
	var items []types.Item
	rest := body
	for len(items) < limit {
		block, tail, ok := nextBlock(rest, "record")
		if !ok {
			break
		}
		rest = tail

		title := strings.TrimSpace(tagText(block, "dc:title"))
		if title == "" {
			continue
		}

		item := types.Item{ProviderID: "lexfind", Title: xmlUnescape(title)}

		if id := strings.TrimSpace(tagText(block, "dc:identifier")); id != "" {
			id = xmlUnescape(id)
			if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
				item.URL = id
			}
			item.Extra = map[string]any{"identifier": id}
		}

		if date := tagText(block, "dc:date"); date != "" {
			item.Year = scanYear(date)
		}

		if desc := strings.TrimSpace(tagText(block, "dc:description")); desc != "" {
			item.Snippet = xmlUnescape(desc)
		}

		items = append(items, item)
	}
	return items
}

// nextBlock finds the next <name ...>...</name> block in s and returns its
// inner text and the remainder of s after the close tag.
func nextBlock(s, name string) (inner, rest string, ok bool) {
	open := "<" + name
	start := strings.Index(s, open)
	if start < 0 {
		return "", "", false
	}
	// Skip past the open tag, tolerating attributes. Reject a lookalike
	// prefix match such as <recordData>.
	gt := strings.IndexByte(s[start:], '>')
	if gt < 0 {
		return "", "", false
	}
	head := s[start : start+gt]
	if len(head) > len(open) {
		c := head[len(open)]
		if c != ' ' && c != '\t' && c != '\n' {
			return nextBlock(s[start+len(open):], name)
		}
	}
	bodyStart := start + gt + 1

	closeTag := "</" + name + ">"
	end := strings.Index(s[bodyStart:], closeTag)
	if end < 0 {
		return "", "", false
	}
	return s[bodyStart : bodyStart+end], s[bodyStart+end+len(closeTag):], true
}

// tagText returns the inner text of the first <tag> element in block, or "".
func tagText(block, tag string) string {
	inner, _, ok := nextBlock(block, tag)
	if !ok {
		return ""
	}
	return inner
}

var xmlReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// xmlUnescape resolves the five predefined XML entities.
func xmlUnescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return xmlReplacer.Replace(s)
}
