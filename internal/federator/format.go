// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package federator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// FormatTable writes the aggregate as a human-readable table to w.
func FormatTable(resp types.AggregateResponse, w io.Writer) {
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-56s  %-20s  %-4s  %s\n",
			"Rank", "Title", "Authors", "Year", "Provider")
		fmt.Fprintln(w, strings.Repeat("-", 104))

		for i, item := range resp.Items {
			title := truncate(item.Title, 56)
			year := ""
			if item.Year > 0 {
				year = fmt.Sprintf("%d", item.Year)
			}
			fmt.Fprintf(w, "%-4d  %-56s  %-20s  %-4s  %s\n",
				i+1, title, formatAuthors(item.Authors), year, item.ProviderID)
		}
		fmt.Fprintf(w, "\n%d results\n", resp.Count)
	}

	for _, code := range resp.Errors {
		fmt.Fprintf(w, "warning: %s\n", code)
	}
}

// FormatJSON writes the aggregate as indented JSON to w.
func FormatJSON(resp types.AggregateResponse, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
