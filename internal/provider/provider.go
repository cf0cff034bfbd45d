// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the adapters that translate between the
// canonical query/result model and each external search service. Each
// adapter knows its endpoints, auth requirement, request shape, and
// response shape; Run converts every adapter failure into an error code so
// nothing escapes the adapter boundary.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Adapter searches a single external service. Search returns the
// normalized items; it may return items together with a non-nil error when
// a fallback path served the results after the primary endpoint failed.
type Adapter interface {
	ID() string
	Search(ctx context.Context, q types.Query, limit int) ([]types.Item, error)
}

// Sentinel failures the runner maps to well-known error codes.
var (
	// errMissingAPIKey is returned before any network call when a required
	// credential is absent.
	errMissingAPIKey = errors.New("missing api key")

	// errNoUsableQuery is returned when the translator produced nothing for
	// this provider (e.g. empty free text and no usable filters).
	errNoUsableQuery = errors.New("no usable query")
)

// statusError reports a non-success upstream HTTP status.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.status)
}

// parseError reports a malformed upstream payload.
type parseError struct {
	err error
}

func (e *parseError) Error() string { return "parsing response: " + e.err.Error() }
func (e *parseError) Unwrap() error { return e.err }

// Run executes one adapter call under its own deadline and converts any
// failure into an error code of the form <provider>_<reason>. It never
// lets an adapter fault escape: transport errors, bad statuses, malformed
// payloads, and panics all become ProviderResult.ErrorCode.
func Run(ctx context.Context, a Adapter, q types.Query, limit int, timeout time.Duration) (res types.ProviderResult) {
	defer func() {
		if recover() != nil {
			res = types.ProviderResult{ErrorCode: a.ID() + "_internal"}
		}
	}()

	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	items, err := a.Search(callCtx, q, limit)
	if err == nil {
		return types.ProviderResult{Items: items}
	}

	code := errorCode(a.ID(), err)

	// A fallback path may have produced items despite the primary failing.
	return types.ProviderResult{Items: items, ErrorCode: code}
}

// errorCode maps an adapter error to its taxonomy code.
func errorCode(id string, err error) string {
	var se *statusError
	var pe *parseError
	switch {
	case errors.Is(err, errMissingAPIKey):
		return id + "_missing_api_key"
	case errors.Is(err, errNoUsableQuery):
		return id + "_missing_query"
	case errors.As(err, &se):
		return fmt.Sprintf("%s_%d", id, se.status)
	case errors.As(err, &pe):
		return id + "_parse"
	case errors.Is(err, context.DeadlineExceeded):
		return id + "_timeout"
	default:
		return id + "_network"
	}
}

// newRequest builds a GET request with the shared headers every adapter sends.
func newRequest(ctx context.Context, rawURL, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}

var yearRe = regexp.MustCompile(`\b(1[6-9]\d{2}|20\d{2}|2100)\b`)

// scanYear returns the first plausible 4-digit calendar year (1600-2100)
// found in s, or 0.
func scanYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return y
}

// cleanAuthors drops empty names, preserving order.
func cleanAuthors(names []string) []string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
