// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"io"
	"net/http"
)

// fallbackTrigger reports whether a primary-endpoint status should trigger
// the single alternate-endpoint attempt. Access denial (403) and rate
// limiting (429) indicate the endpoint, not the query, is the problem;
// every other failure is final.
func fallbackTrigger(status int) bool {
	return status == http.StatusForbidden || status == http.StatusTooManyRequests
}

// doWithFallback issues the request built against primaryBase and, when the
// response status matches fallbackTrigger, drains it and issues exactly one
// more request built against alternateBase. It returns the response to use
// and, when the alternate served it, the primary's failing status so the
// caller can report why the primary path was abandoned.
//
// There is never more than one fallback attempt, and never a fallback after
// a success.
func doWithFallback(ctx context.Context, client *http.Client, primaryBase, alternateBase string,
	build func(ctx context.Context, base string) (*http.Request, error)) (resp *http.Response, primaryStatus int, err error) {

	req, err := build(ctx, primaryBase)
	if err != nil {
		return nil, 0, err
	}

	resp, err = client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if !fallbackTrigger(resp.StatusCode) || alternateBase == "" {
		return resp, 0, nil
	}

	primaryStatus = resp.StatusCode
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	req, err = build(ctx, alternateBase)
	if err != nil {
		return nil, primaryStatus, err
	}
	resp, err = client.Do(req)
	if err != nil {
		return nil, primaryStatus, err
	}
	return resp, primaryStatus, nil
}
