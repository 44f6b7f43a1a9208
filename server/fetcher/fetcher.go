// Package fetcher retrieves daily readings from the upstream content API.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// UpstreamError reports a non-success response from the upstream API. It is
// never retried here; the request boundary translates it into a failed
// response.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %s", e.Status)
}

// Fetcher performs the upstream retrieval for a reading date. Concurrent
// fetches for the same date are collapsed into a single upstream call.
type Fetcher struct {
	baseURL string
	plan    string
	apiKey  string
	client  *http.Client

	group singleflight.Group
}

// New creates a Fetcher. timeout <= 0 selects a 15 second default.
func New(baseURL, plan, apiKey string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		baseURL: baseURL,
		plan:    plan,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns the reading for date exactly as the upstream sent it. The
// payload is opaque to the proxy; no parsing or validation happens here.
// date must be an ISO YYYY-MM-DD string.
func (f *Fetcher) Fetch(ctx context.Context, date string) (string, error) {
	v, err, _ := f.group.Do(date, func() (any, error) {
		return f.fetch(ctx, date)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (f *Fetcher) fetch(ctx context.Context, date string) (string, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("plan", f.plan)
	q.Set("token", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "build upstream request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "call upstream")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read upstream response")
	}
	return string(body), nil
}
