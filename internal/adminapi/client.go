// Package adminapi provides a client for the Anthropic Admin usage report
// API, the collector's optional remote data source.
package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jdhollis/cquota/internal/model"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	reportPath       = "/v1/organizations/usage_report/messages"
	anthropicVersion = "2023-06-01"
	requestTimeout   = 30 * time.Second
	maxBodySize      = 4 << 20 // 4 MB
)

var (
	// ErrUnauthorized indicates the admin key is invalid or lacks access.
	ErrUnauthorized = errors.New("adminapi: unauthorized (admin key invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("adminapi: rate limited")
)

// Client fetches usage report data from the Admin API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given admin key.
// Returns nil if the key is empty; callers treat a nil client as
// "remote source not configured".
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// CollectWindows issues range-bounded queries for the session, daily, and
// weekly windows ending at now and sums the returned per-bucket totals.
// Any transport, status, or shape error is returned to the caller, which
// falls back to the local transcript path for this pass.
func (c *Client) CollectWindows(ctx context.Context, now time.Time) (*WindowTotals, error) {
	utc := now.UTC()
	// The daily window starts at local midnight, same as the local
	// aggregation path; the API itself wants UTC instants.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UTC()

	session, err := c.fetchRange(ctx, utc.Add(-5*time.Hour), utc, "1h")
	if err != nil {
		return nil, err
	}
	daily, err := c.fetchRange(ctx, dayStart, utc, "1h")
	if err != nil {
		return nil, err
	}
	weekly, err := c.fetchRange(ctx, utc.Add(-7*24*time.Hour), utc, "1d")
	if err != nil {
		return nil, err
	}

	return &WindowTotals{
		Session: sumBuckets(session),
		Daily:   sumBuckets(daily),
		Weekly:  sumBuckets(weekly),
	}, nil
}

// fetchRange queries the usage report for one [start, end] range.
func (c *Client) fetchRange(ctx context.Context, start, end time.Time, bucketWidth string) (*usageReport, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("starting_at", start.Format("2006-01-02T15:04:05Z"))
	q.Set("ending_at", end.Format("2006-01-02T15:04:05Z"))
	q.Set("bucket_width", bucketWidth)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+reportPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("adminapi: creating request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adminapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("adminapi: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("adminapi: reading response: %w", err)
	}

	var report usageReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("adminapi: parsing report: %w", err)
	}
	return &report, nil
}

// sumBuckets collapses a report's per-bucket results into one window total.
func sumBuckets(report *usageReport) model.WindowBucket {
	var b model.WindowBucket
	for _, bucket := range report.Buckets {
		for _, r := range bucket.Results {
			b.InputTokens += r.InputTokens
			b.OutputTokens += r.OutputTokens
			b.CacheWriteTokens += r.CacheCreationInputTokens
			b.CacheReadTokens += r.CacheReadInputTokens
			b.Cost += r.Cost
		}
	}
	return b
}
