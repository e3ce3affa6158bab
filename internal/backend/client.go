// Offspot Metrics - Usage Analytics Dashboard Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/offspot-metrics

package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/offspot-metrics/internal/config"
	"github.com/tomtom215/offspot-metrics/internal/metrics"
	"github.com/tomtom215/offspot-metrics/internal/models"
)

var (
	// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected backend status")

	// ErrInvalidPayload is returned when the body fails schema validation or decoding.
	ErrInvalidPayload = errors.New("invalid aggregation payload")

	// ErrRateLimited is returned when HTTP 429 persists after all retries.
	ErrRateLimited = errors.New("backend rate limit exceeded")
)

const (
	// maxErrorBodySize limits how much of an error response is kept for diagnostics.
	maxErrorBodySize = 64 * 1024

	// maxPayloadSize bounds an aggregation document.
	maxPayloadSize = 32 << 20
)

// Fetcher retrieves the aggregation details of one kind.
type Fetcher interface {
	FetchAggregationDetails(ctx context.Context, kind models.AggregationKind) (*models.AggregationDetails, error)
}

// Backend is a Fetcher that can also report reachability.
type Backend interface {
	Fetcher
	Ping(ctx context.Context) error
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Client is the HTTP client for the metrics backend.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	schema         *SchemaValidator // nil when validation is disabled
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a backend client from cfg.
func NewClient(cfg *config.BackendConfig) (*Client, error) {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.RootAPI, "/"),
		client:         &http.Client{Timeout: cfg.Timeout},
		limiter:        newLimiter(cfg.RequestsPerSecond),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}

	if cfg.ValidateSchema {
		schema, err := NewSchemaValidator()
		if err != nil {
			return nil, err
		}
		c.schema = schema
	}

	return c, nil
}

// newLimiter builds the outbound token bucket; rps <= 0 disables limiting.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// aggregationsURL returns {root}/aggregations/{kind}.
func (c *Client) aggregationsURL(kind models.AggregationKind) string {
	return c.baseURL + "/aggregations/" + url.PathEscape(kind.String())
}

// FetchAggregationDetails issues exactly one logical GET for kind. HTTP 429
// responses are retried at transport level; anything else is returned as is.
func (c *Client) FetchAggregationDetails(ctx context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("fetch aggregations: %w: %q", models.ErrInvalidAggregationKind, kind)
	}

	start := time.Now()
	details, err := c.fetch(ctx, kind)
	metrics.RecordBackendFetch(kind.String(), fetchResult(err), time.Since(start))
	return details, err
}

func (c *Client) fetch(ctx context.Context, kind models.AggregationKind) (*models.AggregationDetails, error) {
	resp, err := c.doRequestWithRateLimit(ctx, c.aggregationsURL(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s aggregations: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%w: %s aggregations returned %d: %s", ErrUnexpectedStatus, kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s aggregations: %w", kind, err)
	}

	if c.schema != nil {
		if err := c.schema.Validate(body); err != nil {
			return nil, fmt.Errorf("%w: %s aggregations: %w", ErrInvalidPayload, kind, err)
		}
	}

	var details models.AggregationDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s aggregations: %w", ErrInvalidPayload, kind, err)
	}

	return &details, nil
}

// fetchResult maps an error onto the backend_fetch_total result label.
func fetchResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// doRequestWithRateLimit performs a GET with automatic rate limit handling.
// Implements exponential backoff for HTTP 429 responses (base, 2*base, 4*base, ...).
// A Retry-After header given in seconds replaces the computed delay.
// The context is used for cancellation during limiter and backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w after %d retries (HTTP 429)", ErrRateLimited, c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
			delay = time.Duration(seconds) * time.Second
		}
		metrics.BackendRateLimitRetries.Inc()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Ping verifies the backend answers at its root. Any response below 500 counts
// as reachable since the root itself may not be a routed resource.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to ping metrics backend: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: ping returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
