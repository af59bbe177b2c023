// Package api implements the ControlGastos Payments API client. All
// endpoints speak JSON over HTTP relative to a common base path; the
// server is treated as the single source of truth and callers re-read
// after every accepted mutation instead of merging locally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"controlgastos/internal/cache"
	"controlgastos/internal/core"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL   string
	hc        *http.Client
	companies *cache.TTL[[]core.Company]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
// and for callers that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithCompanyCacheTTL sets how long the company list is cached. Zero
// disables the cache.
func WithCompanyCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.companies = cache.NewTTL[[]core.Company](ttl) }
}

// New creates a client for the API mounted at baseURL (e.g.
// "http://localhost:8000/api"). A trailing slash is stripped.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		hc:        &http.Client{Timeout: defaultTimeout},
		companies: cache.NewTTL[[]core.Company](5 * time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one JSON request. body is marshalled when non-nil; the
// response is decoded into out when non-nil. Only status 200 counts as
// success; everything else becomes a *StatusError with the API's
// detail field when present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, path, err)
	}

	if res.StatusCode != http.StatusOK {
		return &StatusError{Code: res.StatusCode, Detail: errorDetail(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response %s %s: %w", method, path, err)
		}
	}
	return nil
}

// errorDetail extracts the API's "detail" field from an error body.
func errorDetail(data []byte) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Detail
}
