// Package client implements the Go browse client for the store backend:
// a thin HTTP wrapper around the catalog API, a debounced search driver
// that discards stale responses, and an in-memory cart.
//
// The package is transport-only on the wire level: it decodes the JSON
// shapes the server produces (including the nested error envelope) and
// exposes typed results. It performs no caching or persistence.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tbourn/go-store-backend/internal/domain"
)

// defaultTimeout bounds a single catalog request when the caller's
// context carries no deadline of its own.
const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the server's error
// envelope. Status is always set; Code and Message are best effort
// (the body may not be JSON when an intermediary answered).
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// ListParams are the query parameters of GET /list. Zero values are
// omitted from the request so the server applies its own defaults.
type ListParams struct {
	Search string
	Limit  int
	Offset int
}

// Page is one decoded page of catalog listings.
type Page struct {
	Items []domain.Game `json:"items"`
	Total int64         `json:"total"`
}

// Client talks to a running store backend.
//
// The zero value is not usable; construct with New. Client is safe for
// concurrent use as long as the underlying http.Client is.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New returns a Client for the backend at baseURL (e.g.
// "http://localhost:4000"). A nil httpc falls back to a client with a
// sane default timeout.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpc: httpc}
}

// List fetches one page of catalog listings.
//
// Non-2xx responses are returned as *APIError. The context governs
// cancellation; callers driving interactive search should prefer
// Browser, which additionally handles debouncing and stale responses.
func (c *Client) List(ctx context.Context, p ListParams) (*Page, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	u := c.baseURL + "/list"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	if page.Items == nil {
		page.Items = []domain.Game{}
	}
	return &page, nil
}

// Health reports whether the backend answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	return nil
}

// decodeAPIError turns a non-2xx response into *APIError, tolerating
// bodies that are not the expected envelope.
func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
