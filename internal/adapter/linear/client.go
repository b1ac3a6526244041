// Package linear provides an HTTP client for the Linear GraphQL API,
// authenticated as the OAuth app actor.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hookline/hookline/internal/domain"
	"github.com/hookline/hookline/internal/resilience"
)

// Client talks to the tracker's single GraphQL endpoint.
type Client struct {
	apiURL     string
	httpClient *http.Client
	breaker    *resilience.Breaker

	// mu guards accessToken: the OAuth callback rotates it while
	// request goroutines are reading it.
	mu          sync.RWMutex
	accessToken string
}

// NewClient creates a tracker API client. The access token may be empty;
// calls will then fail with domain.ErrNoToken.
func NewClient(apiURL, accessToken string) *Client {
	return &Client{
		apiURL:      apiURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing API calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// SetAccessToken replaces the bearer token, e.g. after an OAuth
// exchange. Safe for concurrent use with Do.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// token reads the current bearer token under the read lock.
func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// graphQLError is one entry of a GraphQL-level errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// Do executes a GraphQL document with optional variables and returns the
// raw "data" member of the response. Non-2xx responses and GraphQL-level
// errors are returned as errors; there is no retry or backoff.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	// Read the token once so the whole call sees one consistent value
	// even if a rotation lands mid-request.
	token := c.token()
	if token == "" {
		return nil, domain.ErrNoToken
	}

	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	var data json.RawMessage
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("tracker API error %d: %s", resp.StatusCode, string(body))
		}

		var parsed struct {
			Data   json.RawMessage `json:"data"`
			Errors []graphQLError  `json:"errors"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("unmarshal graphql response: %w", err)
		}
		if len(parsed.Errors) > 0 {
			return fmt.Errorf("graphql error: %s", parsed.Errors[0].Message)
		}

		data = parsed.Data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return data, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return data, nil
}
