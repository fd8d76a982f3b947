// Package transport carries Canary requests to the compute API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/retry"
	"gridcentric/canaryctl/internal/services/auth"

	"github.com/rs/zerolog/log"
)

const (
	httpTimeout = 30 * time.Second
	tokenHeader = "X-Auth-Token"
)

// Compile-time check that HTTPTransport satisfies domain.Transport.
var _ domain.Transport = (*HTTPTransport)(nil)

// HTTPTransport implements domain.Transport over JSON/HTTP. Reads are retried
// on transient failures; writes are issued once.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
	policy  retry.Policy
}

// NewHTTPTransport creates an HTTPTransport for the endpoint base URL.
// An empty token sends no authentication header.
func NewHTTPTransport(baseURL, token string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
		policy:  retry.DefaultPolicy(),
	}
}

// RegisterHTTP registers the HTTP transport for the http and https schemes.
// The token is read from the store under the endpoint's account.
func RegisterHTTP() {
	factory := func(endpoint *url.URL, store auth.Store) (domain.Transport, error) {
		account := auth.AccountKey(endpoint.String())
		token, err := store.GetToken(account)
		if err != nil {
			return nil, fmt.Errorf("canary auth: token for %s not found (run 'canaryctl auth login'): %w", account, err)
		}
		return NewHTTPTransport(endpoint.String(), token), nil
	}
	Register("http", factory)
	Register("https", factory)
}

// Get issues a GET request for path.
func (t *HTTPTransport) Get(ctx context.Context, path string) (int, json.RawMessage, error) {
	var status int
	var body json.RawMessage
	err := retry.Do(ctx, t.policy, retry.IsRetryable, func() error {
		var err error
		status, body, err = t.do(ctx, http.MethodGet, path, nil)
		return err
	})
	return status, body, err
}

// Post issues a POST request for path with body encoded as JSON.
func (t *HTTPTransport) Post(ctx context.Context, path string, body any) (int, json.RawMessage, error) {
	return t.do(ctx, http.MethodPost, path, body)
}

// do sends a single request and returns the status and raw JSON body.
// Non-2xx statuses are returned as *APIError.
func (t *HTTPTransport) do(ctx context.Context, method, path string, body any) (int, json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("canary: failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("canary: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set(tokenHeader, t.token)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("canary: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("canary: failed to read response: %w", err)
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("canary request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, newAPIError(resp.StatusCode, data)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return resp.StatusCode, json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return resp.StatusCode, nil, fmt.Errorf("canary: failed to decode response: %w", domain.ErrMalformedResponse)
	}

	return resp.StatusCode, json.RawMessage(data), nil
}
