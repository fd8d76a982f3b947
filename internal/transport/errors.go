package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gridcentric/canaryctl/internal/canary/domain"
)

// maxMessageLen bounds how much of a non-JSON error body is kept.
const maxMessageLen = 200

// APIError is returned for responses with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("canary: API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("canary: API returned status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status to a domain sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// Temporary reports whether the status indicates a transient server condition.
func (e *APIError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// newAPIError builds an APIError, extracting the message from a compute-API
// fault body ({"itemNotFound": {"message": ...}}), a flat {"message": ...}
// body, or the raw text.
func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: errorMessage(body)}
}

func errorMessage(body []byte) string {
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}

	var fault map[string]struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &fault); err == nil {
		for _, f := range fault {
			if f.Message != "" {
				return f.Message
			}
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen] + "..."
	}
	return msg
}
