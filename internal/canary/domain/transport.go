package domain

import (
	"context"
	"encoding/json"
)

// Transport executes requests against the Canary REST surface.
//
// Paths are relative to the configured endpoint. Implementations return the
// HTTP status together with the raw JSON body, and an error for connection
// failures and non-2xx statuses.
type Transport interface {
	Get(ctx context.Context, path string) (int, json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (int, json.RawMessage, error)
}
