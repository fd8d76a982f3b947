package domain

import "errors"

// Sentinel errors for classifying failures. Transports wrap the first four so
// the CLI can report categories uniformly.
//
//	return fmt.Errorf("canary query failed: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested host, instance or metric does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the API throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state conflict reported by the API.
	ErrConflict = errors.New("conflict")

	// ErrMetricRequired is returned by Query when no metric name is given.
	ErrMetricRequired = errors.New("metric is required")

	// ErrUnsupported indicates the operation or addressing mode is not
	// available in the selected API version.
	ErrUnsupported = errors.New("not supported by this API version")

	// ErrMalformedResponse indicates a response body did not have the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)
