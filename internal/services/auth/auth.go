// Package auth stores API tokens for Canary endpoints.
package auth

import (
	"errors"
	"net/url"

	"gridcentric/canaryctl/internal/util"
)

const ServiceName = "canaryctl"

var ErrTokenNotFound = errors.New("auth token not found")

// Store persists one token per account. Accounts are derived from endpoint
// URLs with AccountKey.
type Store interface {
	SetToken(account string, token string) error
	GetToken(account string) (string, error)
	DeleteToken(account string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// AccountKey returns the keychain account for an endpoint: its host and
// port, lowercased. Endpoints that do not parse as URLs are normalized as-is.
func AccountKey(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return util.NormalizeKey(endpoint)
	}
	return util.NormalizeKey(u.Host)
}
