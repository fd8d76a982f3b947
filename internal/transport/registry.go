package transport

import (
	"fmt"
	"net/url"
	"sync"

	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/services/auth"
	"gridcentric/canaryctl/internal/util"
)

// Factory builds a Transport for an endpoint, using the store for credentials.
type Factory func(endpoint *url.URL, store auth.Store) (domain.Transport, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a transport factory for a URL scheme.
// It panics on empty scheme, nil factory, or duplicate registration
// (programmer errors detected at startup).
func Register(scheme string, factory Factory) {
	normalized := util.NormalizeKey(scheme)
	if normalized == "" {
		panic("transport: empty scheme")
	}
	if factory == nil {
		panic("transport: nil factory")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[normalized]; exists {
		panic(fmt.Sprintf("transport: scheme %q already registered", scheme))
	}

	registry[normalized] = factory
}

// Get parses endpoint and constructs the Transport registered for its scheme.
func Get(endpoint string, store auth.Store) (domain.Transport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("transport: endpoint %q has no scheme", endpoint)
	}

	mu.RLock()
	factory, ok := registry[util.NormalizeKey(u.Scheme)]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("transport: unknown scheme %q", u.Scheme)
	}

	return factory(u, store)
}

// Supports reports whether a transport is registered for scheme.
func Supports(scheme string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[util.NormalizeKey(scheme)]
	return ok
}

// List returns the registered schemes.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	schemes := make([]string, 0, len(registry))
	for scheme := range registry {
		schemes = append(schemes, scheme)
	}
	return schemes
}

// Reset clears the registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Factory{}
}
