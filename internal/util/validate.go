package util

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateEndpoint checks that an endpoint is an absolute URL with a scheme
// and a host, and returns it parsed. Trailing slashes are tolerated:
//   - https://nova.example.com:8774/v2/tenant
//   - mock://fixtures
func ValidateEndpoint(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint must not be empty")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q is not a valid URL: %w", endpoint, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("endpoint %q must include a scheme (for example https://)", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must include a host", endpoint)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("endpoint %q must not contain a query or fragment", endpoint)
	}

	return u, nil
}
