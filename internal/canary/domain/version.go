package domain

import (
	"fmt"
	"strings"
)

// APIVersion selects the revision of the Canary REST surface.
type APIVersion string

const (
	// APIv1 drives the legacy host action endpoint (POST /os-hosts/{id}/action).
	APIv1 APIVersion = "v1"
	// APIv2 uses the /canary collection with host-only addressing.
	APIv2 APIVersion = "v2"
	// APIv3 uses the /canary collection with host and host:instance addressing.
	APIv3 APIVersion = "v3"
)

// DefaultAPIVersion is used when neither flag nor config names a version.
const DefaultAPIVersion = APIv3

// APIVersions lists every supported version, oldest first.
var APIVersions = []APIVersion{APIv1, APIv2, APIv3}

// ParseAPIVersion parses a version name case-insensitively.
func ParseAPIVersion(s string) (APIVersion, error) {
	v := APIVersion(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range APIVersions {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown API version %q (valid: v1, v2, v3)", s)
}

// SupportsInstances reports whether host:instance targets can be addressed.
func (v APIVersion) SupportsInstances() bool { return v == APIv3 }

// SupportsList reports whether the collection root can be enumerated.
func (v APIVersion) SupportsList() bool { return v != APIv1 }
