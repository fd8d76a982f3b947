package config

import (
	"fmt"
	"strings"

	"gridcentric/canaryctl/internal/canary/domain"
)

// Settings are the connection parameters shared by every Canary command.
type Settings struct {
	Endpoint   string
	APIVersion domain.APIVersion
}

// Resolve combines flag values with the stored config. Non-empty flags win;
// an unset API version falls back to domain.DefaultAPIVersion. A missing
// endpoint is an error naming the config key to set.
func (c *Config) Resolve(endpointFlag, versionFlag string) (Settings, error) {
	endpoint := strings.TrimSpace(endpointFlag)
	if endpoint == "" {
		endpoint = c.Endpoint
	}
	if endpoint == "" {
		return Settings{}, fmt.Errorf("no endpoint specified: use --endpoint flag or set a default with 'canaryctl config set endpoint <url>'")
	}

	rawVersion := strings.TrimSpace(versionFlag)
	if rawVersion == "" {
		rawVersion = c.APIVersion
	}
	version := domain.DefaultAPIVersion
	if rawVersion != "" {
		v, err := domain.ParseAPIVersion(rawVersion)
		if err != nil {
			return Settings{}, err
		}
		version = v
	}

	return Settings{Endpoint: endpoint, APIVersion: version}, nil
}

// CF returns flag when set, else the configured default-cf. An empty result
// lets the query apply domain.DefaultCF.
func (c *Config) CF(flag string) string {
	if cf := strings.TrimSpace(flag); cf != "" {
		return cf
	}
	return c.DefaultCF
}
