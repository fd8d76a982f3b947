package config

import (
	"fmt"
	"strings"

	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "api-version").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string)

	// Validate rejects malformed values before they are stored. Nil means
	// any value is accepted.
	Validate func(value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "endpoint",
		Description: "Compute API base URL used when --endpoint is not specified",
		Get:         func(cfg *Config) string { return cfg.Endpoint },
		Set:         func(cfg *Config, v string) { cfg.Endpoint = strings.TrimSpace(v) },
		Validate: func(v string) error {
			_, err := util.ValidateEndpoint(v)
			return err
		},
	},
	{
		Name:        "api-version",
		Description: "Canary API revision (v1, v2, v3) used when --api-version is not specified",
		Get:         func(cfg *Config) string { return cfg.APIVersion },
		Set:         func(cfg *Config, v string) { cfg.APIVersion = util.NormalizeKey(v) },
		Validate: func(v string) error {
			_, err := domain.ParseAPIVersion(v)
			return err
		},
	},
	{
		Name:        "default-cf",
		Description: "Consolidation function used when --cf is not specified",
		Get:         func(cfg *Config) string { return cfg.DefaultCF },
		Set:         func(cfg *Config, v string) { cfg.DefaultCF = strings.TrimSpace(v) },
		Validate: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("consolidation function must not be empty")
			}
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// Apply validates value and stores it in cfg.
func (k *KeySpec) Apply(cfg *Config, value string) error {
	if k.Validate != nil {
		if err := k.Validate(value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", k.Name, err)
		}
	}
	k.Set(cfg, value)
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
