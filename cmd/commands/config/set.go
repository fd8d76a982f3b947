package config

import (
	"fmt"
	"strings"

	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/transport"
	"gridcentric/canaryctl/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  canaryctl config set endpoint https://nova.example.com:8774/v2/tenant\n" +
			"  canaryctl config set api-version v2\n" +
			"  canaryctl config set default-cf MAX",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE:              runSet,
		SilenceUsage:      true,
	}

	return cmd
}

// validators maps key names to checks that need more than the key's own
// Validate, such as the transport registry.
var validators = map[string]func(value string) error{
	"endpoint": validateEndpointScheme,
}

func runSet(cmd *cobra.Command, args []string) error {
	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}
	value := args[1]

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := spec.Apply(cfg, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, spec.Get(cfg))
	return nil
}

// validateEndpointScheme checks that a transport is registered for the
// endpoint's scheme.
func validateEndpointScheme(value string) error {
	u, err := util.ValidateEndpoint(value)
	if err != nil {
		return err
	}
	if !transport.Supports(u.Scheme) {
		return fmt.Errorf("unsupported endpoint scheme %q (registered: %s)", u.Scheme, strings.Join(transport.List(), ", "))
	}
	return nil
}
