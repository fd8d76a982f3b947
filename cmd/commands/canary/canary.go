package canary

import (
	"fmt"
	"os"

	"gridcentric/canaryctl/internal/auditlog"
	"gridcentric/canaryctl/internal/canary"
	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/services/auth"
	"gridcentric/canaryctl/internal/transport"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Overridable in tests.
var (
	newStore      = auth.DefaultStore
	isInteractive = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// NewCommand returns the "canary" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canary",
		Short: "Query Canary monitoring statistics",
		Long: `Query time-series monitoring statistics for compute hosts and the
instances running on them.

Targets are written as "host" or "host:instance". Instance targets require
API version v3.`,
		PersistentPreRunE: resolveSettings,
	}

	cmd.AddCommand(QueryCommand())
	cmd.AddCommand(InfoCommand())
	cmd.AddCommand(ListCommand())

	cmd.PersistentFlags().String("endpoint", "", "Compute API base URL (overrides config)")
	cmd.PersistentFlags().String("api-version", "", "Canary API version: v1, v2 or v3 (overrides config, default v3)")

	return cmd
}

// resolveSettings fills --endpoint and --api-version from the config when
// they were not passed explicitly.
func resolveSettings(cmd *cobra.Command, args []string) error {
	if isUtilityCommand(cmd) {
		return nil
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	cmd.Flag("endpoint").Value.Set(settings.Endpoint)
	cmd.Flag("api-version").Value.Set(string(settings.APIVersion))

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Endpoint:   settings.Endpoint,
		APIVersion: string(settings.APIVersion),
	}))
	return nil
}

// isUtilityCommand reports whether cmd is one of cobra's help or completion
// commands, which must work without an endpoint.
func isUtilityCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.Resolve(cmd.Flag("endpoint").Value.String(), cmd.Flag("api-version").Value.String())
}

// newManager builds the facade for the command's resolved settings.
func newManager(cmd *cobra.Command) (*canary.Manager, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return managerFor(settings)
}

func managerFor(settings config.Settings) (*canary.Manager, error) {
	t, err := transport.Get(settings.Endpoint, newStore())
	if err != nil {
		return nil, err
	}
	return canary.NewManager(t, settings.APIVersion), nil
}

// parseTarget parses a target argument and records it for the audit trail.
func parseTarget(cmd *cobra.Command, arg string) (domain.Target, error) {
	target, err := domain.ParseTarget(arg)
	if err != nil {
		return domain.Target{}, err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.TargetMetadata(target)))
	return target, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported output format %q (valid: table, json)", output)
}
