package auth

import (
	"fmt"
	"os"
	"strings"

	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/services/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Overridable in tests.
var (
	newStore   = auth.DefaultStore
	stdinIsTTY = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readSecret = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API tokens for compute endpoints",
		Long: `Manage API tokens for compute endpoints.

Tokens are stored in the local keychain, one per endpoint host. They are sent
as the X-Auth-Token header on every Canary request.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	cmd.PersistentFlags().String("endpoint", "", "Compute API base URL (overrides config)")

	return cmd
}

// accountFor resolves the keychain account for the --endpoint flag or the
// configured endpoint.
func accountFor(cmd *cobra.Command) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	flag, _ := cmd.Flags().GetString("endpoint")
	settings, err := cfg.Resolve(flag, "")
	if err != nil {
		return "", err
	}
	return auth.AccountKey(strings.TrimSpace(settings.Endpoint)), nil
}
