package auth

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token for an endpoint",
		Long: `Store an API token for the configured endpoint using the local keychain.

Without --token the token is read from a hidden prompt.

Examples:
  canaryctl auth login
  canaryctl auth login --endpoint https://nova.example.com:8774/v2/tenant --token "$OS_TOKEN"`,
		Args:         cobra.NoArgs,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	account, err := accountFor(cmd)
	if err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		if !stdinIsTTY() {
			return fmt.Errorf("--token is required when stdin is not a terminal")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Enter API token for %s: ", account)
		secret, err := readSecret()
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(string(secret))
	}

	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := newStore().SetToken(account, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for %s\n", account)
	return nil
}
