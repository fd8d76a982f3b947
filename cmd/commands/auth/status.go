package auth

import (
	"errors"
	"fmt"

	"gridcentric/canaryctl/internal/services/auth"
	"gridcentric/canaryctl/internal/tui/styles"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored for an endpoint",
		Long: `Show whether an API token is stored for the configured endpoint.

Example:
  canaryctl auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := accountFor(cmd)
			if err != nil {
				return err
			}

			_, err = newStore().GetToken(account)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", account, styles.CredentialStatus(true))
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", account, styles.CredentialStatus(false))
			default:
				return fmt.Errorf("failed to read token for %s: %w", account, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
