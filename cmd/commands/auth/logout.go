package auth

import (
	"errors"
	"fmt"

	"gridcentric/canaryctl/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token for an endpoint",
		Long: `Remove the stored API token for the configured endpoint.

Example:
  canaryctl auth logout`,
		Args:         cobra.NoArgs,
		RunE:         runLogout,
		SilenceUsage: true,
	}

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	account, err := accountFor(cmd)
	if err != nil {
		return err
	}

	err = newStore().DeleteToken(account)
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
		fmt.Fprintf(cmd.OutOrStdout(), "No token stored for %s\n", account)
		return nil
	case err != nil:
		return fmt.Errorf("failed to remove token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed token for %s\n", account)
	return nil
}
