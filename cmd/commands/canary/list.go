package canary

import (
	"fmt"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/spf13/cobra"
)

// ListCommand returns the "canary list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored hosts and instances",
		Long: `List the hosts known to Canary. With API version v3 each host is followed
by the instances running on it.

Requires API version v2 or later.

Examples:
  canaryctl canary list
  canaryctl canary list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	manager, err := managerFor(settings)
	if err != nil {
		return err
	}

	rows, err := manager.List(cmd.Context())
	if err != nil {
		return err
	}
	storeTargets(settings, rows)

	if output == "json" {
		if rows == nil {
			rows = []domain.TargetInfo{}
		}
		return printJSON(cmd, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No targets found.")
		return nil
	}

	printTargets(cmd, rows)
	return nil
}
