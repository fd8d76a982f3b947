package canary

import (
	"fmt"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/spf13/cobra"
)

// InfoCommand returns the "canary info" command.
func InfoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info <target>",
		Aliases: []string{"show"},
		Short:   "Show the metrics available for a host or instance",
		Long: `Show the metrics a host or host:instance target reports, with the time
range, consolidation functions and resolutions available for each.

Fields the server does not report are shown as "-".

Examples:
  canaryctl canary info compute-1
  canaryctl canary info compute-1:i-00000042 -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTargets,
		RunE:              runInfo,
		SilenceUsage:      true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	target, err := parseTarget(cmd, args[0])
	if err != nil {
		return err
	}

	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	infos, err := manager.Info(cmd.Context(), target)
	if err != nil {
		return queryError(err, target, manager.Version())
	}

	if output == "json" {
		if infos == nil {
			infos = []domain.MetricInfo{}
		}
		return printJSON(cmd, infos)
	}

	if len(infos) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No metrics reported for %s.\n", target)
		return nil
	}

	printMetricInfos(cmd, infos)
	return nil
}
