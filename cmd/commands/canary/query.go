package canary

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gridcentric/canaryctl/internal/auditlog"
	"gridcentric/canaryctl/internal/canary"
	"gridcentric/canaryctl/internal/canary/domain"
	"gridcentric/canaryctl/internal/config"
	"gridcentric/canaryctl/internal/tui"
	"gridcentric/canaryctl/internal/tui/components"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultChartWidth = 80

// QueryCommand returns the "canary query" command.
func QueryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [target] [metric]",
		Short: "Query a metric series for a host or instance",
		Long: `Query a metric series for a host or a host:instance target.

Points are printed in the order the server returns them. Gaps in the series
are shown as "-". When no target is given in an interactive terminal, a
picker lists the available targets, metrics and consolidation functions.

Time flags accept epoch seconds, RFC 3339 timestamps, "now", or a negative
duration relative to now (e.g. -1h). Unset flags let the server choose.

Examples:
  canaryctl canary query compute-1 cpu.usage
  canaryctl canary query compute-1:i-00000042 --metric mem.used --cf MAX
  canaryctl canary query compute-1 cpu.usage --from-time -6h --resolution 300
  canaryctl canary query compute-1 cpu.usage --chart
  canaryctl canary query compute-1 cpu.usage -o json`,
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: completeTargets,
		RunE:              runQuery,
		SilenceUsage:      true,
	}

	cmd.Flags().StringP("metric", "m", "", "Metric to query (alternative to the second argument)")
	cmd.Flags().String("cf", "", "Consolidation function (default from config, else AVERAGE)")
	cmd.Flags().String("from-time", "", "Start of the query window")
	cmd.Flags().String("to-time", "", "End of the query window")
	cmd.Flags().Int64("resolution", 0, "Resolution in seconds")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	cmd.Flags().Bool("wide", false, "Include target and metric columns")
	cmd.Flags().Bool("chart", false, "Render the series as a line chart")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	output, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	chart, _ := cmd.Flags().GetBool("chart")
	if chart && output == "json" {
		return fmt.Errorf("--chart cannot be combined with -o json")
	}

	metric, err := metricArg(cmd, args)
	if err != nil {
		return err
	}

	opts, err := queryOpts(cmd, time.Now())
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfFlag, _ := cmd.Flags().GetString("cf")
	opts.CF = cfg.CF(cfFlag)

	manager, err := newManager(cmd)
	if err != nil {
		return err
	}

	var target domain.Target
	if len(args) == 0 {
		if !isInteractive() {
			return fmt.Errorf("a target is required when not running in a terminal")
		}
		sel, err := tui.QueryForm(manager, tui.QuerySelection{Metric: metric, CF: opts.CF}, manager.Version().SupportsInstances())
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Query cancelled.")
				return nil
			}
			return err
		}
		target, metric, opts.CF = sel.Target, sel.Metric, sel.CF
		cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.TargetMetadata(target)))
	} else {
		target, err = parseTarget(cmd, args[0])
		if err != nil {
			return err
		}
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Metric: metric}))

	points, err := manager.Query(cmd.Context(), target, metric, opts)
	if err != nil {
		return queryError(err, target, manager.Version())
	}

	if output == "json" {
		if points == nil {
			points = []domain.DataPoint{}
		}
		return printJSON(cmd, points)
	}

	if len(points) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No data points returned.")
		return nil
	}

	if chart {
		fmt.Fprintln(cmd.OutOrStdout(), components.SeriesChart(target.ID()+" "+metric, points, chartWidth()))
		return nil
	}

	wide, _ := cmd.Flags().GetBool("wide")
	printPoints(cmd, target, metric, points, wide)
	return nil
}

// metricArg returns the metric from the second argument or --metric.
func metricArg(cmd *cobra.Command, args []string) (string, error) {
	flag, _ := cmd.Flags().GetString("metric")
	flag = strings.TrimSpace(flag)
	if len(args) < 2 {
		return flag, nil
	}
	positional := strings.TrimSpace(args[1])
	if flag != "" && flag != positional {
		return "", fmt.Errorf("metric given twice: %q and --metric %q", positional, flag)
	}
	return positional, nil
}

func queryOpts(cmd *cobra.Command, now time.Time) (domain.QueryOpts, error) {
	var opts domain.QueryOpts

	from, _ := cmd.Flags().GetString("from-time")
	fromTime, err := parseTimeFlag(from, now)
	if err != nil {
		return opts, fmt.Errorf("--from-time: %w", err)
	}
	to, _ := cmd.Flags().GetString("to-time")
	toTime, err := parseTimeFlag(to, now)
	if err != nil {
		return opts, fmt.Errorf("--to-time: %w", err)
	}
	opts.FromTime, opts.ToTime = fromTime, toTime

	if cmd.Flags().Changed("resolution") {
		res, _ := cmd.Flags().GetInt64("resolution")
		if res <= 0 {
			return opts, fmt.Errorf("--resolution must be greater than 0")
		}
		opts.Resolution = &res
	}

	return opts, nil
}

// queryError adds a hint for the failures users can act on.
func queryError(err error, target domain.Target, version domain.APIVersion) error {
	switch {
	case errors.Is(err, domain.ErrMetricRequired):
		return fmt.Errorf("%w: pass it as the second argument or with --metric", err)
	case errors.Is(err, domain.ErrUnsupported):
		if _, ok := target.Instance(); ok {
			return fmt.Errorf("instance target %s needs --api-version v3 (using %s): %w", target, version, err)
		}
	}
	return err
}

func chartWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultChartWidth
}

// compile-time check that the facade satisfies the picker's needs.
var _ tui.Browser = (*canary.Manager)(nil)
