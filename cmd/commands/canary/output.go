package canary

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gridcentric/canaryctl/internal/canary/domain"

	"github.com/spf13/cobra"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	absent     = "-"
)

// printJSON encodes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPoints prints a query result as a table. wide adds the target and
// metric columns.
func printPoints(cmd *cobra.Command, target domain.Target, metric string, points []domain.DataPoint, wide bool) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	if wide {
		fmt.Fprintln(w, "TARGET\tMETRIC\tTIMESTAMP\tCF\tVALUE")
		fmt.Fprintln(w, "------\t------\t---------\t--\t-----")
	} else {
		fmt.Fprintln(w, "TIMESTAMP\tCF\tVALUE")
		fmt.Fprintln(w, "---------\t--\t-----")
	}

	for _, p := range points {
		if wide {
			fmt.Fprintf(w, "%s\t%s\t", target.ID(), metric)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatTimestamp(p.Timestamp), p.CF, formatValue(p.Value))
	}

	w.Flush()
}

// printMetricInfos prints one row per metric in the order the server sent.
func printMetricInfos(cmd *cobra.Command, infos []domain.MetricInfo) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METRIC\tFROM\tTO\tCFS\tRESOLUTIONS")
	fmt.Fprintln(w, "------\t----\t--\t---\t-----------")

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			info.Metric,
			formatOptionalTime(info.FromTime),
			formatOptionalTime(info.ToTime),
			formatList(info.CFs),
			formatResolutions(info.Resolutions),
		)
	}

	w.Flush()
}

// printTargets prints listing rows; host rows show "-" for the instance.
func printTargets(cmd *cobra.Command, rows []domain.TargetInfo) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "HOST\tINSTANCE")
	fmt.Fprintln(w, "----\t--------")

	for _, row := range rows {
		instance := row.Instance
		if instance == "" {
			instance = absent
		}
		fmt.Fprintf(w, "%s\t%s\n", row.Host, instance)
	}

	w.Flush()
}

func formatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timeLayout)
}

func formatOptionalTime(ts *int64) string {
	if ts == nil {
		return absent
	}
	return formatTimestamp(*ts)
}

func formatValue(v *float64) string {
	if v == nil {
		return absent
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatList(items []string) string {
	if len(items) == 0 {
		return absent
	}
	return strings.Join(items, ",")
}

func formatResolutions(res []int64) string {
	if len(res) == 0 {
		return absent
	}
	parts := make([]string, len(res))
	for i, r := range res {
		parts[i] = strconv.FormatInt(r, 10)
	}
	return strings.Join(parts, ",")
}
