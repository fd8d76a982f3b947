package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"gridcentric/canaryctl/internal/auditlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  canaryctl audit list
  canaryctl audit list --limit 50
  canaryctl audit list --command "canaryctl canary query"
  canaryctl audit list --target compute-1:i-00000042
  canaryctl audit list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().String("target", "", "Filter by target (host or host:instance)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	command, _ := cmd.Flags().GetString("command")
	target, _ := cmd.Flags().GetString("target")
	if command != "" && target != "" {
		return fmt.Errorf("--command and --target cannot be combined")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []auditlog.AuditEntry
	switch {
	case command != "":
		entries, err = repo.ListByCommand(command, limit)
	case target != "":
		entries, err = repo.ListByTarget(target, limit)
	default:
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		if entries == nil {
			entries = []auditlog.AuditEntry{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tOUTCOME\tDURATION\tTARGET\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-------\t--------\t------\t------")
	for _, entry := range entries {
		detail := entry.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
			entry.Command,
			entry.Outcome,
			formatDuration(entry.DurationMs),
			formatTarget(entry),
			detail,
		)
	}
	w.Flush()
	return nil
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

// formatTarget renders "kind id (metric)", omitting missing parts.
func formatTarget(entry auditlog.AuditEntry) string {
	if entry.TargetID == "" {
		return "-"
	}

	target := entry.TargetID
	if entry.TargetType != "" {
		target = entry.TargetType + " " + target
	}
	if entry.Metric != "" {
		target += " (" + entry.Metric + ")"
	}
	return target
}
