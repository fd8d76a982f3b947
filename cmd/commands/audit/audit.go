package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage audit history",
		Long: "View a local audit trail of canaryctl commands and prune old entries.\n\n" +
			"Each entry records the command, its arguments with tokens redacted, the\n" +
			"endpoint and target it addressed, the outcome and the duration.\n\n" +
			"Audit history is stored locally in ~/.config/canaryctl/canaryctl.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
