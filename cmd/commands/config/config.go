package config

import (
	"gridcentric/canaryctl/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage canaryctl configuration",
		Long: "View and modify persistent canaryctl settings.\n\n" +
			"Configuration is stored at ~/.config/canaryctl/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
