package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gridcentric/canaryctl/cmd/commands/audit"
	"gridcentric/canaryctl/cmd/commands/auth"
	"gridcentric/canaryctl/cmd/commands/canary"
	cfgcmd "gridcentric/canaryctl/cmd/commands/config"
	"gridcentric/canaryctl/internal/auditlog"
	"gridcentric/canaryctl/internal/transport"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "canaryctl",
		Short: "A CLI tool for querying Canary host and instance monitoring statistics",
		Long: `canaryctl queries Canary time-series statistics for compute hosts and
the instances running on them through the compute API.

Quick start:
  canaryctl config set endpoint https://nova.example.com:8774/v2/tenant
  canaryctl auth login                        # Store your API token
  canaryctl canary list                       # List hosts and instances
  canaryctl canary info compute-1             # Show available metrics
  canaryctl canary query compute-1 cpu.usage  # Query a series`,
		PersistentPreRunE: initLogging,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error, disabled")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(canary.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	// Run the root hook and the canary endpoint hook for every command.
	cobra.EnableTraverseRunHooks = true
}

// initLogging applies --debug and --log-level to the global logger.
func initLogging(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("--debug flag, forcing debug log level")
		return nil
	}

	raw, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return fmt.Errorf("unknown log level %q", raw)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// recordInvocation writes the audit entry for an executed command. Audit,
// help and completion commands are not recorded.
func recordInvocation(executed *cobra.Command, args []string, start time.Time, err error) {
	if executed == nil || !executed.Runnable() || !audited(executed) {
		return
	}
	meta := auditlog.MetadataFromContext(executed.Context())
	auditlog.Record(auditlog.NewEntry(executed.CommandPath(), args, meta, start, err))
}

func audited(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "audit", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	transport.RegisterHTTP()

	root := rootCmd()
	start := time.Now()
	executed, err := root.ExecuteC()
	recordInvocation(executed, os.Args[1:], start, err)
	if err != nil {
		os.Exit(1)
	}
}
