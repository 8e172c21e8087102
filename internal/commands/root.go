package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wombat6/stacktrack/internal/buildinfo"
	"github.com/wombat6/stacktrack/internal/logger"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:     "stacktrack",
		Short:   "Bitcoin wallet balance charts",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(os.Stderr, flags.logLevel)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $STACKTRACK_CONFIG or ./stacktrack.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newChartCommand(&flags))
	rootCmd.AddCommand(newOverviewCommand(&flags))
	rootCmd.AddCommand(newWalletsCommand(&flags))
	rootCmd.AddCommand(newSettingsCommand(&flags))

	return rootCmd
}
