package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wombat6/stacktrack/internal/settings"
)

func newSettingsCommand(global *globalFlags) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change per-user chart settings",
	}
	cmd.PersistentFlags().StringVar(&user, "user", "", "settings owner (default from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(global)
			if err != nil {
				return err
			}
			v, err := a.settings.Get(a.user(user), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: `Change a setting.

Known keys:
  show_overview_chart  "yes" or "no"
  wallet               transaction list charted when none is given`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(global)
			if err != nil {
				return err
			}
			return runSettingsSet(a.settings, a.user(user), args[0], args[1])
		},
	})

	return cmd
}

func runSettingsSet(store settings.Store, user, key, value string) error {
	switch key {
	case settings.KeyShowOverviewChart:
		switch value {
		case "yes":
			return settings.SetShowOverviewChart(store, user, true)
		case "no":
			return settings.SetShowOverviewChart(store, user, false)
		default:
			return fmt.Errorf("%s must be yes or no, got %q", key, value)
		}
	case settings.KeyWallet:
		return store.Set(user, key, value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
}
