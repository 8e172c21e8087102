package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wombat6/stacktrack/internal/logger"
	"github.com/wombat6/stacktrack/internal/render"
	"github.com/wombat6/stacktrack/internal/settings"
	"github.com/wombat6/stacktrack/internal/stacktrack"
	"github.com/wombat6/stacktrack/internal/txlist"
	"github.com/wombat6/stacktrack/internal/window"
)

// errUnavailable prefixes every chart build failure shown to the user.
var errUnavailable = errors.New("chart unavailable")

type chartFlags struct {
	span   string
	format string
	now    string
	user   string
	input  string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.span, "span", "", "chart span: "+strings.Join(window.Spans, ", ")+" (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", render.FormatTable, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVar(&f.now, "now", "", "chart as of this time instead of the wall clock")
	cmd.Flags().StringVar(&f.user, "user", "", "settings owner (default from config)")
}

func newChartCommand(global *globalFlags) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "chart [transaction-list]",
		Short: "Chart one wallet's balance",
		Long: `Chart one wallet's net flow and running balance.

The transaction list is a host wallet txlist export (.json) or a CSV file
(.csv). Without an argument the user's associated wallet is charted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runChart(cmd, global, flags, path)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&flags.input, "input-format", "", "transaction list format: json or csv (default from extension)")

	return cmd
}

func runChart(cmd *cobra.Command, global *globalFlags, flags chartFlags, path string) error {
	a, err := loadApp(global)
	if err != nil {
		return err
	}
	now, err := parseNow(flags.now, a.loc)
	if err != nil {
		return err
	}
	svc := a.service(now)
	user := a.user(flags.user)

	if path == "" {
		path, err = svc.AssociatedWallet(user)
		if err != nil {
			return fmt.Errorf("%w: %w", errUnavailable, err)
		}
		if path == "" {
			return fmt.Errorf("%w: no transaction list given and no wallet associated with user %q", errUnavailable, user)
		}
		path = a.resolve(path)
	}

	log := logger.FromContext(cmd.Context())
	log.Debug().Str("user", user).Str("path", path).Msg("charting wallet")

	wallet, err := txlist.DefaultRegistry().Load(path, flags.input)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnavailable, err)
	}

	chart, err := svc.WalletChart(cmd.Context(), wallet, flags.span)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnavailable, err)
	}
	return render.Write(cmd.OutOrStdout(), flags.format, chart)
}

func newOverviewCommand(global *globalFlags) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "overview [transaction-list...]",
		Short: "Chart the combined balance of several wallets",
		Long: `Chart the combined balance of several wallets.

Without arguments every transaction list in the configured wallets directory
is included. The chart is only shown when the user's show_overview_chart
setting is "yes".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOverview(cmd, global, flags, args)
		},
	}

	flags.register(cmd)

	return cmd
}

func runOverview(cmd *cobra.Command, global *globalFlags, flags chartFlags, paths []string) error {
	a, err := loadApp(global)
	if err != nil {
		return err
	}
	now, err := parseNow(flags.now, a.loc)
	if err != nil {
		return err
	}
	svc := a.service(now)
	user := a.user(flags.user)

	reg := txlist.DefaultRegistry()
	if len(paths) == 0 {
		files, err := reg.Scan(a.resolve(a.cfg.Wallets.Dir))
		if err != nil {
			return fmt.Errorf("%w: %w", errUnavailable, err)
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no transaction lists in %s", errUnavailable, a.resolve(a.cfg.Wallets.Dir))
	}

	wallets, err := reg.LoadAll(cmd.Context(), paths)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnavailable, err)
	}

	chart, err := svc.OverviewChart(cmd.Context(), user, wallets, flags.span)
	if errors.Is(err, stacktrack.ErrOverviewDisabled) {
		fmt.Fprintf(cmd.OutOrStdout(), "Overview chart is disabled for %s. Enable it with: stacktrack settings set %s yes\n",
			user, settings.KeyShowOverviewChart)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errUnavailable, err)
	}
	return render.Write(cmd.OutOrStdout(), flags.format, chart)
}
