package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/wombat6/stacktrack/internal/txlist"
)

func newWalletsCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "List transaction lists in the wallets directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(global)
			if err != nil {
				return err
			}
			dir := a.resolve(a.cfg.Wallets.Dir)
			files, err := txlist.DefaultRegistry().Scan(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction lists in %s\n", dir)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Wallet", "Format", "Size", "Path"})
			for _, f := range files {
				t.AppendRow(table.Row{f.Name, f.Format, f.Size, f.Path})
			}
			t.Render()
			return nil
		},
	}
}
