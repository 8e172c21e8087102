package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wombat6/stacktrack/internal/config"
)

func newInitCommand() *cobra.Command {
	var user string
	var span string
	var location string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a stacktrack directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			if user != "" {
				cfg.User = user
			}
			if span != "" {
				cfg.Chart.DefaultSpan = span
			}
			if location != "" {
				cfg.Chart.Location = location
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := runInit(absDir, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized stacktrack at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "settings owner (default admin)")
	cmd.Flags().StringVar(&span, "span", "", "default chart span: 1d, 1w, 1m, 1y or all (default 1y)")
	cmd.Flags().StringVar(&location, "location", "", "time zone for bucket boundaries (default Local)")

	return cmd
}

func runInit(dir string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Join(dir, cfg.Wallets.Dir), 0o755); err != nil {
		return fmt.Errorf("creating wallets directory: %w", err)
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	settingsPath := filepath.Join(dir, cfg.Settings.Path)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte("{}\n"), 0o600); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}
	}

	return nil
}
