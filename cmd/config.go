// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"

	"warehousecharts/cli/internal/config"
	werrors "warehousecharts/cli/internal/errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the warehouse-charts config file",
}

// configInitCmd stores the settings resolved from flags, environment and any
// existing file, so later runs need no flags.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved settings to the config file",
	Long: `The init command writes the settings the next render would use (flags,
WAREHOUSE_DSN / DATABASE_URL, the existing config file and defaults) to the
config file. An existing file is only replaced with --force.

Example:
  warehouse-charts config init --source postgres --dsn postgres://bi@db:5432/wh --out reports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		p, err := config.Path()
		if err != nil {
			return werrors.Wrap(werrors.Config, "resolve config path", err)
		}
		if _, err := os.Stat(p); err == nil && !configForce {
			return werrors.Newf(werrors.Config, "%s already exists (use --force to replace it)", p)
		}
		if p, err = config.Save(cfg); err != nil {
			return err
		}
		pterm.Success.Printfln("Config written to %s", p)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "replace an existing config file")
	addOutputFlags(configInitCmd)
}
