// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"warehousecharts/cli/internal/config"
	"warehousecharts/cli/internal/dsn"
	"warehousecharts/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd shows the resolved warehouse source with credentials masked.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show the resolved warehouse source",
	Long: `The dbinfo command displays the warehouse source the next render would use,
after applying the config file, WAREHOUSE_DSN / DATABASE_URL and flags.
Passwords in the connection string are replaced with ***.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Warehouse Source")).
			WithPadding(1).
			Println(describeSource(cfg))
		pterm.Println()
		if p, err := config.Path(); err == nil {
			pterm.Println("Config file: " + p)
		}
		if err := cfg.Validate(); err != nil {
			pterm.Warning.Println(err.Error())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}

func describeSource(c config.Config) string {
	var b strings.Builder
	st := c.SourceType()
	fmt.Fprintf(&b, "Source: %s\n", st)
	switch st {
	case dsn.SourceBigQuery:
		fmt.Fprintf(&b, "Project: %s\n", c.BigQueryProject())
	default:
		d := c.DSN
		if d == "" {
			d = "(not set)"
		}
		fmt.Fprintf(&b, "DSN: %s\n", logging.Mask(d))
	}
	fmt.Fprintf(&b, "Table: %s\n", c.TableName())
	fmt.Fprintf(&b, "Output: %s (%s)", c.OutputDir, c.Format)
	return b.String()
}
