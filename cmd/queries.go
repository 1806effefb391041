// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"warehousecharts/cli/internal/catalog"
	werrors "warehousecharts/cli/internal/errors"

	"github.com/spf13/cobra"
)

// queriesCmd prints the report catalog rendered for the configured dialect.
var queriesCmd = &cobra.Command{
	Use:   "queries [report]",
	Short: "Print the SQL of every report, or of one report",
	Long: `The queries command prints the analytical queries for the configured source,
in run order. Pass a report key to print a single query.

Report keys: ` + strings.Join(catalog.New(catalog.SQLite("")).Keys(), ", "),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, err := cfg.Dialect()
		if err != nil {
			return err
		}
		c := catalog.New(dialect)
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprint(out, c.Describe())
			return nil
		}
		r, ok := c.Get(args[0])
		if !ok {
			return werrors.Newf(werrors.Config, "unknown report %q (want one of %s)", args[0], strings.Join(c.Keys(), ", "))
		}
		fmt.Fprintf(out, "%s;\n", strings.TrimSpace(r.Query))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queriesCmd)
}
