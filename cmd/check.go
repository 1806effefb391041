// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"time"

	"warehousecharts/cli/internal/catalog"
	"warehousecharts/cli/internal/pipeline"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkTimeout time.Duration

// checkCmd connects to the configured warehouse and verifies the source table
// has every column the reports read, without running any report.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the warehouse connection and source table schema",
	Long: `The check command connects to the configured warehouse and lists the columns
of the source table. It fails if any column referenced by a report is missing,
which is the same check render performs with --preflight.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		dialect, err := cfg.Dialect()
		if err != nil {
			return err
		}
		src, err := cfg.ExecSource()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		stopSpinner := startInlineSpinner(os.Stdout, "verifying "+src.Kind+" source", []string{"-", "\\", "|", "/"}, 100*time.Millisecond)
		exec, err := openExecutor(ctx, src)
		if err != nil {
			stopSpinner()
			return err
		}
		defer exec.Close()

		c := catalog.New(dialect)
		err = pipeline.Preflight(ctx, exec, c)
		stopSpinner()
		if err != nil {
			return err
		}

		pterm.Success.Printfln("Table %s has all %d columns used by %d reports",
			dialect.Ref, len(c.SourceColumns()), len(c.Keys()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "connection and inspection timeout")
}
