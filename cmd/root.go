// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of warehouse-charts.
// Running the root command with no arguments renders every chart; the
// subcommands inspect the catalog, the resolved source and the warehouse
// schema.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"warehousecharts/cli/internal/config"
	"warehousecharts/cli/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// flag values shared by every command
	sourceFlag  string
	dsnFlag     string
	projectFlag string
	tableFlag   string
	verbose     bool

	// resolved in PersistentPreRunE
	cfg    config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it runs the full reporting pipeline.
var rootCmd = &cobra.Command{
	Use:   "warehouse-charts",
	Short: "Render warehouse KPI charts from the analytics warehouse",
	Long: `warehouse-charts runs a fixed set of analytical queries against the
logistics warehouse table and saves one chart image per report:

  top20_products, risk_stockout, picking_efficiency,
  order_fulfillment_kpi, cost_analysis

By default it reads BigQuery project warehouse-analysis and writes PNG files
to ./charts_output. PostgreSQL and SQLite snapshots are supported via --source
and --dsn.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = resolveConfig(cmd)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		logger.Debug("configuration resolved",
			zap.String("source", string(cfg.SourceType())),
			logging.MaskedString("dsn", cfg.DSN),
			zap.String("table", cfg.TableName()),
			zap.String("output_dir", cfg.OutputDir))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runRender,
}

// Execute runs the CLI application. Errors are printed with a hint and the
// process exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_ = logger.Sync()
		fmt.Fprint(os.Stderr, logging.FormatError(err))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&sourceFlag, "source", "", "warehouse backend: bigquery, postgres or sqlite (inferred from --dsn when unset)")
	pf.StringVar(&dsnFlag, "dsn", "", "connection string; defaults to $WAREHOUSE_DSN or $DATABASE_URL")
	pf.StringVar(&projectFlag, "project", "", "BigQuery project (default warehouse-analysis)")
	pf.StringVar(&tableFlag, "table", "", "source table (default depends on the backend)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	addRenderFlags(rootCmd)
}

// resolveConfig layers defaults, the config file, the environment and the
// flags the user actually set.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	c, err := config.Load()
	if err != nil {
		return c, err
	}
	c = c.Merge(config.FromEnv(os.Getenv))

	var flags config.Config
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("source") {
		flags.Source = sourceFlag
	}
	if changed("dsn") {
		flags.DSN = strings.TrimSpace(dsnFlag)
	}
	if changed("project") {
		flags.Project = projectFlag
	}
	if changed("table") {
		flags.Table = tableFlag
	}
	if changed("out") {
		flags.OutputDir = renderOpts.out
	}
	if changed("format") {
		flags.Format = renderOpts.format
	}
	if changed("dpi") {
		flags.DPI = renderOpts.dpi
	}
	return c.Merge(flags), nil
}
