// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"warehousecharts/cli/internal/catalog"
	"warehousecharts/cli/internal/chart"
	"warehousecharts/cli/internal/pipeline"
	"warehousecharts/cli/internal/progress"
	"warehousecharts/cli/internal/sqlexec"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderOpts struct {
	out       string
	format    string
	dpi       int
	keepGoing bool
	preflight bool
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Fetch every report and write its chart",
	Long: `The render command runs every catalog report against the warehouse, creates
the output directory and writes the five chart images, replacing any previous
ones. This is also what running warehouse-charts without a subcommand does.

By default the first failure aborts the run. With --keep-going a failed report
only skips its own chart; the command still exits non-zero.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addRenderFlags(renderCmd)
}

// addOutputFlags registers the flags that choose where and how charts are written.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&renderOpts.out, "out", "o", "", "output directory (default charts_output)")
	f.StringVar(&renderOpts.format, "format", "", "image format: png, jpg, tiff, svg, pdf or eps (default png)")
	f.IntVar(&renderOpts.dpi, "dpi", 0, "raster resolution (default 300)")
}

func addRenderFlags(cmd *cobra.Command) {
	addOutputFlags(cmd)
	f := cmd.Flags()
	f.BoolVar(&renderOpts.keepGoing, "keep-going", false, "skip failed charts instead of aborting")
	f.BoolVar(&renderOpts.preflight, "preflight", false, "check the source table columns before running")
}

func runRender(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
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

	ctx := cmd.Context()
	exec, err := openExecutor(ctx, src)
	if err != nil {
		return err
	}
	defer exec.Close()

	opts := pipeline.Options{
		Catalog:   catalog.New(dialect),
		Querier:   exec,
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
		DPI:       cfg.DPI,
		KeepGoing: renderOpts.keepGoing,
		Logger:    logger,
	}
	if renderOpts.preflight {
		opts.Inspector = sqlexec.NewSchemaInspector(exec)
	}

	display := progress.Auto(chart.Names()...)
	opts.Reporter = display
	display.Start()
	sum, runErr := pipeline.Run(ctx, opts)
	display.Stop()

	if sum != nil && len(sum.Artifacts) > 0 {
		printSummary(sum)
	}
	if runErr != nil {
		return runErr
	}
	pterm.Success.Printfln("Charts saved to %s%c", sum.Dir, filepath.Separator)
	logger.Debug("render finished", zap.String("run_id", sum.RunID), zap.Duration("elapsed", sum.Elapsed))
	return nil
}

func printSummary(sum *pipeline.Summary) {
	data := pterm.TableData{{"Chart", "Rows", "Size", "File"}}
	for _, a := range sum.Artifacts {
		data = append(data, []string{a.Chart, strconv.Itoa(a.Rows), fmt.Sprintf("%.1f KB", float64(a.Bytes)/1024), a.Path})
	}
	for _, name := range chart.Names() {
		if _, failed := sum.Failed[name]; failed {
			data = append(data, []string{name, "-", "-", pterm.Red("failed")})
		}
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
