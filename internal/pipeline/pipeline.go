// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline runs one reporting pass: fetch every report, prepare the
// output directory, then draw every chart in a fixed order.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"warehousecharts/cli/internal/catalog"
	"warehousecharts/cli/internal/chart"
	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/fetch"
	"warehousecharts/cli/internal/sqlexec"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Progress stages reported for each chart.
const (
	StageFetching  = "fetching"
	StageRendering = "rendering"
)

// Reporter receives per-chart progress. Implementations must be safe to call
// from the pipeline goroutine while they render elsewhere.
type Reporter interface {
	Stage(chart, stage string)
	Done(chart, path string)
	Failed(chart string, err error)
}

type nopReporter struct{}

func (nopReporter) Stage(string, string) {}
func (nopReporter) Done(string, string)  {}
func (nopReporter) Failed(string, error) {}

// Options configures a run. Catalog and Querier are required.
type Options struct {
	Catalog *catalog.Catalog
	Querier sqlexec.Querier
	// Inspector, when set, checks the source table for every referenced
	// column before any report runs.
	Inspector *sqlexec.SchemaInspector
	OutputDir string
	Format    string
	DPI       int
	// KeepGoing skips a failed chart instead of aborting the run.
	KeepGoing bool
	Logger    *zap.Logger
	Reporter  Reporter
}

// Artifact is one chart file written by a run.
type Artifact struct {
	Report string
	Chart  string
	Path   string
	Rows   int
	Bytes  int64
}

// Summary describes a finished run, complete or partial.
type Summary struct {
	RunID     string
	Dir       string
	Artifacts []Artifact
	// Failed maps chart names to their failure, only populated with KeepGoing.
	Failed  map[string]error
	Elapsed time.Duration
}

// Run executes the pipeline. Without KeepGoing the first failure aborts the
// run. With KeepGoing failed charts are skipped and their errors combined;
// the returned error is still non-nil. A failure to create the output
// directory always aborts.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Catalog == nil || opts.Querier == nil {
		return nil, werrors.New(werrors.Config, "pipeline needs a catalog and a querier")
	}
	renderer, err := chart.NewRenderer(opts.OutputDir, opts.Format, opts.DPI)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", runID))
	rep := opts.Reporter
	if rep == nil {
		rep = nopReporter{}
	}

	sum := &Summary{RunID: runID, Dir: renderer.Sink().Dir, Failed: map[string]error{}}
	defer func() { sum.Elapsed = time.Since(start) }()

	log.Info("run started",
		zap.String("dialect", opts.Catalog.Dialect().Name),
		zap.String("table", opts.Catalog.Dialect().Ref),
		zap.String("output_dir", sum.Dir),
		zap.Bool("keep_going", opts.KeepGoing))

	if opts.Inspector != nil {
		if err := preflight(ctx, opts.Inspector, opts.Catalog); err != nil {
			log.Error("preflight failed", zap.Error(err))
			return sum, err
		}
		log.Debug("preflight passed")
	}

	fetcher := fetch.New(opts.Catalog, opts.Querier, log)
	results := make(map[string]*sqlexec.Result, len(chart.Charts))
	var errs error
	for _, ch := range chart.Charts {
		rep.Stage(ch.Name, StageFetching)
		res, err := fetcher.Fetch(ctx, ch.Report)
		if err != nil {
			rep.Failed(ch.Name, err)
			if !opts.KeepGoing {
				log.Error("fetch failed", zap.String("report", ch.Report), zap.Error(err))
				return sum, err
			}
			log.Warn("fetch failed, skipping chart", zap.String("report", ch.Report), zap.Error(err))
			sum.Failed[ch.Name] = err
			errs = multierr.Append(errs, err)
			continue
		}
		results[ch.Report] = res
	}

	if err := renderer.Sink().Ensure(); err != nil {
		log.Error("output directory unavailable", zap.Error(err))
		return sum, err
	}

	for _, ch := range chart.Charts {
		res, ok := results[ch.Report]
		if !ok {
			continue
		}
		rep.Stage(ch.Name, StageRendering)
		path, err := renderer.Render(ch, res)
		if err != nil {
			rep.Failed(ch.Name, err)
			if !opts.KeepGoing {
				log.Error("render failed", zap.String("chart", ch.Name), zap.Error(err))
				return sum, err
			}
			log.Warn("render failed, skipping chart", zap.String("chart", ch.Name), zap.Error(err))
			sum.Failed[ch.Name] = err
			errs = multierr.Append(errs, err)
			continue
		}
		rep.Done(ch.Name, path)
		size, _ := renderer.Sink().FileSize(ch.Name)
		log.Debug("chart written", zap.String("chart", ch.Name), zap.String("path", path),
			zap.Int("rows", res.Len()), zap.Int64("bytes", size))
		sum.Artifacts = append(sum.Artifacts, Artifact{Report: ch.Report, Chart: ch.Name, Path: path, Rows: res.Len(), Bytes: size})
	}

	log.Info("run finished",
		zap.Int("charts", len(sum.Artifacts)),
		zap.Int("failed", len(sum.Failed)),
		zap.Duration("elapsed", time.Since(start)))
	return sum, errs
}

// preflight reports every column the catalog reads that the source table lacks.
func preflight(ctx context.Context, si *sqlexec.SchemaInspector, c *catalog.Catalog) error {
	table := c.Dialect().Ref
	missing, err := si.MissingColumns(ctx, table, c.SourceColumns())
	if err != nil {
		return werrors.Wrap(werrors.DataAccess, fmt.Sprintf("inspect table %s", table), err)
	}
	if len(missing) > 0 {
		return werrors.Newf(werrors.DataAccess, "table %s is missing columns: %s", table, strings.Join(missing, ", "))
	}
	return nil
}

// Preflight is the standalone form of the pre-run schema check.
func Preflight(ctx context.Context, lister sqlexec.ColumnLister, c *catalog.Catalog) error {
	return preflight(ctx, sqlexec.NewSchemaInspector(lister), c)
}
