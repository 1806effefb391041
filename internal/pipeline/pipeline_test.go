// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"warehousecharts/cli/internal/catalog"
	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/sqlexec"
	"warehousecharts/cli/internal/warehousetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDPI = 40

var chartFiles = []string{
	"cost_analysis.png",
	"order_fulfillment_kpi.png",
	"picking_efficiency.png",
	"risk_stockout.png",
	"top20_products.png",
}

type recorder struct {
	mu     sync.Mutex
	stages []string
	done   []string
	failed []string
}

func (r *recorder) Stage(chart, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, chart+":"+stage)
}

func (r *recorder) Done(chart, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = append(r.done, chart)
}

func (r *recorder) Failed(chart string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, chart)
}

func sqliteOptions(t *testing.T, dir string) Options {
	t.Helper()
	db := warehousetest.Open(t, warehousetest.Items())
	return Options{
		Catalog:   catalog.New(catalog.SQLite(warehousetest.Table)),
		Querier:   sqlexec.NewDB(db),
		OutputDir: dir,
		DPI:       testDPI,
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestRunProducesFiveCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts_output")
	opts := sqliteOptions(t, dir)
	rec := &recorder{}
	opts.Reporter = rec

	sum, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, chartFiles, listDir(t, dir))
	assert.Len(t, sum.Artifacts, 5)
	assert.Empty(t, sum.Failed)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, dir, sum.Dir)
	assert.Equal(t, []string{
		"top20_products", "risk_stockout", "picking_efficiency", "order_fulfillment_kpi", "cost_analysis",
	}, rec.done)
	assert.Equal(t, "top20_products:fetching", rec.stages[0])
	assert.Equal(t, "cost_analysis:rendering", rec.stages[len(rec.stages)-1])

	for _, a := range sum.Artifacts {
		assert.Positive(t, a.Bytes, a.Chart)
		if a.Chart == "picking_efficiency" {
			assert.Equal(t, 3, a.Rows)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	opts := sqliteOptions(t, dir)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
	first := map[string][]byte{}
	for _, name := range chartFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		first[name] = data
	}

	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, chartFiles, listDir(t, dir))
	for _, name := range chartFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first[name], data), "%s changed between runs", name)
	}
}

func TestRunLogsRunID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := sqliteOptions(t, t.TempDir())
	opts.Logger = zap.New(core)

	sum, err := Run(context.Background(), opts)
	require.NoError(t, err)

	started := logs.FilterMessage("run started").All()
	require.Len(t, started, 1)
	assert.Equal(t, sum.RunID, started[0].ContextMap()["run_id"])
	assert.Equal(t, 5, logs.FilterMessage("chart written").Len())
}

type failingQuerier struct {
	sqlexec.Querier
	fail string
}

func (q failingQuerier) Query(ctx context.Context, sql string) (*sqlexec.Result, error) {
	if strings.Contains(sql, q.fail) {
		return nil, errors.New("relation does not exist")
	}
	return q.Querier.Query(ctx, sql)
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := sqliteOptions(t, dir)
	opts.Querier = failingQuerier{Querier: opts.Querier, fail: "picking_time_seconds"}

	sum, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, werrors.DataAccess, werrors.KindOf(err))
	assert.Empty(t, sum.Artifacts)

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when a fetch fails")
}

func TestRunKeepGoingIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	opts := sqliteOptions(t, dir)
	opts.Querier = failingQuerier{Querier: opts.Querier, fail: "picking_time_seconds"}
	opts.KeepGoing = true
	rec := &recorder{}
	opts.Reporter = rec

	sum, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Equal(t, werrors.DataAccess, werrors.KindOf(err))

	assert.Len(t, sum.Artifacts, 4)
	assert.Contains(t, sum.Failed, "picking_efficiency")
	assert.Equal(t, []string{"picking_efficiency"}, rec.failed)
	assert.NotContains(t, listDir(t, dir), "picking_efficiency.png")
	assert.Len(t, listDir(t, dir), 4)
}

func TestRunDirectoryFailureAlwaysAborts(t *testing.T) {
	file := filepath.Join(t.TempDir(), "charts_output")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	opts := sqliteOptions(t, file)
	opts.KeepGoing = true
	sum, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, werrors.Filesystem, werrors.KindOf(err))
	assert.Empty(t, sum.Artifacts)
}

func TestRunPreflight(t *testing.T) {
	db := warehousetest.Open(t, warehousetest.Items())
	_, err := db.Exec(`ALTER TABLE logistics_warehouse DROP COLUMN KPI_score`)
	require.NoError(t, err)

	exec := sqlexec.NewDB(db)
	c := catalog.New(catalog.SQLite(warehousetest.Table))
	dir := filepath.Join(t.TempDir(), "out")

	_, err = Run(context.Background(), Options{
		Catalog:   c,
		Querier:   exec,
		Inspector: sqlexec.NewSchemaInspector(exec),
		OutputDir: dir,
		DPI:       testDPI,
	})
	require.Error(t, err)
	assert.Equal(t, werrors.DataAccess, werrors.KindOf(err))
	assert.Contains(t, err.Error(), "KPI_score")

	assert.Error(t, Preflight(context.Background(), exec, c))
}

func TestRunRejectsBadOptions(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.Equal(t, werrors.Config, werrors.KindOf(err))

	opts := sqliteOptions(t, t.TempDir())
	opts.Format = "gif"
	_, err = Run(context.Background(), opts)
	assert.Equal(t, werrors.Config, werrors.KindOf(err))
}
