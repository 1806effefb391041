// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"warehousecharts/cli/internal/catalog"
	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/fetch"
	"warehousecharts/cli/internal/sqlexec"
	"warehousecharts/cli/internal/warehousetest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

// testDPI keeps raster tests fast.
const testDPI = 40

func fetched(t *testing.T, key string) *sqlexec.Result {
	t.Helper()
	db := warehousetest.Open(t, warehousetest.Items())
	f := fetch.New(catalog.New(catalog.SQLite(warehousetest.Table)), sqlexec.NewDB(db), nil)
	res, err := f.Fetch(context.Background(), key)
	require.NoError(t, err)
	return res
}

func TestChartsCoverCatalog(t *testing.T) {
	c := catalog.New(catalog.SQLite(""))
	var reports []string
	for _, ch := range Charts {
		reports = append(reports, ch.Report)
	}
	assert.Equal(t, c.Keys(), reports)
	assert.Equal(t, []string{
		"top20_products", "risk_stockout", "picking_efficiency", "order_fulfillment_kpi", "cost_analysis",
	}, Names())

	ch, ok := ForReport(catalog.OrderKPI)
	require.True(t, ok)
	assert.Equal(t, "order_fulfillment_kpi", ch.Name)
	_, ok = ForReport("nope")
	assert.False(t, ok)
}

func TestTop20ProductsFigure(t *testing.T) {
	res := &sqlexec.Result{
		Columns: []string{"item_id", "category", "forecasted_demand_next_7d", "stock_level",
			"stockout_count_last_month", "item_popularity_score", "stock_status"},
		Rows: [][]any{
			{"ITM-B", "Apparel", int64(100), int64(50), int64(1), 0.2, "risk_stockout"},
			{"ITM-A", "Electronics", int64(95), int64(100), int64(0), 0.1, "enough"},
		},
	}
	got, err := Top20Products(res)
	require.NoError(t, err)

	want := &Figure{
		Name:     "top20_products",
		Title:    "Top 20 Products by Forecasted Demand (Next 7 Days)",
		XLabel:   "Item ID",
		YLabel:   "Forecasted Demand (7d)",
		Width:    12 * vg.Inch,
		Height:   10 * vg.Inch,
		Annotate: true,
		Bars: []Bar{
			{Label: "ITM-B", Value: 100, Color: Red},
			{Label: "ITM-A", Value: 95, Color: Green},
		},
		Table: &Table{
			Header: []string{"Item ID", "Forecasted Demand", "Stock Level", "Status"},
			Rows: [][]string{
				{"ITM-B", "100", "50", "risk_stockout"},
				{"ITM-A", "95", "100", "enough"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Top20Products() mismatch (-want +got):\n%s", diff)
	}
}

func TestTop20ProductsFromWarehouse(t *testing.T) {
	fig, err := Top20Products(fetched(t, catalog.Top20Demand))
	require.NoError(t, err)
	require.Len(t, fig.Bars, 20)
	require.Len(t, fig.Table.Rows, 20)

	colors := map[string]Bar{}
	for i, b := range fig.Bars {
		colors[b.Label] = b
		assert.Equal(t, b.Label, fig.Table.Rows[i][0], "table rows follow bar order")
	}
	assert.Equal(t, Green, colors["ITM-A"].Color)
	assert.Equal(t, Red, colors["ITM-B"].Color)
}

func TestRiskStockoutColors(t *testing.T) {
	fig, err := RiskStockout(fetched(t, catalog.RiskStockout))
	require.NoError(t, err)
	require.Len(t, fig.Bars, 20)
	assert.Nil(t, fig.Table)
	assert.Equal(t, 10*vg.Inch, fig.Width)
	assert.Equal(t, 6*vg.Inch, fig.Height)

	res := fetched(t, catalog.RiskStockout)
	for i, b := range fig.Bars {
		risk, _ := res.Text(i, "stockout_risk")
		want := Green
		if risk == catalog.RiskYes {
			want = Red
		}
		assert.Equal(t, want, b.Color, b.Label)
	}
}

func TestPickingEfficiencyThreeZones(t *testing.T) {
	fig, err := PickingEfficiency(fetched(t, catalog.PickingEfficiency))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, fig.Labels())
	for i, b := range fig.Bars {
		assert.Equal(t, SkyBlue, b.Color)
		if i > 0 {
			assert.Greater(t, b.Value, fig.Bars[i-1].Value)
		}
	}
	assert.Equal(t, []string{"Zone", "Avg Picking Time", "Layout Efficiency"}, fig.Table.Header)
	assert.Len(t, fig.Table.Rows, 3)
}

func TestOrderKPIAndCostFigures(t *testing.T) {
	kpi, err := OrderKPI(fetched(t, catalog.OrderKPI))
	require.NoError(t, err)
	assert.Len(t, kpi.Bars, 4)
	assert.Equal(t, 12*vg.Inch, kpi.Width)
	assert.Equal(t, 10*vg.Inch, kpi.Height)
	for _, b := range kpi.Bars {
		assert.Equal(t, LightGreen, b.Color)
	}

	cost, err := CostAnalysis(fetched(t, catalog.CostAnalysis))
	require.NoError(t, err)
	assert.Len(t, cost.Bars, 20)
	for _, b := range cost.Bars {
		assert.Equal(t, Orange, b.Color)
	}
}

func TestBuildErrors(t *testing.T) {
	cols := []string{"item_id", "stockout_count_last_month", "stockout_risk"}
	tests := []struct {
		name  string
		build func(*sqlexec.Result) (*Figure, error)
		res   *sqlexec.Result
	}{
		{name: "nil result", build: CostAnalysis, res: nil},
		{name: "empty result", build: RiskStockout, res: &sqlexec.Result{Columns: cols}},
		{name: "missing column", build: RiskStockout, res: &sqlexec.Result{
			Columns: cols[:2], Rows: [][]any{{"ITM-1", int64(1)}},
		}},
		{name: "unknown risk label", build: RiskStockout, res: &sqlexec.Result{
			Columns: cols, Rows: [][]any{{"ITM-1", int64(1), "maybe"}},
		}},
		{name: "unknown stock status", build: Top20Products, res: &sqlexec.Result{
			Columns: []string{"item_id", "forecasted_demand_next_7d", "stock_level", "stock_status"},
			Rows:    [][]any{{"ITM-1", int64(3), int64(1), "plenty"}},
		}},
		{name: "non-numeric value", build: PickingEfficiency, res: &sqlexec.Result{
			Columns: []string{"zone", "avg_picking_time", "avg_layout_efficiency"},
			Rows:    [][]any{{"A", "slow", 0.5}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, err := tt.build(tt.res)
			assert.Error(t, err)
			assert.Nil(t, fig)
		})
	}
}

func TestRendererWritesAndIsDeterministic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts_output")
	r, err := NewRenderer(dir, "png", testDPI)
	require.NoError(t, err)
	require.NoError(t, r.Sink().Ensure())

	ch, _ := ForReport(catalog.PickingEfficiency)
	res := fetched(t, catalog.PickingEfficiency)

	path, err := r.Render(ch, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "picking_efficiency.png"), path)
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(first, []byte("\x89PNG")))

	_, err = r.Render(ch, res)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "re-render must be byte-identical")
}

func TestRendererVectorFormat(t *testing.T) {
	r, err := NewRenderer(t.TempDir(), "SVG", 0)
	require.NoError(t, err)
	require.NoError(t, r.Sink().Ensure())

	ch, _ := ForReport(catalog.CostAnalysis)
	path, err := r.Render(ch, fetched(t, catalog.CostAnalysis))
	require.NoError(t, err)
	assert.Equal(t, ".svg", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRendererErrorKinds(t *testing.T) {
	_, err := NewRenderer(t.TempDir(), "bmp", 0)
	assert.Equal(t, werrors.Config, werrors.KindOf(err))

	r, err := NewRenderer(t.TempDir(), "png", testDPI)
	require.NoError(t, err)
	ch, _ := ForReport(catalog.RiskStockout)
	_, err = r.Render(ch, &sqlexec.Result{})
	assert.Equal(t, werrors.Render, werrors.KindOf(err))

	missing, err := NewRenderer(filepath.Join(t.TempDir(), "never-created"), "png", testDPI)
	require.NoError(t, err)
	_, err = missing.Render(ch, fetched(t, catalog.RiskStockout))
	assert.Equal(t, werrors.Filesystem, werrors.KindOf(err))
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"png", "PNG", "jpeg", "tiff", "svg", "pdf", "eps"} {
		assert.True(t, ValidFormat(f), f)
	}
	for _, f := range []string{"", "bmp", "gif"} {
		assert.False(t, ValidFormat(f), f)
	}
}
