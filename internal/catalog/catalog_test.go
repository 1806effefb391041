// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysInRunOrder(t *testing.T) {
	c := New(BigQuery(""))
	assert.Equal(t, []string{Top20Demand, RiskStockout, PickingEfficiency, OrderKPI, CostAnalysis}, c.Keys())
	assert.Len(t, c.Queries(), 5)
}

func TestSchemas(t *testing.T) {
	c := New(SQLite(""))

	tests := []struct {
		key     string
		columns []string
		limit   int
	}{
		{
			key: Top20Demand,
			columns: []string{"item_id", "category", "forecasted_demand_next_7d", "stock_level",
				"stockout_count_last_month", "item_popularity_score", "stock_status"},
			limit: 20,
		},
		{
			key: RiskStockout,
			columns: []string{"item_id", "category", "stock_level", "reorder_point",
				"stockout_count_last_month", "stock_health_ratio", "stockout_risk"},
			limit: 20,
		},
		{key: PickingEfficiency, columns: []string{"zone", "avg_picking_time", "avg_layout_efficiency"}},
		{key: OrderKPI, columns: []string{"category", "avg_fulfillment_rate", "total_orders", "avg_KPI_score", "avg_turnover"}},
		{
			key: CostAnalysis,
			columns: []string{"item_id", "category", "unit_price", "handling_cost_per_unit",
				"holding_cost_per_unit_day", "profit_margin_estimate"},
			limit: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			r, ok := c.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.columns, r.Columns)
			assert.Equal(t, tt.limit, r.Limit)
		})
	}
}

func TestOrderingAndCaps(t *testing.T) {
	for _, d := range []Dialect{BigQuery(""), Postgres(""), SQLite("")} {
		t.Run(d.Name, func(t *testing.T) {
			c := New(d)
			tests := map[string]string{
				Top20Demand:       "ORDER BY forecasted_demand_next_7d DESC\nLIMIT 20",
				RiskStockout:      "ORDER BY " + d.Quote("stock_health_ratio") + " ASC\nLIMIT 20",
				PickingEfficiency: "GROUP BY zone\nORDER BY " + d.Quote("avg_picking_time") + " ASC",
				OrderKPI:          "GROUP BY category\nORDER BY " + d.Quote("avg_KPI_score") + " DESC",
				CostAnalysis:      "ORDER BY " + d.Quote("profit_margin_estimate") + " DESC\nLIMIT 20",
			}
			for key, tail := range tests {
				r, _ := c.Get(key)
				assert.True(t, strings.HasSuffix(r.Query, tail), "%s query should end with %q:\n%s", key, tail, r.Query)
				assert.Contains(t, r.Query, "FROM "+d.Table)
			}
		})
	}
}

func TestDialectArithmetic(t *testing.T) {
	tests := []struct {
		dialect Dialect
		ratio   string
		table   string
	}{
		{BigQuery(""), "ROUND(stock_level / reorder_point, 2)", "`warehouse-analysis.logistics_warehouse.logistics_warehouse`"},
		{Postgres(""), "ROUND(CAST(CAST(stock_level AS NUMERIC) / reorder_point AS NUMERIC), 2)", "logistics_warehouse.logistics_warehouse"},
		{SQLite(""), "ROUND(CAST(stock_level AS REAL) / reorder_point, 2)", "logistics_warehouse"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			assert.Equal(t, tt.ratio, tt.dialect.Ratio("stock_level", "reorder_point", 2))
			assert.Equal(t, tt.table, tt.dialect.Table)
		})
	}
}

func TestForSource(t *testing.T) {
	d, err := ForSource("PostgreSQL", "inv.items")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)
	assert.Equal(t, "inv.items", d.Table)

	d, err = ForSource("", "")
	require.NoError(t, err)
	assert.Equal(t, "bigquery", d.Name)

	_, err = ForSource("oracle", "")
	assert.Error(t, err)
}

func TestMixedCaseSourceColumnIsQuoted(t *testing.T) {
	for _, d := range []Dialect{BigQuery(""), Postgres(""), SQLite("")} {
		r, ok := New(d).Get(OrderKPI)
		require.True(t, ok)
		assert.Contains(t, r.Query, "AVG("+d.Quote("KPI_score")+")", d.Name)
	}
}

func TestSourceColumns(t *testing.T) {
	cols := New(SQLite("")).SourceColumns()
	assert.Contains(t, cols, "KPI_score")
	assert.Contains(t, cols, "reorder_point")
	assert.NotContains(t, cols, "stock_status")
	assert.IsIncreasing(t, cols)
}

func TestDescribe(t *testing.T) {
	out := New(SQLite("")).Describe()
	assert.Equal(t, 5, strings.Count(out, "-- "))
	assert.Contains(t, out, "-- order_kpi (category, avg_fulfillment_rate, total_orders, avg_KPI_score, avg_turnover)")
}
