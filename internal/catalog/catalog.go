// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog holds the fixed set of warehouse reports: their keys, the SQL
// that produces them and the exact output schema every downstream chart relies on.
//
// The catalog is the single source of truth for column names, derivation
// formulas, ordering and row caps. Queries are parameterless; the only thing
// that varies is the Dialect they are rendered for.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Report keys, in run order.
const (
	Top20Demand       = "top20_demand"
	RiskStockout      = "risk_stockout_by_reorder_point"
	PickingEfficiency = "picking_efficiency"
	OrderKPI          = "order_kpi"
	CostAnalysis      = "cost_analysis"
)

// Stock and risk labels produced by the derived columns.
const (
	StatusRiskStockout = "risk_stockout"
	StatusEnough       = "enough"
	RiskYes            = "risk"
	RiskNo             = "no_risk"
)

// RankedLimit caps the ranked (non-grouped) reports.
const RankedLimit = 20

// Report is one parameterless query plus the schema it must return.
type Report struct {
	Key     string
	Query   string
	Columns []string
	// Limit is the maximum row count, 0 when the report is grouped and unbounded.
	Limit int
	// Sources lists the source-table columns the query reads.
	Sources []string
}

// Catalog maps report keys to rendered reports.
type Catalog struct {
	dialect Dialect
	reports map[string]Report
	order   []string
}

// New renders every report definition for the given dialect.
func New(d Dialect) *Catalog {
	c := &Catalog{dialect: d, reports: make(map[string]Report)}
	for _, r := range definitions(d) {
		c.reports[r.Key] = r
		c.order = append(c.order, r.Key)
	}
	return c
}

// Dialect returns the dialect the catalog was rendered for.
func (c *Catalog) Dialect() Dialect { return c.dialect }

// Keys returns report keys in run order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the report for key.
func (c *Catalog) Get(key string) (Report, bool) {
	r, ok := c.reports[key]
	return r, ok
}

// Queries returns the key -> SQL mapping.
func (c *Catalog) Queries() map[string]string {
	out := make(map[string]string, len(c.reports))
	for k, r := range c.reports {
		out[k] = r.Query
	}
	return out
}

// SourceColumns returns every source-table column referenced by any report, sorted.
func (c *Catalog) SourceColumns() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.reports {
		for _, col := range r.Sources {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

func definitions(d Dialect) []Report {
	q := d.Quote
	ratio := d.Ratio("stock_level", "reorder_point", 2)
	margin := d.Round("unit_price - handling_cost_per_unit - holding_cost_per_unit_day", 2)

	return []Report{
		{
			Key: Top20Demand,
			Columns: []string{
				"item_id", "category", "forecasted_demand_next_7d", "stock_level",
				"stockout_count_last_month", "item_popularity_score", "stock_status",
			},
			Limit: RankedLimit,
			Sources: []string{
				"item_id", "category", "forecasted_demand_next_7d", "stock_level",
				"stockout_count_last_month", "item_popularity_score",
			},
			// 10% buffer stock on top of the current level.
			Query: fmt.Sprintf(`
SELECT item_id, category, forecasted_demand_next_7d, stock_level,
       stockout_count_last_month, item_popularity_score,
       CASE WHEN stock_level * 1.1 < forecasted_demand_next_7d THEN '%s'
            ELSE '%s'
       END AS %s
FROM %s
ORDER BY forecasted_demand_next_7d DESC
LIMIT %d`, StatusRiskStockout, StatusEnough, q("stock_status"), d.Table, RankedLimit),
		},
		{
			Key: RiskStockout,
			Columns: []string{
				"item_id", "category", "stock_level", "reorder_point",
				"stockout_count_last_month", "stock_health_ratio", "stockout_risk",
			},
			Limit: RankedLimit,
			Sources: []string{
				"item_id", "category", "stock_level", "reorder_point", "stockout_count_last_month",
			},
			Query: fmt.Sprintf(`
SELECT item_id, category, stock_level, reorder_point,
       stockout_count_last_month,
       %s AS %s,
       CASE WHEN %s <= 1 THEN '%s' ELSE '%s' END AS %s
FROM %s
ORDER BY %s ASC
LIMIT %d`, ratio, q("stock_health_ratio"), ratio, RiskYes, RiskNo, q("stockout_risk"),
				d.Table, q("stock_health_ratio"), RankedLimit),
		},
		{
			Key:     PickingEfficiency,
			Columns: []string{"zone", "avg_picking_time", "avg_layout_efficiency"},
			Sources: []string{"zone", "picking_time_seconds", "layout_efficiency_score"},
			Query: fmt.Sprintf(`
SELECT zone,
       AVG(picking_time_seconds) AS %s,
       AVG(layout_efficiency_score) AS %s
FROM %s
GROUP BY zone
ORDER BY %s ASC`, q("avg_picking_time"), q("avg_layout_efficiency"), d.Table, q("avg_picking_time")),
		},
		{
			Key:     OrderKPI,
			Columns: []string{"category", "avg_fulfillment_rate", "total_orders", "avg_KPI_score", "avg_turnover"},
			Sources: []string{
				"category", "order_fulfillment_rate", "total_orders_last_month", "KPI_score", "turnover_ratio",
			},
			Query: fmt.Sprintf(`
SELECT category,
       AVG(order_fulfillment_rate) AS %s,
       SUM(total_orders_last_month) AS %s,
       AVG(%s) AS %s,
       AVG(turnover_ratio) AS %s
FROM %s
GROUP BY category
ORDER BY %s DESC`, q("avg_fulfillment_rate"), q("total_orders"), q("KPI_score"), q("avg_KPI_score"),
				q("avg_turnover"), d.Table, q("avg_KPI_score")),
		},
		{
			Key: CostAnalysis,
			Columns: []string{
				"item_id", "category", "unit_price", "handling_cost_per_unit",
				"holding_cost_per_unit_day", "profit_margin_estimate",
			},
			Limit: RankedLimit,
			Sources: []string{
				"item_id", "category", "unit_price", "handling_cost_per_unit", "holding_cost_per_unit_day",
			},
			Query: fmt.Sprintf(`
SELECT item_id, category, unit_price, handling_cost_per_unit,
       holding_cost_per_unit_day,
       %s AS %s
FROM %s
ORDER BY %s DESC
LIMIT %d`, margin, q("profit_margin_estimate"), d.Table, q("profit_margin_estimate"), RankedLimit),
		},
	}
}

// Describe renders a human readable listing of the catalog, one block per report.
func (c *Catalog) Describe() string {
	var b strings.Builder
	for i, key := range c.order {
		r := c.reports[key]
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "-- %s (%s)\n", r.Key, strings.Join(r.Columns, ", "))
		b.WriteString(strings.TrimSpace(r.Query))
		b.WriteString(";\n")
	}
	return b.String()
}
