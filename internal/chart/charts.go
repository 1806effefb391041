// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chart

import (
	"fmt"
	"image/color"

	"warehousecharts/cli/internal/catalog"
	"warehousecharts/cli/internal/sqlexec"

	"gonum.org/v1/plot/vg"
)

// Chart binds a catalog report to the routine that draws it.
type Chart struct {
	Report string
	Name   string
	Build  func(*sqlexec.Result) (*Figure, error)
}

// Charts lists every chart in render order.
var Charts = []Chart{
	{Report: catalog.Top20Demand, Name: "top20_products", Build: Top20Products},
	{Report: catalog.RiskStockout, Name: "risk_stockout", Build: RiskStockout},
	{Report: catalog.PickingEfficiency, Name: "picking_efficiency", Build: PickingEfficiency},
	{Report: catalog.OrderKPI, Name: "order_fulfillment_kpi", Build: OrderKPI},
	{Report: catalog.CostAnalysis, Name: "cost_analysis", Build: CostAnalysis},
}

// ForReport returns the chart drawn from report key.
func ForReport(key string) (Chart, bool) {
	for _, c := range Charts {
		if c.Report == key {
			return c, true
		}
	}
	return Chart{}, false
}

// Names returns the output file names in render order.
func Names() []string {
	out := make([]string, len(Charts))
	for i, c := range Charts {
		out[i] = c.Name
	}
	return out
}

var statusColors = map[string]color.RGBA{
	catalog.StatusRiskStockout: Red,
	catalog.StatusEnough:       Green,
}

var riskColors = map[string]color.RGBA{
	catalog.RiskYes: Red,
	catalog.RiskNo:  Green,
}

// Top20Products draws forecasted demand per item, colored by stock status,
// with the same rows repeated in a table underneath.
func Top20Products(res *sqlexec.Result) (*Figure, error) {
	r, err := newReader(res, "item_id", "forecasted_demand_next_7d", "stock_level", "stock_status")
	if err != nil {
		return nil, err
	}
	f := &Figure{
		Name:     "top20_products",
		Title:    "Top 20 Products by Forecasted Demand (Next 7 Days)",
		XLabel:   "Item ID",
		YLabel:   "Forecasted Demand (7d)",
		Width:    12 * vg.Inch,
		Height:   10 * vg.Inch,
		Annotate: true,
		Table:    &Table{Header: []string{"Item ID", "Forecasted Demand", "Stock Level", "Status"}},
	}
	for i := 0; i < res.Len(); i++ {
		status := r.text(i, "stock_status")
		clr, ok := statusColors[status]
		if !ok && r.err == nil {
			r.err = fmt.Errorf("row %d: unknown stock status %q", i, status)
		}
		f.Bars = append(f.Bars, Bar{
			Label: r.text(i, "item_id"),
			Value: r.float(i, "forecasted_demand_next_7d"),
			Color: clr,
		})
		f.Table.Rows = append(f.Table.Rows, []string{
			r.text(i, "item_id"),
			r.text(i, "forecasted_demand_next_7d"),
			r.text(i, "stock_level"),
			status,
		})
	}
	return r.finish(f)
}

// RiskStockout draws last month's stockout count per item, red for items at
// risk and green otherwise.
func RiskStockout(res *sqlexec.Result) (*Figure, error) {
	r, err := newReader(res, "item_id", "stockout_count_last_month", "stockout_risk")
	if err != nil {
		return nil, err
	}
	f := &Figure{
		Name:   "risk_stockout",
		Title:  "Stockout Risk (Last Month)",
		XLabel: "Item ID",
		YLabel: "Stockout Count",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
	for i := 0; i < res.Len(); i++ {
		risk := r.text(i, "stockout_risk")
		clr, ok := riskColors[risk]
		if !ok && r.err == nil {
			r.err = fmt.Errorf("row %d: unknown stockout risk %q", i, risk)
		}
		f.Bars = append(f.Bars, Bar{
			Label: r.text(i, "item_id"),
			Value: r.float(i, "stockout_count_last_month"),
			Color: clr,
		})
	}
	return r.finish(f)
}

// PickingEfficiency draws the average picking time per zone.
func PickingEfficiency(res *sqlexec.Result) (*Figure, error) {
	r, err := newReader(res, "zone", "avg_picking_time", "avg_layout_efficiency")
	if err != nil {
		return nil, err
	}
	f := &Figure{
		Name:   "picking_efficiency",
		Title:  "Average Picking Time by Zone",
		XLabel: "Zone",
		YLabel: "Avg Picking Time (seconds)",
		Width:  12 * vg.Inch,
		Height: 8 * vg.Inch,
		Table:  &Table{Header: []string{"Zone", "Avg Picking Time", "Layout Efficiency"}},
	}
	for i := 0; i < res.Len(); i++ {
		f.Bars = append(f.Bars, Bar{
			Label: r.text(i, "zone"),
			Value: r.float(i, "avg_picking_time"),
			Color: SkyBlue,
		})
		f.Table.Rows = append(f.Table.Rows, []string{
			r.text(i, "zone"),
			r.text(i, "avg_picking_time"),
			r.text(i, "avg_layout_efficiency"),
		})
	}
	return r.finish(f)
}

// OrderKPI draws the average KPI score per category with the fulfillment
// figures in a table.
func OrderKPI(res *sqlexec.Result) (*Figure, error) {
	r, err := newReader(res, "category", "avg_fulfillment_rate", "total_orders", "avg_KPI_score", "avg_turnover")
	if err != nil {
		return nil, err
	}
	f := &Figure{
		Name:   "order_fulfillment_kpi",
		Title:  "Order Fulfillment & KPI Overview by Category",
		XLabel: "Category",
		YLabel: "Average KPI Score",
		Width:  12 * vg.Inch,
		Height: 10 * vg.Inch,
		Table:  &Table{Header: []string{"Category", "Fulfillment Rate", "Total Orders", "Turnover"}},
	}
	for i := 0; i < res.Len(); i++ {
		f.Bars = append(f.Bars, Bar{
			Label: r.text(i, "category"),
			Value: r.float(i, "avg_KPI_score"),
			Color: LightGreen,
		})
		f.Table.Rows = append(f.Table.Rows, []string{
			r.text(i, "category"),
			r.text(i, "avg_fulfillment_rate"),
			r.text(i, "total_orders"),
			r.text(i, "avg_turnover"),
		})
	}
	return r.finish(f)
}

// CostAnalysis draws the estimated profit margin per item.
func CostAnalysis(res *sqlexec.Result) (*Figure, error) {
	r, err := newReader(res, "item_id", "profit_margin_estimate")
	if err != nil {
		return nil, err
	}
	f := &Figure{
		Name:   "cost_analysis",
		Title:  "Top 20 Items by Profit Margin Estimate",
		XLabel: "Item ID",
		YLabel: "Profit Margin Estimate",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	}
	for i := 0; i < res.Len(); i++ {
		f.Bars = append(f.Bars, Bar{
			Label: r.text(i, "item_id"),
			Value: r.float(i, "profit_margin_estimate"),
			Color: Orange,
		})
	}
	return r.finish(f)
}

// reader reads cells from a result and keeps the first failure, so builders
// can fill a figure in one pass and check once.
type reader struct {
	res *sqlexec.Result
	err error
}

func newReader(res *sqlexec.Result, cols ...string) (*reader, error) {
	if res.Len() == 0 {
		return nil, fmt.Errorf("result is empty")
	}
	for _, c := range cols {
		if res.Index(c) < 0 {
			return nil, fmt.Errorf("result has no column %q", c)
		}
	}
	return &reader{res: res}, nil
}

func (r *reader) finish(f *Figure) (*Figure, error) {
	if r.err != nil {
		return nil, r.err
	}
	return f, nil
}

func (r *reader) float(row int, col string) float64 {
	v, err := r.res.Float(row, col)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}

func (r *reader) text(row int, col string) string {
	v, err := r.res.Text(row, col)
	if err != nil && r.err == nil {
		r.err = err
	}
	return v
}
