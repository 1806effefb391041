// Package warehousetest builds small SQLite warehouse snapshots for tests.
package warehousetest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Table is the source table name used by the snapshots.
const Table = "logistics_warehouse"

// Item is one row of the source table.
type Item struct {
	ItemID           string
	Category         string
	Zone             string
	StockLevel       int
	ReorderPoint     int
	ForecastedDemand int
	StockoutCount    int
	Popularity       float64
	PickingTime      float64
	LayoutEfficiency float64
	FulfillmentRate  float64
	TotalOrders      int
	KPIScore         float64
	Turnover         float64
	UnitPrice        float64
	HandlingCost     float64
	HoldingCost      float64
}

const schema = `
CREATE TABLE logistics_warehouse (
	item_id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	zone TEXT NOT NULL,
	stock_level INTEGER NOT NULL,
	reorder_point INTEGER NOT NULL,
	forecasted_demand_next_7d INTEGER NOT NULL,
	stockout_count_last_month INTEGER NOT NULL,
	item_popularity_score REAL NOT NULL,
	picking_time_seconds REAL NOT NULL,
	layout_efficiency_score REAL NOT NULL,
	order_fulfillment_rate REAL NOT NULL,
	total_orders_last_month INTEGER NOT NULL,
	KPI_score REAL NOT NULL,
	turnover_ratio REAL NOT NULL,
	unit_price REAL NOT NULL,
	handling_cost_per_unit REAL NOT NULL,
	holding_cost_per_unit_day REAL NOT NULL
)`

var (
	categories = []string{"Electronics", "Apparel", "Grocery", "Toys"}
	zones      = []string{"A", "B", "C"}
)

// Items returns 25 deterministic items spread over 4 categories and 3 zones.
//
// ITM-A has stock 100 and demand 95 ("enough"); ITM-B has stock 50 and demand
// 100 ("risk_stockout"). Both rank inside the top 20 by demand. Zone A picks
// fastest, then B, then C.
func Items() []Item {
	items := []Item{
		NewItem(0, "ITM-A", 100, 95),
		NewItem(1, "ITM-B", 50, 100),
	}
	for i := 2; i < 25; i++ {
		items = append(items, NewItem(i, fmt.Sprintf("ITM-%03d", i), 5+(i*13)%120, 12+9*i))
	}
	return items
}

// NewItem returns the i-th deterministic item with the given id, stock level
// and forecasted demand.
func NewItem(i int, id string, stock, demand int) Item {
	zi := i % len(zones)
	return Item{
		ItemID:           id,
		Category:         categories[i%len(categories)],
		Zone:             zones[zi],
		StockLevel:       stock,
		ReorderPoint:     10 + (i*7)%50,
		ForecastedDemand: demand,
		StockoutCount:    i % 6,
		Popularity:       0.1 + float64(i%9)/10,
		PickingTime:      30 + float64(zi)*15 + float64(i%5),
		LayoutEfficiency: 0.5 + float64(zi)/10,
		FulfillmentRate:  0.8 + float64(i%10)/100,
		TotalOrders:      100 + i,
		KPIScore:         60 + float64((i*17)%40),
		Turnover:         2 + float64(i%7)*0.5,
		UnitPrice:        10 + float64(i)*1.5,
		HandlingCost:     1 + float64(i%4)*0.25,
		HoldingCost:      0.1 + float64(i%6)*0.05,
	}
}

// Create writes a SQLite warehouse with items into dir and returns its path.
func Create(tb testing.TB, dir string, items []Item) string {
	tb.Helper()
	path := filepath.Join(dir, "warehouse.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	for _, it := range items {
		_, err := db.Exec(`INSERT INTO logistics_warehouse VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ItemID, it.Category, it.Zone, it.StockLevel, it.ReorderPoint, it.ForecastedDemand,
			it.StockoutCount, it.Popularity, it.PickingTime, it.LayoutEfficiency, it.FulfillmentRate,
			it.TotalOrders, it.KPIScore, it.Turnover, it.UnitPrice, it.HandlingCost, it.HoldingCost)
		if err != nil {
			tb.Fatalf("insert %s: %v", it.ItemID, err)
		}
	}
	return path
}

// Open creates a snapshot with items and returns an open handle, closed on cleanup.
func Open(tb testing.TB, items []Item) *sql.DB {
	tb.Helper()
	path := Create(tb, tb.TempDir(), items)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { db.Close() })
	return db
}
