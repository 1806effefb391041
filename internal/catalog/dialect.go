// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"fmt"
	"strings"
)

// Default source tables per warehouse backend.
const (
	BigQueryTable = "warehouse-analysis.logistics_warehouse.logistics_warehouse"
	PostgresTable = "logistics_warehouse.logistics_warehouse"
	SQLiteTable   = "logistics_warehouse"
)

// Dialect holds the SQL rendering rules of one warehouse backend.
// Report definitions are written once and rendered through a Dialect, so the
// derived columns keep the same formulas on every backend.
type Dialect struct {
	// Name identifies the backend ("bigquery", "postgres", "sqlite").
	Name string
	// Table is the source table as it should appear after FROM.
	Table string
	// Ref is the unquoted table reference, used for schema lookups.
	Ref string

	quote  func(ident string) string
	divide func(num, den string) string
	round  func(expr string, places int) string
}

// BigQuery renders GoogleSQL. Division is always floating point there.
func BigQuery(table string) Dialect {
	if table == "" {
		table = BigQueryTable
	}
	return Dialect{
		Name:   "bigquery",
		Table:  "`" + table + "`",
		Ref:    table,
		quote:  func(ident string) string { return "`" + ident + "`" },
		divide: func(num, den string) string { return fmt.Sprintf("%s / %s", num, den) },
		round:  func(expr string, places int) string { return fmt.Sprintf("ROUND(%s, %d)", expr, places) },
	}
}

// Postgres renders PostgreSQL. ROUND(x, n) only exists for numeric, and integer
// division truncates, so both go through NUMERIC.
func Postgres(table string) Dialect {
	if table == "" {
		table = PostgresTable
	}
	return Dialect{
		Name:  "postgres",
		Table: table,
		Ref:   table,
		quote: doubleQuote,
		divide: func(num, den string) string {
			return fmt.Sprintf("CAST(%s AS NUMERIC) / %s", num, den)
		},
		round: func(expr string, places int) string {
			return fmt.Sprintf("ROUND(CAST(%s AS NUMERIC), %d)", expr, places)
		},
	}
}

// SQLite renders SQLite. Integer division truncates unless one side is REAL.
func SQLite(table string) Dialect {
	if table == "" {
		table = SQLiteTable
	}
	return Dialect{
		Name:  "sqlite",
		Table: table,
		Ref:   table,
		quote: doubleQuote,
		divide: func(num, den string) string {
			return fmt.Sprintf("CAST(%s AS REAL) / %s", num, den)
		},
		round: func(expr string, places int) string { return fmt.Sprintf("ROUND(%s, %d)", expr, places) },
	}
}

// ForSource picks the dialect matching a source name.
func ForSource(source, table string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "bigquery", "bq", "":
		return BigQuery(table), nil
	case "postgres", "postgresql", "pg":
		return Postgres(table), nil
	case "sqlite", "sqlite3":
		return SQLite(table), nil
	default:
		return Dialect{}, fmt.Errorf("unsupported source %q (use bigquery, postgres or sqlite)", source)
	}
}

// Quote quotes an output column alias.
func (d Dialect) Quote(ident string) string { return d.quote(ident) }

// Ratio renders round(num/den, places) with floating point division.
func (d Dialect) Ratio(num, den string, places int) string {
	return d.round(d.divide(num, den), places)
}

// Round renders round(expr, places).
func (d Dialect) Round(expr string, places int) string { return d.round(expr, places) }

func doubleQuote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
