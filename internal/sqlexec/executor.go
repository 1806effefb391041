// Package sqlexec runs read-only SQL against the supported warehouse backends and
// normalizes the answer into a Result of named columns and ordered rows.
//
// Key features include:
//   - A narrow Querier interface so report fetching can run against a fake in tests
//   - PostgreSQL execution over a pgx connection pool
//   - database/sql execution (SQLite warehouse snapshots)
//   - BigQuery execution through the Google Cloud client
//   - Value normalization of driver numerics, byte slices and narrow integer types
//     into int64, float64 or string; bool, nil and unrecognized values pass through
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier executes a parameterless SQL statement and returns its rows.
type Querier interface {
	Query(ctx context.Context, sql string) (*Result, error)
}

// Executor is a Querier bound to an open backend connection.
type Executor interface {
	Querier
	// Columns lists the columns of a source table, in table order.
	Columns(ctx context.Context, table string) ([]string, error)
	Close() error
}

// Result represents a normalized SQL result.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Index returns the position of column col, or -1.
func (r *Result) Index(col string) int {
	for i, c := range r.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Value returns the raw value at (row, col).
func (r *Result) Value(row int, col string) (any, error) {
	idx := r.Index(col)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not in result", col)
	}
	if row < 0 || row >= len(r.Rows) {
		return nil, fmt.Errorf("row %d out of range (%d rows)", row, len(r.Rows))
	}
	if idx >= len(r.Rows[row]) {
		return nil, fmt.Errorf("row %d has no value for column %q", row, col)
	}
	return r.Rows[row][idx], nil
}

// Float returns the value at (row, col) as a float64.
func (r *Result) Float(row int, col string) (float64, error) {
	v, err := r.Value(row, col)
	if err != nil {
		return 0, err
	}
	f, ok := Numeric(v)
	if !ok {
		return 0, fmt.Errorf("column %q row %d: %v (%T) is not numeric", col, row, v, v)
	}
	return f, nil
}

// Text returns the value at (row, col) formatted as a string.
func (r *Result) Text(row int, col string) (string, error) {
	v, err := r.Value(row, col)
	if err != nil {
		return "", err
	}
	return Text(v), nil
}

// PostgresExecutor executes SQL statements using a pgx connection pool.
type PostgresExecutor struct {
	// Pool is the PostgreSQL connection pool
	Pool *pgxpool.Pool
}

// NewPostgres creates an Executor from an existing pgx pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresExecutor {
	return &PostgresExecutor{Pool: pool}
}

// Query runs a read-only statement and collects every row.
func (e *PostgresExecutor) Query(ctx context.Context, sql string) (*Result, error) {
	conn, err := e.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	res := &Result{Columns: make([]string, len(fds)), Rows: [][]any{}}
	for i, fd := range fds {
		res.Columns[i] = fd.Name
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, normalizeRow(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close releases the pool.
func (e *PostgresExecutor) Close() error {
	e.Pool.Close()
	return nil
}

// DBExecutor executes SQL over a database/sql handle. It is used for SQLite
// warehouse snapshots.
type DBExecutor struct {
	DB *sql.DB
}

// NewDB wraps an open *sql.DB.
func NewDB(db *sql.DB) *DBExecutor {
	return &DBExecutor{DB: db}
}

// Query runs a read-only statement and collects every row.
func (e *DBExecutor) Query(ctx context.Context, query string) (*Result, error) {
	rows, err := e.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	res := &Result{Columns: cols, Rows: [][]any{}}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		res.Rows = append(res.Rows, normalizeRow(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the database handle.
func (e *DBExecutor) Close() error { return e.DB.Close() }
