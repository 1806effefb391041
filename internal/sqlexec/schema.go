// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"strings"
	"sync"
)

// ColumnLister lists the columns of a source table.
type ColumnLister interface {
	Columns(ctx context.Context, table string) ([]string, error)
}

// caseSensitiveLister is implemented by listers whose column names must match
// exactly, because queries quote every mixed-case identifier.
type caseSensitiveLister interface {
	CaseSensitiveColumns() bool
}

// SchemaInspector answers "does the source table have these columns" and caches
// table layouts to avoid repeated metadata lookups within a run.
type SchemaInspector struct {
	// lister performs the actual metadata query
	lister ColumnLister
	// cache stores column sets keyed by table name
	cache map[string]map[string]struct{}
	// mu protects concurrent access to the cache
	mu sync.RWMutex
	// exact disables case folding
	exact bool
}

// NewSchemaInspector creates a new SchemaInspector over the given lister.
func NewSchemaInspector(lister ColumnLister) *SchemaInspector {
	si := &SchemaInspector{
		lister: lister,
		cache:  make(map[string]map[string]struct{}),
	}
	if cs, ok := lister.(caseSensitiveLister); ok {
		si.exact = cs.CaseSensitiveColumns()
	}
	return si
}

func (si *SchemaInspector) key(col string) string {
	if si.exact {
		return col
	}
	return strings.ToLower(col)
}

// MissingColumns returns the columns of want that table does not have, in the
// order given. Comparison ignores case unless the lister reports
// case-sensitive columns (PostgreSQL).
func (si *SchemaInspector) MissingColumns(ctx context.Context, table string, want []string) ([]string, error) {
	have, err := si.columnSet(ctx, table)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, col := range want {
		if _, ok := have[si.key(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

func (si *SchemaInspector) columnSet(ctx context.Context, table string) (map[string]struct{}, error) {
	si.mu.RLock()
	if set, ok := si.cache[table]; ok {
		si.mu.RUnlock()
		return set, nil
	}
	si.mu.RUnlock()

	cols, err := si.lister.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[si.key(c)] = struct{}{}
	}

	si.mu.Lock()
	si.cache[table] = set
	si.mu.Unlock()
	return set, nil
}

// parseTableName splits a table name into schema and table components.
// If no schema is specified, it defaults to "public".
func parseTableName(tableName string) (schema string, table string) {
	parts := strings.Split(tableName, ".")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "public", tableName
}

// CaseSensitiveColumns reports that information_schema names are exact:
// unquoted identifiers were folded to lower case when the table was created.
func (e *PostgresExecutor) CaseSensitiveColumns() bool { return true }

// Columns lists table columns from information_schema.
func (e *PostgresExecutor) Columns(ctx context.Context, tableName string) ([]string, error) {
	schema, table := parseTableName(tableName)

	conn, err := e.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// Columns lists table columns with SQLite's table_info pragma.
func (e *DBExecutor) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := e.DB.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
