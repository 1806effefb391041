// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"os"
	"strings"
)

// SQLiteResolver handles local warehouse snapshot files.
type SQLiteResolver struct{}

// NewSQLiteResolver creates a new SQLite resolver
func NewSQLiteResolver() *SQLiteResolver { return &SQLiteResolver{} }

// Parse accepts sqlite://<path>, file:<path> or a bare path.
func (r *SQLiteResolver) Parse(dsn string) (*DSNInfo, error) {
	path := strings.TrimSpace(dsn)
	for _, prefix := range []string{"sqlite://", "file:"} {
		if len(path) >= len(prefix) && strings.EqualFold(path[:len(prefix)], prefix) {
			path = path[len(prefix):]
			break
		}
	}
	path, query, _ := strings.Cut(path, "?")
	if path == "" {
		return nil, NewParseError(dsn, "missing database file", "use sqlite://path/to/warehouse.db")
	}
	info := &DSNInfo{Type: SourceSQLite, Database: path, Params: map[string]string{}, Original: dsn}
	for _, param := range strings.Split(query, "&") {
		if k, v, ok := strings.Cut(param, "="); ok {
			info.Params[k] = v
		}
	}
	return info, nil
}

// Normalize returns the plain file path; connections are always read-only.
func (r *SQLiteResolver) Normalize(info *DSNInfo) (string, error) {
	if info == nil || info.Database == "" {
		return "", NewParseError("", "missing database file", "")
	}
	return info.Database, nil
}

// Validate checks that the database file exists.
func (r *SQLiteResolver) Validate(dsn string) error {
	info, err := r.Parse(dsn)
	if err != nil {
		return err
	}
	st, err := os.Stat(info.Database)
	if err != nil {
		return NewParseError(dsn, "database file not found: "+info.Database, "point --dsn at an existing snapshot")
	}
	if st.IsDir() {
		return NewParseError(dsn, info.Database+" is a directory", "point --dsn at a database file")
	}
	return nil
}
