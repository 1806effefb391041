// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"path/filepath"
	"strings"
)

var sqliteExts = map[string]struct{}{".db": {}, ".sqlite": {}, ".sqlite3": {}}

// DetectSource detects the warehouse backend from a DSN string.
// Key/value PostgreSQL strings ("host=... dbname=...") are recognized too.
func DetectSource(dsn string) SourceType {
	lower := strings.ToLower(strings.TrimSpace(dsn))

	switch {
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return SourcePostgres
	case strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:"):
		return SourceSQLite
	case strings.HasPrefix(lower, "bigquery://") || strings.HasPrefix(lower, "bq://"):
		return SourceBigQuery
	case strings.Contains(lower, "host=") || strings.Contains(lower, "dbname="):
		return SourcePostgres
	}
	if _, ok := sqliteExts[filepath.Ext(lower)]; ok {
		return SourceSQLite
	}
	return SourceUnknown
}

// ParseSource maps a --source value to a SourceType.
func ParseSource(s string) SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bigquery", "bq":
		return SourceBigQuery
	case "postgres", "postgresql", "pg":
		return SourcePostgres
	case "sqlite", "sqlite3":
		return SourceSQLite
	}
	return SourceUnknown
}

// NewResolverFor returns the resolver of a backend, nil for SourceUnknown.
func NewResolverFor(t SourceType) Resolver {
	switch t {
	case SourcePostgres:
		return NewPostgreSQLResolver()
	case SourceSQLite:
		return NewSQLiteResolver()
	case SourceBigQuery:
		return NewBigQueryResolver()
	}
	return nil
}

func resolverFor(dsn string) (Resolver, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, NewParseError(dsn, "empty DSN", "provide a valid warehouse connection string")
	}
	if r := NewResolverFor(DetectSource(dsn)); r != nil {
		return r, nil
	}
	return nil, NewParseError(dsn, "unknown warehouse type",
		"use postgres://, sqlite://<file>.db or bigquery://<project>")
}

// Parse parses a DSN string and returns normalized connection string
// This is the main entry point for DSN parsing
func Parse(dsn string) (string, error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return "", err
	}
	info, err := resolver.Parse(dsn)
	if err != nil {
		return "", err
	}
	return resolver.Normalize(info)
}

// Validate validates a DSN string without normalizing it
func Validate(dsn string) error {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return err
	}
	return resolver.Validate(dsn)
}

// ParseInfo parses a DSN string and returns detailed DSN info
// Useful for inspecting connection details
func ParseInfo(dsn string) (*DSNInfo, error) {
	resolver, err := resolverFor(dsn)
	if err != nil {
		return nil, err
	}
	return resolver.Parse(dsn)
}
