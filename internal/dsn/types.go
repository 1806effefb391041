// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn detects which warehouse backend a connection string points to
// and parses, validates and normalizes it for that backend.
package dsn

import "fmt"

// SourceType is the warehouse backend a DSN points to.
type SourceType string

const (
	SourceBigQuery SourceType = "bigquery"
	SourcePostgres SourceType = "postgres"
	SourceSQLite   SourceType = "sqlite"
	SourceUnknown  SourceType = "unknown"
)

// DSNInfo contains parsed information from a DSN string
type DSNInfo struct {
	Type     SourceType
	Host     string
	Port     string
	User     string
	Password string
	// Database is the PostgreSQL database, the SQLite file path or the
	// BigQuery dataset.
	Database string
	// Project is the BigQuery project.
	Project  string
	Params   map[string]string
	Original string
}

// String returns the original DSN string
func (d *DSNInfo) String() string {
	return d.Original
}

// Resolver is an interface for backend-specific DSN resolution
type Resolver interface {
	// Parse parses a DSN string and returns DSN info
	Parse(dsn string) (*DSNInfo, error)

	// Normalize converts DSN info to a properly formatted connection string
	Normalize(info *DSNInfo) (string, error)

	// Validate checks if the DSN is valid for the backend
	Validate(dsn string) error
}

// ParseError represents an error that occurred during DSN parsing
type ParseError struct {
	DSN    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN format: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN format: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(dsn, reason, hint string) *ParseError {
	return &ParseError{
		DSN:    dsn,
		Reason: reason,
		Hint:   hint,
	}
}
