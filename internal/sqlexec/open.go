// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
)

// Source identifies the warehouse backend to connect to.
type Source struct {
	// Kind is "bigquery", "postgres" or "sqlite".
	Kind string
	// DSN is the connection string for postgres, or the database file for sqlite.
	DSN string
	// Project is the BigQuery billing project.
	Project string
}

// Open connects to the backend described by src and verifies it answers.
func Open(ctx context.Context, src Source) (Executor, error) {
	switch strings.ToLower(src.Kind) {
	case "bigquery", "bq", "":
		return NewBigQuery(ctx, src.Project)
	case "postgres", "postgresql", "pg":
		pool, err := pgxpool.New(ctx, src.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return NewPostgres(pool), nil
	case "sqlite", "sqlite3":
		db, err := OpenSQLite(ctx, src.DSN)
		if err != nil {
			return nil, err
		}
		return NewDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported source %q", src.Kind)
	}
}

// OpenSQLite opens a SQLite database file read-only. The file must exist.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	if path == "" {
		return nil, fmt.Errorf("sqlite source needs a database file")
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}
