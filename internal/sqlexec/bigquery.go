// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package sqlexec

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// BigQueryExecutor runs GoogleSQL through the BigQuery client.
// Credentials come from the environment (Application Default Credentials).
type BigQueryExecutor struct {
	Client *bigquery.Client
}

// NewBigQuery opens a client billed to project.
func NewBigQuery(ctx context.Context, project string) (*BigQueryExecutor, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client for project %q: %w", project, err)
	}
	return &BigQueryExecutor{Client: client}, nil
}

// Query runs the job and reads every row.
func (e *BigQueryExecutor) Query(ctx context.Context, sql string) (*Result, error) {
	it, err := e.Client.Query(sql).Read(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Rows: [][]any{}}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		res.Rows = append(res.Rows, normalizeRow(vals))
	}

	// Schema is populated once the first page has been fetched.
	res.Columns = make([]string, len(it.Schema))
	for i, f := range it.Schema {
		res.Columns[i] = f.Name
	}
	return res, nil
}

// Columns reads the table schema from its metadata. table is project.dataset.table
// or dataset.table (the client's project is used then).
func (e *BigQueryExecutor) Columns(ctx context.Context, table string) ([]string, error) {
	parts := strings.Split(table, ".")
	var ds *bigquery.Dataset
	switch len(parts) {
	case 3:
		ds = e.Client.DatasetInProject(parts[0], parts[1])
	case 2:
		ds = e.Client.Dataset(parts[0])
	default:
		return nil, fmt.Errorf("table %q is not dataset.table or project.dataset.table", table)
	}

	md, err := ds.Table(parts[len(parts)-1]).Metadata(ctx)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(md.Schema))
	for _, f := range md.Schema {
		cols = append(cols, f.Name)
	}
	return cols, nil
}

// Close closes the client.
func (e *BigQueryExecutor) Close() error { return e.Client.Close() }
