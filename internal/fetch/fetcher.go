// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package fetch executes catalog reports against the warehouse and checks that
// each answer has exactly the schema the charts expect.
package fetch

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"warehousecharts/cli/internal/catalog"
	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/sqlexec"

	"go.uber.org/zap"
)

// Fetcher runs reports from a catalog through a Querier.
type Fetcher struct {
	catalog *catalog.Catalog
	querier sqlexec.Querier
	log     *zap.Logger
}

// New creates a Fetcher. A nil logger disables logging.
func New(c *catalog.Catalog, q sqlexec.Querier, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{catalog: c, querier: q, log: log}
}

// Fetch runs one report and returns its rows in query order.
// Every failure is a DataAccess error; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, key string) (*sqlexec.Result, error) {
	report, ok := f.catalog.Get(key)
	if !ok {
		return nil, werrors.Newf(werrors.DataAccess, "unknown report %q", key)
	}

	f.log.Debug("running report query", zap.String("report", key), zap.String("dialect", f.catalog.Dialect().Name))
	res, err := f.querier.Query(ctx, report.Query)
	if err != nil {
		return nil, werrors.Wrap(werrors.DataAccess, fmt.Sprintf("query %s", key), err)
	}
	if err := conform(report, res); err != nil {
		return nil, err
	}

	f.log.Debug("report fetched", zap.String("report", key), zap.Int("rows", res.Len()))
	return res, nil
}

// FetchAll runs every report in catalog order and stops at the first failure.
func (f *Fetcher) FetchAll(ctx context.Context) (map[string]*sqlexec.Result, error) {
	out := make(map[string]*sqlexec.Result, len(f.catalog.Keys()))
	for _, key := range f.catalog.Keys() {
		res, err := f.Fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = res
	}
	return out, nil
}

// conform checks column names, their order, and the row cap.
func conform(report catalog.Report, res *sqlexec.Result) error {
	if res == nil {
		return werrors.Newf(werrors.DataAccess, "query %s returned no result", report.Key)
	}
	if !slices.Equal(report.Columns, res.Columns) {
		return werrors.Newf(werrors.DataAccess, "query %s returned columns [%s], want [%s]",
			report.Key, strings.Join(res.Columns, ", "), strings.Join(report.Columns, ", "))
	}
	if report.Limit > 0 && res.Len() > report.Limit {
		return werrors.Newf(werrors.DataAccess, "query %s returned %d rows, cap is %d", report.Key, res.Len(), report.Limit)
	}
	for i, row := range res.Rows {
		if len(row) != len(res.Columns) {
			return werrors.Newf(werrors.DataAccess, "query %s row %d has %d values for %d columns",
				report.Key, i, len(row), len(res.Columns))
		}
	}
	return nil
}
