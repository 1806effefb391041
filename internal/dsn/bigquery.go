// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"regexp"
	"strings"
)

// Project IDs are 6-30 lowercase letters, digits or hyphens, starting with a letter.
var reProject = regexp.MustCompile(`^[a-z][a-z0-9-]{4,28}[a-z0-9]$`)

// BigQueryResolver handles bigquery://project[/dataset] strings.
type BigQueryResolver struct{}

// NewBigQueryResolver creates a new BigQuery resolver
func NewBigQueryResolver() *BigQueryResolver { return &BigQueryResolver{} }

func (r *BigQueryResolver) Parse(dsn string) (*DSNInfo, error) {
	rest := strings.TrimSpace(dsn)
	lower := strings.ToLower(rest)
	switch {
	case strings.HasPrefix(lower, "bigquery://"):
		rest = rest[len("bigquery://"):]
	case strings.HasPrefix(lower, "bq://"):
		rest = rest[len("bq://"):]
	default:
		return nil, NewParseError(dsn, "missing or invalid scheme", "use bigquery://project")
	}
	project, dataset, _ := strings.Cut(strings.Trim(rest, "/"), "/")
	if project == "" {
		return nil, NewParseError(dsn, "missing project", "use bigquery://project")
	}
	return &DSNInfo{
		Type:     SourceBigQuery,
		Project:  project,
		Database: dataset,
		Params:   map[string]string{},
		Original: dsn,
	}, nil
}

func (r *BigQueryResolver) Normalize(info *DSNInfo) (string, error) {
	if info == nil || info.Project == "" {
		return "", NewParseError("", "missing project", "")
	}
	if info.Database != "" {
		return "bigquery://" + info.Project + "/" + info.Database, nil
	}
	return "bigquery://" + info.Project, nil
}

func (r *BigQueryResolver) Validate(dsn string) error {
	info, err := r.Parse(dsn)
	if err != nil {
		return err
	}
	if !reProject.MatchString(info.Project) {
		return NewParseError(dsn, "invalid project id: "+info.Project, "project ids are lowercase letters, digits and hyphens")
	}
	return nil
}
