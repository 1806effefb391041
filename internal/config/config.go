// Package config loads and stores CLI configuration in the XDG config dir and
// resolves the effective settings of a run. Precedence, highest first:
// command-line flags, environment, config file, defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"warehousecharts/cli/internal/catalog"
	"warehousecharts/cli/internal/dsn"
	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/output"
	"warehousecharts/cli/internal/sqlexec"
	"warehousecharts/cli/internal/xdg"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultProject = "warehouse-analysis"
	DefaultFormat  = "png"
	DefaultDPI     = 300
	DefaultLevel   = "warn"
)

// Environment variables holding the warehouse DSN, in lookup order.
var DSNEnv = []string{"WAREHOUSE_DSN", "DATABASE_URL"}

// Config holds CLI settings. Zero values mean "not set" when merging.
type Config struct {
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	DSN       string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Project   string `json:"project,omitempty" yaml:"project,omitempty"`
	Table     string `json:"table,omitempty" yaml:"table,omitempty"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`
	DPI       int    `json:"dpi,omitempty" yaml:"dpi,omitempty"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Config {
	return Config{
		LogLevel:  DefaultLevel,
		Project:   DefaultProject,
		OutputDir: output.DefaultDir,
		Format:    DefaultFormat,
		DPI:       DefaultDPI,
	}
}

// FileNames lists the accepted config file names in lookup order.
var FileNames = []string{"config.yaml", "config.yml", "config.json"}

// Path returns the path to the config file: the first of FileNames that
// exists, or config.json when none does.
func Path() (string, error) {
	dir, err := xdg.ConfigPath()
	if err != nil {
		return "", err
	}
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file over the defaults; a missing file yields defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Defaults(), werrors.Wrap(werrors.Config, "resolve config path", err)
	}
	return LoadFrom(p)
}

// LoadFrom reads the config file at p over the defaults. Files ending in
// .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadFrom(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, werrors.Wrap(werrors.Config, fmt.Sprintf("read %s", p), err)
	}
	var file Config
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return c, werrors.Wrap(werrors.Config, fmt.Sprintf("parse %s", p), err)
	}
	return c.Merge(file), nil
}

// Save writes c to the file Path resolves to, in YAML or JSON by its
// extension, and returns that path. The file is 0600 since it may hold a DSN.
func Save(c Config) (string, error) {
	if _, err := xdg.ConfigDir(); err != nil {
		return "", werrors.Wrap(werrors.Config, "create config dir", err)
	}
	p, err := Path()
	if err != nil {
		return "", werrors.Wrap(werrors.Config, "resolve config path", err)
	}
	var b []byte
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		b, err = yaml.Marshal(c)
	default:
		b, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return "", werrors.Wrap(werrors.Config, "encode config", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return "", werrors.Wrap(werrors.Config, fmt.Sprintf("write %s", p), err)
	}
	return p, nil
}

// Merge returns c with every non-zero field of over applied on top.
func (c Config) Merge(over Config) Config {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&c.LogLevel, over.LogLevel)
	set(&c.Source, over.Source)
	set(&c.DSN, over.DSN)
	set(&c.Project, over.Project)
	set(&c.Table, over.Table)
	set(&c.OutputDir, over.OutputDir)
	set(&c.Format, over.Format)
	if over.DPI != 0 {
		c.DPI = over.DPI
	}
	return c
}

// FromEnv reads the settings carried by the environment.
func FromEnv(getenv func(string) string) Config {
	var c Config
	for _, k := range DSNEnv {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			c.DSN = v
			break
		}
	}
	return c
}

// SourceType returns the configured backend. An unset source is inferred
// from the DSN and falls back to BigQuery.
func (c Config) SourceType() dsn.SourceType {
	if strings.TrimSpace(c.Source) == "" && c.DSN != "" {
		if t := dsn.DetectSource(c.DSN); t != dsn.SourceUnknown {
			return t
		}
	}
	return dsn.ParseSource(c.Source)
}

// BigQueryProject returns the project from a bigquery:// DSN or Project.
func (c Config) BigQueryProject() string {
	if dsn.DetectSource(c.DSN) == dsn.SourceBigQuery {
		if info, err := dsn.ParseInfo(c.DSN); err == nil {
			return info.Project
		}
	}
	if c.Project == "" {
		return DefaultProject
	}
	return c.Project
}

// TableName returns the configured source table or the backend default.
func (c Config) TableName() string {
	if c.Table != "" {
		return c.Table
	}
	switch c.SourceType() {
	case dsn.SourcePostgres:
		return catalog.PostgresTable
	case dsn.SourceSQLite:
		return catalog.SQLiteTable
	}
	return c.BigQueryProject() + ".logistics_warehouse.logistics_warehouse"
}

// Validate checks the settings a run depends on.
func (c Config) Validate() error {
	src := c.SourceType()
	if src == dsn.SourceUnknown {
		return werrors.Newf(werrors.Config, "unsupported source %q (use bigquery, postgres or sqlite)", c.Source)
	}
	if c.DSN != "" {
		if got := dsn.DetectSource(c.DSN); got != src && got != dsn.SourceUnknown {
			return werrors.Newf(werrors.Config, "DSN points to %s but source is %s", got, src)
		}
		if err := dsn.NewResolverFor(src).Validate(c.DSN); err != nil {
			return werrors.Wrap(werrors.Config, "invalid DSN", err)
		}
	} else if src != dsn.SourceBigQuery {
		return werrors.Newf(werrors.Config, "source %s needs a DSN (--dsn or %s)", src, DSNEnv[0])
	}
	if c.DPI < 0 {
		return werrors.Newf(werrors.Config, "dpi must be positive, got %d", c.DPI)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return werrors.New(werrors.Config, "output directory is empty")
	}
	return nil
}

// ExecSource returns the connection settings for sqlexec.Open.
func (c Config) ExecSource() (sqlexec.Source, error) {
	src := sqlexec.Source{Kind: string(c.SourceType()), Project: c.BigQueryProject()}
	if c.DSN == "" || c.SourceType() == dsn.SourceBigQuery {
		return src, nil
	}
	resolver := dsn.NewResolverFor(c.SourceType())
	if resolver == nil {
		return src, werrors.Newf(werrors.Config, "unsupported source %q", c.Source)
	}
	info, err := resolver.Parse(c.DSN)
	if err != nil {
		return src, werrors.Wrap(werrors.Config, "invalid DSN", err)
	}
	if src.DSN, err = resolver.Normalize(info); err != nil {
		return src, werrors.Wrap(werrors.Config, "invalid DSN", err)
	}
	return src, nil
}

// Dialect returns the SQL dialect for the configured source and table.
func (c Config) Dialect() (catalog.Dialect, error) {
	d, err := catalog.ForSource(string(c.SourceType()), c.TableName())
	if err != nil {
		return d, werrors.Wrap(werrors.Config, "select dialect", err)
	}
	return d, nil
}
