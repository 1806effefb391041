// Package output manages the chart output directory and file paths.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	werrors "warehousecharts/cli/internal/errors"
)

// DefaultDir is where charts land when no directory is configured.
const DefaultDir = "charts_output"

// EnsureDir creates path and its parents if missing. It is a no-op for an
// existing directory and never touches files already inside it.
func EnsureDir(path string) error {
	if path == "" {
		return werrors.New(werrors.Filesystem, "output directory is empty")
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return werrors.Newf(werrors.Filesystem, "output path %s exists and is not a directory", path)
	case !os.IsNotExist(err):
		return werrors.Wrap(werrors.Filesystem, fmt.Sprintf("stat output directory %s", path), err)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return werrors.Wrap(werrors.Filesystem, fmt.Sprintf("create output directory %s", path), err)
	}
	return nil
}

// Sink resolves and writes chart files inside one directory.
type Sink struct {
	Dir string
	// Ext is the image extension without the dot, e.g. "png".
	Ext string
}

// New creates a Sink for dir writing files with extension ext.
func New(dir, ext string) *Sink {
	if dir == "" {
		dir = DefaultDir
	}
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "png"
	}
	return &Sink{Dir: dir, Ext: ext}
}

// Ensure creates the sink directory.
func (s *Sink) Ensure() error { return EnsureDir(s.Dir) }

// Path returns the full path for a chart file name without extension.
func (s *Sink) Path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name)+"."+s.Ext)
}

// Write replaces the file for name with the content of w.
func (s *Sink) Write(name string, w io.WriterTo) (string, error) {
	path := s.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return "", werrors.Wrap(werrors.Filesystem, fmt.Sprintf("create %s", path), err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return "", werrors.Wrap(werrors.Filesystem, fmt.Sprintf("write %s", path), err)
	}
	if err := f.Close(); err != nil {
		return "", werrors.Wrap(werrors.Filesystem, fmt.Sprintf("close %s", path), err)
	}
	return path, nil
}

// FileSize returns the size of a written chart in bytes.
func (s *Sink) FileSize(name string) (int64, error) {
	info, err := os.Stat(s.Path(name))
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
