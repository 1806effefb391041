// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chart

import (
	"fmt"
	"strings"

	werrors "warehousecharts/cli/internal/errors"
	"warehousecharts/cli/internal/output"
	"warehousecharts/cli/internal/sqlexec"
)

// Renderer draws charts into an output sink.
type Renderer struct {
	sink   *output.Sink
	format string
	dpi    int
}

// NewRenderer returns a renderer writing format images at dpi into sink.
// The sink's extension follows the format.
func NewRenderer(dir, format string, dpi int) (*Renderer, error) {
	if format == "" {
		format = "png"
	}
	format = strings.ToLower(format)
	if !ValidFormat(format) {
		return nil, werrors.Newf(werrors.Config, "unsupported image format %q (want one of %s)",
			format, strings.Join(Formats, ", "))
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{sink: output.New(dir, format), format: format, dpi: dpi}, nil
}

// Sink returns the output sink charts are written to.
func (r *Renderer) Sink() *output.Sink { return r.sink }

// Render builds, draws and writes one chart, returning the file path.
// Build and draw failures are render errors; write failures keep their
// filesystem kind.
func (r *Renderer) Render(c Chart, res *sqlexec.Result) (string, error) {
	fig, err := c.Build(res)
	if err != nil {
		return "", werrors.Wrap(werrors.Render, fmt.Sprintf("build chart %s", c.Name), err)
	}
	img, err := fig.Draw(r.format, r.dpi)
	if err != nil {
		return "", werrors.Wrap(werrors.Render, fmt.Sprintf("draw chart %s", c.Name), err)
	}
	return r.sink.Write(c.Name, img)
}
