// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the raster resolution of PNG, JPEG and TIFF output.
const DefaultDPI = 300

// Formats lists the supported image formats.
var Formats = []string{"png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps"}

// ValidFormat reports whether format can be rendered.
func ValidFormat(format string) bool {
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

var (
	gridColor   = color.Gray{Y: 0xdd}
	headerColor = color.Gray{Y: 0xee}
	borderColor = color.Gray{Y: 0x88}
)

// Draw renders the figure and returns the encoded image, ready to be written.
func (f *Figure) Draw(format string, dpi int) (vg.CanvasWriterTo, error) {
	if len(f.Bars) == 0 {
		return nil, fmt.Errorf("figure %s has no bars", f.Name)
	}
	c, err := newCanvas(f.Width, f.Height, format, dpi)
	if err != nil {
		return nil, err
	}

	p, err := f.plot()
	if err != nil {
		return nil, err
	}

	dc := draw.New(c)
	if f.Table == nil {
		p.Draw(dc)
		return c, nil
	}

	mid := dc.Min.Y + (dc.Max.Y-dc.Min.Y)/2
	top, bottom := dc, dc
	top.Min.Y = mid
	bottom.Max.Y = mid
	p.Draw(top)
	drawTable(draw.Crop(bottom, vg.Points(10), -vg.Points(10), vg.Points(10), -vg.Points(10)), f.Table)
	return c, nil
}

func newCanvas(w, h vg.Length, format string, dpi int) (vg.CanvasWriterTo, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	}
	switch strings.ToLower(format) {
	case "png", "":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	default:
		return draw.NewFormattedCanvas(w, h, format)
	}
}

// plot builds the bar panel: one single-value bar chart per bar so every bar
// can carry its own color.
func (f *Figure) plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	width := vg.Length(0.6 * float64(f.Width) / float64(len(f.Bars)))
	if maxWidth := vg.Points(60); width > maxWidth {
		width = maxWidth
	}

	for i, b := range f.Bars {
		bc, err := plotter.NewBarChart(plotter.Values{b.Value}, width)
		if err != nil {
			return nil, fmt.Errorf("bar %q: %w", b.Label, err)
		}
		bc.XMin = float64(i)
		bc.Color = b.Color
		bc.LineStyle.Width = 0
		p.Add(bc)
	}

	if f.Annotate {
		labels, err := f.heightLabels()
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	p.NominalX(f.Labels()...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

func (f *Figure) heightLabels() (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(f.Bars))
	texts := make([]string, len(f.Bars))
	for i, b := range f.Bars {
		xys[i] = plotter.XY{X: float64(i), Y: b.Value}
		texts[i] = fmt.Sprintf("%d", int64(b.Value))
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YBottom
	}
	l.Offset = vg.Point{Y: vg.Points(2)}
	return l, nil
}

// drawTable lays the table out centered in c, shrinking rows to fit.
func drawTable(c draw.Canvas, t *Table) {
	cols := len(t.Header)
	rows := len(t.Rows) + 1
	if cols == 0 {
		return
	}

	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	rowH := h / vg.Length(rows)
	if maxRow := vg.Points(18); rowH > maxRow {
		rowH = maxRow
	}
	fontSize := rowH * 0.6
	if maxFont := vg.Points(10); fontSize > maxFont {
		fontSize = maxFont
	}

	tableW := w * 0.9
	left := c.Min.X + (w-tableW)/2
	right := left + tableW
	top := c.Min.Y + (h+rowH*vg.Length(rows))/2
	bottom := top - rowH*vg.Length(rows)
	colW := tableW / vg.Length(cols)

	c.FillPolygon(headerColor, []vg.Point{
		{X: left, Y: top}, {X: right, Y: top}, {X: right, Y: top - rowH}, {X: left, Y: top - rowH},
	})

	line := draw.LineStyle{Color: borderColor, Width: vg.Points(0.5)}
	for r := 0; r <= rows; r++ {
		y := top - rowH*vg.Length(r)
		c.StrokeLine2(line, left, y, right, y)
	}
	for k := 0; k <= cols; k++ {
		x := left + colW*vg.Length(k)
		c.StrokeLine2(line, x, top, x, bottom)
	}

	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, fontSize),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	cell := func(r, k int, s string) {
		c.FillText(sty, vg.Point{
			X: left + colW*(vg.Length(k)+0.5),
			Y: top - rowH*(vg.Length(r)+0.5),
		}, s)
	}
	for k, hdr := range t.Header {
		cell(0, k, hdr)
	}
	for r, row := range t.Rows {
		for k := 0; k < cols && k < len(row); k++ {
			cell(r+1, k, row[k])
		}
	}
}
