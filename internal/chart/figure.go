// Copyright (c) 2025 warehouse-charts contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package chart turns report results into static chart images.
//
// Each report has a builder that maps its Result Table onto a Figure: a plain
// description of bars, colors, labels and an optional table panel. Figures are
// then drawn with gonum/plot. Keeping the two steps apart makes the visual
// contract of every chart testable without decoding images.
package chart

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Named colors used by the charts.
var (
	Red        = color.RGBA{R: 0xff, A: 0xff}
	Green      = color.RGBA{G: 0x80, A: 0xff}
	SkyBlue    = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	LightGreen = color.RGBA{R: 0x90, G: 0xee, B: 0x90, A: 0xff}
	Orange     = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
)

// Bar is one bar of a categorical bar chart.
type Bar struct {
	Label string
	Value float64
	Color color.RGBA
}

// Table is a text table drawn under the bar chart.
type Table struct {
	Header []string
	Rows   [][]string
}

// Figure describes one chart image.
type Figure struct {
	// Name is the output file name without extension.
	Name   string
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
	Bars   []Bar
	// Annotate prints each bar's integer height above it.
	Annotate bool
	// Table, when set, is drawn in a second panel below the bars.
	Table *Table
}

// Labels returns the bar labels in x-axis order.
func (f *Figure) Labels() []string {
	out := make([]string, len(f.Bars))
	for i, b := range f.Bars {
		out[i] = b.Label
	}
	return out
}
