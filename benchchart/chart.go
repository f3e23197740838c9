// Copyright 2024 The Vitebench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart renders comparative charts from a benchmark
// table: one box plot of compression ratios and one of compression
// throughputs, side by side on a single canvas.
package benchchart

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/vitemap/vitebench/benchreport"
	"github.com/vitemap/vitebench/benchtab"
	"github.com/vitemap/vitebench/benchunit"
)

// DefaultPath is where Render writes the figure unless told otherwise.
const DefaultPath = "performance.png"

const (
	figWidth  = 17 * vg.Inch
	figHeight = 7 * vg.Inch
	figDPI    = 600
)

var boxWidth = vg.Points(40)

// Box fill colors per algorithm, shared by both subplots so an
// algorithm is recognizable across them.
var fillColors = map[string]color.Color{
	benchreport.AlgSnappy:  color.NRGBA{0x98, 0xAB, 0xC3, 0xFF},
	benchreport.AlgZstd:    color.NRGBA{0xDD, 0x56, 0x56, 0xFF},
	benchreport.AlgVitemap: color.NRGBA{0x91, 0xB3, 0x82, 0xFF},
}

// Axis display names per algorithm, in benchreport.Algorithms order.
var displayNames = map[string]string{
	benchreport.AlgSnappy:  "Snappy",
	benchreport.AlgZstd:    "Zstd",
	benchreport.AlgVitemap: "Vitemap",
}

// Render draws the two-panel comparison figure for t and writes it as
// a PNG to path. An empty table still produces a figure, just with no
// boxes.
func Render(t *benchtab.Table, path string) error {
	ratio, _, err := boxPanel(t.Ratios, "Compression Ratio", "Ratio")
	if err != nil {
		return err
	}

	speed, boxes, err := boxPanel(t.Throughputs, "Compression Speed", "Speed [Gbps]")
	if err != nil {
		return err
	}
	speed.Y.Scale = plot.LogScale{}
	speed.Y.Tick.Marker = gbpsTicks{}
	if boxes == 0 {
		// A log axis cannot include zero; give the empty panel a
		// positive range.
		speed.Y.Min, speed.Y.Max = 1, 10
	}

	img := vgimg.NewWith(
		vgimg.UseWH(figWidth, figHeight),
		vgimg.UseDPI(figDPI),
		vgimg.UseBackgroundColor(color.White),
	)
	canvas := vgimg.PngCanvas{Canvas: img}
	dc := draw.New(canvas)

	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 10,
	}
	panels := plot.Align([][]*plot.Plot{{ratio, speed}}, tiles, dc)
	ratio.Draw(panels[0][0])
	speed.Draw(panels[0][1])

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := canvas.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// boxPanel builds one subplot with a box per algorithm. values
// returns the algorithm's distribution; algorithms with no data get a
// labeled slot but no box.
func boxPanel(values func(alg string) []float64, title, yLabel string) (*plot.Plot, int, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Y.Label.Text = yLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.X.Tick.Label.Font.Size = vg.Points(12)

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(grid)

	var names []string
	boxes := 0
	for i, alg := range benchreport.Algorithms {
		names = append(names, displayNames[alg])
		vals := values(alg)
		if len(vals) == 0 {
			continue
		}
		boxes++
		b, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(vals))
		if err != nil {
			return nil, 0, fmt.Errorf("box plot for %s: %w", alg, err)
		}
		b.FillColor = fillColors[alg]
		b.MedianStyle.Color = color.Gray{0x33}
		b.MedianStyle.Width = vg.Points(1)
		p.Add(b)
	}
	p.NominalX(names...)
	if boxes == 0 {
		// No data leaves the axis range unset; pick one so the
		// empty figure still draws.
		p.Y.Min, p.Y.Max = 0, 1
	}
	return p, boxes, nil
}

// gbpsTicks labels log-scale throughput ticks in gigabits per second,
// leaving sub-gigabit ticks unlabeled.
type gbpsTicks struct{}

func (gbpsTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.LogTicks{Prec: -1}.Ticks(min, max)
	for i, t := range ticks {
		if t.Label == "" {
			continue
		}
		ticks[i].Label = benchunit.FormatGbps(t.Value)
	}
	return ticks
}
