package lingrid

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/beetlebugorg/lingrid/internal/clip"
	"github.com/beetlebugorg/lingrid/internal/parser"
)

// PlotOptions controls rendering of a run.
type PlotOptions struct {
	Title string

	// Width and Height of the saved image. Zero uses 8 x 8 inches.
	Width, Height vg.Length

	// Source, if set, is a .shp file whose polylines are drawn over the grid,
	// clipped to the grid extent.
	Source string
	Parse  ParseOptions
}

var (
	cellOutline = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	lineColor   = color.RGBA{R: 200, G: 40, B: 40, A: 255}
)

// NewPlot draws every cell of grid, filled in proportion to the total clipped
// length the table assigns to it.
func NewPlot(grid *Grid, table *Table, opts PlotOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	totals := table.TotalByCell()
	peak := 0.0
	for _, v := range totals {
		peak = max(peak, v)
	}

	for i, c := range grid.Cells {
		b := grid.CellBounds(i)
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: b.MinX, Y: b.MinY},
			{X: b.MaxX, Y: b.MinY},
			{X: b.MaxX, Y: b.MaxY},
			{X: b.MinX, Y: b.MaxY},
		})
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", c.ID, err)
		}
		poly.LineStyle.Color = cellOutline
		poly.LineStyle.Width = vg.Points(0.5)
		if v := totals[c.ID]; v > 0 && peak > 0 {
			poly.Color = shade(v / peak)
		}
		p.Add(poly)
	}

	if opts.Source != "" {
		if err := addSourceLines(p, grid.Bounds().Box(), opts.Source, opts.Parse); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// SavePlot renders a run to file; the format follows the file extension.
func SavePlot(file string, grid *Grid, table *Table, opts PlotOptions) error {
	p, err := NewPlot(grid, table, opts)
	if err != nil {
		return err
	}
	w, h := opts.Width, opts.Height
	if w == 0 {
		w = 8 * vg.Inch
	}
	if h == 0 {
		h = 8 * vg.Inch
	}
	if err := p.Save(w, h, file); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// addSourceLines draws every segment of every record, clipped to extent.
func addSourceLines(p *plot.Plot, extent r2.Box, source string, opts ParseOptions) error {
	rd, err := parser.Open(source, opts)
	if err != nil {
		return err
	}
	defer rd.Close()

	for {
		shape, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		line := shape.Line()
		for _, r := range line.PartRanges() {
			for k := r.Start; k+1 < r.End; k++ {
				a, b, ok := clip.Segment(line.Points[k], line.Points[k+1], extent)
				if !ok {
					continue
				}
				l, err := plotter.NewLine(plotter.XYs{{X: a.X, Y: a.Y}, {X: b.X, Y: b.Y}})
				if err != nil {
					return fmt.Errorf("record %d: %w", line.Number, err)
				}
				l.Color = lineColor
				l.Width = vg.Points(1)
				p.Add(l)
			}
		}
	}
}

// shade maps a fraction in (0, 1] to a light-to-dark blue fill
func shade(f float64) color.Color {
	f = min(max(f, 0), 1)
	return color.RGBA{
		R: uint8(230 - 200*f),
		G: uint8(240 - 160*f),
		B: 255,
		A: 255,
	}
}
