package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/daryltucker/predict-runner/internal/model"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 5 * vg.Inch
	plotDPI    = 150
	boxWidth   = vg.Length(28)
)

var meanColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}

// BuildBoxPlot lays out one box per case (lexicographic order) with a mean marker.
func BuildBoxPlot(samples []model.Sample) (*plot.Plot, error) {
	names, values := Group(samples)
	if len(names) == 0 {
		return nil, ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = plotTitle(names, values)
	p.Y.Label.Text = "Latency (ms)"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{Y: 0xd0}
	p.Add(grid)

	means := make(plotter.XYs, 0, len(names))
	for i, name := range names {
		box, err := plotter.NewBoxPlot(boxWidth, float64(i), plotter.Values(values[name]))
		if err != nil {
			return nil, fmt.Errorf("failed to build box for %s: %w", name, err)
		}
		p.Add(box)
		means = append(means, plotter.XY{X: float64(i), Y: stat.Mean(values[name], nil)})
	}

	meanMarks, err := plotter.NewScatter(means)
	if err != nil {
		return nil, fmt.Errorf("failed to build mean markers: %w", err)
	}
	meanMarks.GlyphStyle.Shape = draw.TriangleGlyph{}
	meanMarks.GlyphStyle.Color = meanColor
	meanMarks.GlyphStyle.Radius = vg.Points(4)
	p.Add(meanMarks)
	p.Legend.Add("mean", meanMarks)
	p.Legend.Top = true

	p.NominalX(names...)
	return p, nil
}

// WriteBoxPlot renders the box plot as a PNG, creating the parent directory.
func WriteBoxPlot(path string, samples []model.Sample) error {
	p, err := BuildBoxPlot(samples)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	canvas := vgimg.NewWith(vgimg.UseWH(plotWidth, plotHeight), vgimg.UseDPI(plotDPI))
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func plotTitle(names []string, values map[string][]float64) string {
	n := len(values[names[0]])
	for _, name := range names[1:] {
		if len(values[name]) != n {
			return "API Latency per Test Case"
		}
	}
	return fmt.Sprintf("API Latency per Test Case (%d calls each)", n)
}
