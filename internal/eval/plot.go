package eval

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series is top-k sentence accuracy measured at several k for one model.
type Series struct {
	Label string
	XYs   plotter.XYs // X is k, Y is accuracy in percent
}

// Sweep evaluates cases once per k, building each decoder with newDecoder.
func Sweep(ctx context.Context, label string, cases []Case, ks []int, workers int,
	newDecoder func(k int) (Decoder, error)) (Series, error) {
	s := Series{Label: label, XYs: make(plotter.XYs, 0, len(ks))}
	for _, k := range ks {
		d, err := newDecoder(k)
		if err != nil {
			return s, fmt.Errorf("eval: sweep k=%d: %w", k, err)
		}
		_, report, err := Run(ctx, d, cases, workers)
		if err != nil {
			return s, err
		}
		s.XYs = append(s.XYs, plotter.XY{X: float64(k), Y: 100 * report.TopKAccuracy()})
	}
	return s, nil
}

var palette = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

// SavePlot draws every series as a line with points and writes the chart to
// path. The image format follows the file extension (png, svg, pdf).
func SavePlot(path string, series ...Series) error {
	p := plot.New()
	p.Title.Text = "Top k sentence accuracy"
	p.X.Label.Text = "Top k"
	p.Y.Label.Text = "Top k Sentence Accuracy (%)"
	p.Legend.Top = false
	p.Legend.Left = false

	for i, s := range series {
		line, points, err := plotter.NewLinePoints(s.XYs)
		if err != nil {
			return fmt.Errorf("eval: plot %q: %w", s.Label, err)
		}
		c := palette[i%len(palette)]
		line.LineStyle.Color = c
		points.GlyphStyle.Color = c
		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("eval: save plot: %w", err)
	}
	return nil
}
