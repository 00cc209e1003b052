package report

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/limnostrat/internal/analysis"
)

const (
	ChartTitle  = "Chemical Stratification Index (IC) Time Series"
	ChartXLabel = "Julian Day"
	ChartYLabel = "IC"
)

// PlotOptions sizes the rendered chart.
type PlotOptions struct {
	WidthIn  float64
	HeightIn float64
	DPI      int
}

// DefaultPlotOptions returns a 12x6 inch chart at 100 dpi.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{WidthIn: 12, HeightIn: 6, DPI: 100}
}

func (o PlotOptions) withDefaults() PlotOptions {
	d := DefaultPlotOptions()
	if o.WidthIn <= 0 {
		o.WidthIn = d.WidthIn
	}
	if o.HeightIn <= 0 {
		o.HeightIn = d.HeightIn
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	return o
}

// seriesXYs converts the series to plot points, dropping days whose value is
// not finite.
func seriesXYs(s analysis.Series) plotter.XYs {
	pts := make(plotter.XYs, 0, len(s.Points))
	for _, p := range s.Points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(p.Day), Y: p.Value})
	}
	return pts
}

// NewChart builds the stratification index line chart.
func NewChart(s analysis.Series) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = ChartTitle
	p.X.Label.Text = ChartXLabel
	p.Y.Label.Text = ChartYLabel
	p.Add(plotter.NewGrid())

	pts := seriesXYs(s)
	if len(pts) > 0 {
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("build line: %w", err)
		}
		p.Add(line)
	}
	return p, nil
}

// RenderPNG draws the chart for s and returns the encoded PNG.
func RenderPNG(s analysis.Series, opt PlotOptions) ([]byte, error) {
	opt = opt.withDefaults()
	p, err := NewChart(s)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opt.WidthIn)*vg.Inch, vg.Length(opt.HeightIn)*vg.Inch),
		vgimg.UseDPI(opt.DPI),
	)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
