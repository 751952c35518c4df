package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/jdginn/go-room-wave/fdtd"
)

// Default size of saved plots.
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

var plotColors = []color.Color{
	color.RGBA{R: 200, G: 40, B: 40, A: 255},
	color.RGBA{R: 40, G: 90, B: 200, A: 255},
	color.RGBA{R: 20, G: 20, B: 20, A: 255},
}

// EnergyPlot plots the acoustic, wall and total energy recorded at each stabilizer check.
func EnergyPlot(history []fdtd.EnergyState, dt float64) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("no energy history to plot")
	}
	p := plot.New()
	p.Title.Text = "Field energy"
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Energy"
	p.Legend.Top = true

	acoustic := make(plotter.XYs, len(history))
	wall := make(plotter.XYs, len(history))
	total := make(plotter.XYs, len(history))
	for i, e := range history {
		t := float64(e.Tick) * dt / fdtd.MS
		acoustic[i] = plotter.XY{X: t, Y: e.Acoustic}
		wall[i] = plotter.XY{X: t, Y: e.Wall}
		total[i] = plotter.XY{X: t, Y: e.Total()}
	}

	for i, series := range []struct {
		name string
		xys  plotter.XYs
	}{
		{"acoustic", acoustic},
		{"wall", wall},
		{"total", total},
	} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotColors[i]
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// ProbePlot plots a probe recording with its detected arrivals marked.
func ProbePlot(pr *fdtd.Probe, thresholdDB, baselineDB float64) (*plot.Plot, error) {
	if len(pr.Samples) == 0 {
		return nil, fmt.Errorf("probe %s has no samples", pr.Name)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Probe %s (%d, %d)", pr.Name, pr.X, pr.Y)
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "Pressure"

	xys := make(plotter.XYs, len(pr.Samples))
	for i, v := range pr.Samples {
		xys[i] = plotter.XY{X: float64(i) * pr.Interval / fdtd.MS, Y: v}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.Color = plotColors[0]
	p.Add(line)

	if arrivals := pr.Peaks(thresholdDB, baselineDB); len(arrivals) > 0 {
		start, _ := pr.Peak()
		offset := float64(start) * pr.Interval / fdtd.MS
		marks := make(plotter.XYs, len(arrivals))
		for i, a := range arrivals {
			marks[i] = plotter.XY{X: a.TimeMS + offset, Y: a.Linear}
		}
		sc, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, err
		}
		sc.Color = plotColors[2]
		p.Add(sc)
	}
	return p, nil
}

// SavePlot writes p as an image; the format follows the file extension.
func SavePlot(p *plot.Plot, path string) error {
	return p.Save(PlotWidth, PlotHeight, path)
}
