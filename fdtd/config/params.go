package config

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jdginn/go-room-wave/fdtd"
)

// Build converts the config signal into an fdtd.Signal.
func (s Signal) Build() (fdtd.Signal, error) {
	kind, err := fdtd.ParseSignalKind(s.Type)
	if err != nil {
		return fdtd.Signal{}, err
	}
	amp := s.Amplitude
	if amp == 0 {
		amp = 1
	}
	sig := fdtd.NewSignal(kind, s.FrequencyHz, amp)
	if s.Cycles > 0 {
		sig.Cycles = s.Cycles
	}
	if len(s.Envelope) > 0 {
		sig = sig.WithEnvelope(s.Envelope)
	}
	return sig, nil
}

// WallAbsorption looks up the absorption of the configured wall material.
func (c *ExperimentConfig) WallAbsorption() (float64, error) {
	m, ok := c.Materials.Inline[c.Physics.WallMaterial]
	if !ok {
		return 0, fmt.Errorf("undefined wall material '%s'", c.Physics.WallMaterial)
	}
	return m.Absorption, nil
}

// Params converts the config into simulation parameters. Zero physics values keep the
// defaults of fdtd.DefaultParams. A configured floor plan is loaded from disk.
func (c *ExperimentConfig) Params() (fdtd.Params, error) {
	p := fdtd.DefaultParams()
	p.Cols, p.Rows, p.Width = c.Grid.Cols, c.Grid.Rows, c.Grid.Width

	if v := c.Physics.SpeedOfSound; v > 0 {
		p.SpeedOfSound = v
	}
	if v := c.Physics.Density; v > 0 {
		p.Density = v
	}
	if v := c.Physics.MinPressureThreshold; v > 0 {
		p.MinPressureThreshold = v
	}
	if v := c.Physics.EnergyCheckInterval; v > 0 {
		p.EnergyCheckInterval = v
	}
	if v := c.Physics.AnechoicAbsorption; v > 0 {
		p.AnechoicAbsorption = v
	}
	p.AirAbsorption = c.Physics.AirAbsorption

	wall, err := c.WallAbsorption()
	if err != nil {
		return p, err
	}
	p.WallAbsorption = wall

	if c.Layout.Open {
		p.Layout = nil
	} else {
		p.Layout = &fdtd.Layout{
			WidthRatio:       c.Layout.WidthRatio,
			HeightRatio:      c.Layout.HeightRatio,
			CorridorRatio:    c.Layout.CorridorRatio,
			MarginRatio:      c.Layout.MarginRatio,
			AnechoicExterior: c.Layout.AnechoicExterior,
		}
	}

	if fp := c.Layout.FloorPlan; fp != nil {
		plan, err := fdtd.LoadFloorPlan(fp.Path, fp.SliceHeight)
		if err != nil {
			return p, fmt.Errorf("loading floor plan: %w", err)
		}
		if fp.Origin != nil {
			plan.Origin = r3.Vec{X: fp.Origin[0], Y: fp.Origin[1]}
		}
		p.FloorPlan = &plan
	}

	p.Sources = p.Sources[:0]
	for i, s := range c.Sources {
		sig, err := s.Signal.Build()
		if err != nil {
			return p, fmt.Errorf("source %d: %w", i, err)
		}
		p.Sources = append(p.Sources, fdtd.SourceParams{X: s.Position[0], Y: s.Position[1], Signal: sig})
	}
	for _, pr := range c.Probes {
		p.Probes = append(p.Probes, fdtd.ProbeParams{Name: pr.Name, X: pr.Position[0], Y: pr.Position[1]})
	}

	if c.Simulation.WarningSeconds > 0 {
		p.WarningDuration = time.Duration(c.Simulation.WarningSeconds * float64(time.Second))
	}
	return p, nil
}

// Triangle converts the config into an fdtd.ListeningTriangle.
func (lt *ListeningTriangle) Triangle() fdtd.ListeningTriangle {
	return fdtd.ListeningTriangle{
		ReferenceX:     lt.ReferencePosition[0],
		ReferenceY:     lt.ReferencePosition[1],
		DistFromFront:  lt.DistanceFromFront,
		DistFromCenter: lt.DistanceFromCenter,
	}
}
