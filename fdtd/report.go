package fdtd

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSON schema types
type EnergyJSON struct {
	Tick           int     `json:"tick"`
	TimeMS         float64 `json:"timeMs"`
	Acoustic       float64 `json:"acoustic"`
	Wall           float64 `json:"wall"`
	InputPower     float64 `json:"inputPower"`
	PowerLossWall  float64 `json:"powerLossWall"`
	PowerLossField float64 `json:"powerLossField"`
	Damping        float64 `json:"damping"`
}

type ArrivalJSON struct {
	TimeMS float64 `json:"timeMs"`
	DB     float64 `json:"db"`
}

type ProbeJSON struct {
	Name     string        `json:"name"`
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Peak     float64       `json:"peak"`
	RMS      float64       `json:"rms"`
	StdDev   float64       `json:"stdDev"`
	Arrivals []ArrivalJSON `json:"arrivals,omitempty"`
}

type SourceJSON struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Signal    string  `json:"signal"`
	Frequency float64 `json:"frequencyHz"`
	Active    bool    `json:"active"`
}

// Report summarizes a run.
type Report struct {
	Cols     int          `json:"cols"`
	Rows     int          `json:"rows"`
	Dx       float64      `json:"dx"`
	Dt       float64      `json:"dt"`
	Courant  float64      `json:"courant"`
	Ticks    int          `json:"ticks"`
	Peak     float64      `json:"peak"`
	Sources  []SourceJSON `json:"sources"`
	Probes   []ProbeJSON  `json:"probes,omitempty"`
	Energy   []EnergyJSON `json:"energy,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Peak detection settings used in reports, in dB relative to the probe's peak.
const (
	reportBaselineDB  = -30
	reportThresholdDB = 6
)

// NewReport captures the current state of the simulation.
func NewReport(s *Simulation) Report {
	clock := s.Clock()
	r := Report{
		Cols:    s.Geometry().Cols(),
		Rows:    s.Geometry().Rows(),
		Dx:      clock.Dx,
		Dt:      clock.Dt,
		Courant: clock.Courant(),
		Ticks:   s.Ticks(),
		Peak:    s.Field().Peak(),
	}
	for _, src := range s.Sources() {
		x, y := src.Position()
		sig := src.Signal()
		r.Sources = append(r.Sources, SourceJSON{
			X:         x,
			Y:         y,
			Signal:    sig.Kind.String(),
			Frequency: sig.Frequency,
			Active:    src.Active(),
		})
	}
	for _, p := range s.Probes() {
		_, peak := p.Peak()
		pj := ProbeJSON{
			Name:   p.Name,
			X:      p.X,
			Y:      p.Y,
			Peak:   peak,
			RMS:    p.RMS(),
			StdDev: p.StdDev(),
		}
		for _, a := range p.Peaks(reportThresholdDB, reportBaselineDB) {
			pj.Arrivals = append(pj.Arrivals, ArrivalJSON{TimeMS: a.TimeMS, DB: a.DB})
		}
		r.Probes = append(r.Probes, pj)
	}
	for _, e := range s.History() {
		r.Energy = append(r.Energy, EnergyJSON{
			Tick:           e.Tick,
			TimeMS:         float64(e.Tick) * clock.Dt / MS,
			Acoustic:       e.Acoustic,
			Wall:           e.Wall,
			InputPower:     e.InputPower,
			PowerLossWall:  e.PowerLossWall,
			PowerLossField: e.PowerLossField,
			Damping:        e.Damping,
		})
	}
	if w, ok := s.Warning(); ok {
		r.Warnings = append(r.Warnings, w.Message)
	}
	return r
}

// SaveReportToJSON writes the report to filename.
func SaveReportToJSON(filename string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
