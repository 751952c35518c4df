package fdtd

import (
	"fmt"
	"time"
)

// Grids need at least this many cells per wavelength to resolve a frequency.
const minCellsPerWavelength = 8

// DefaultWarningDuration is how long an advisory stays visible.
const DefaultWarningDuration = 3 * time.Second

// Advisory is a non-fatal warning that expires on its own.
type Advisory struct {
	Message string
	Expires time.Time
}

// Remaining returns how much longer the advisory should be shown.
func (a Advisory) Remaining(now time.Time) time.Duration {
	if d := a.Expires.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Source injects a signal into the field around a single cell.
type Source struct {
	geom  *Geometry
	clock Clock

	x, y    int
	active  bool
	elapsed float64
	signal  Signal

	warning *Advisory
	warnFor time.Duration
	now     func() time.Time
}

// NewSource places a source at (x, y). It fails if the cell is a wall or out of bounds.
func NewSource(geom *Geometry, clock Clock, x, y int, signal Signal) (*Source, error) {
	s := &Source{
		geom:    geom,
		clock:   clock,
		signal:  signal,
		warnFor: DefaultWarningDuration,
		now:     time.Now,
	}
	if !s.SetPosition(x, y) {
		return nil, fmt.Errorf("cannot place source at (%d, %d): %s", x, y, geom.Classify(x, y))
	}
	s.checkResolution()
	return s, nil
}

func (s *Source) Position() (int, int) { return s.x, s.y }
func (s *Source) Active() bool { return s.active }
func (s *Source) Signal() Signal { return s.signal }

// SetPosition moves the source. It returns false and leaves the source where it was if the
// target is a wall or outside the grid.
func (s *Source) SetPosition(x, y int) bool {
	if !s.geom.InBounds(x, y) || s.geom.IsWall(x, y) {
		return false
	}
	s.x, s.y = x, y
	return true
}

// SetSignal replaces the waveform without changing the active state.
func (s *Source) SetSignal(sig Signal) {
	s.signal = sig
	s.checkResolution()
}

// SetFrequency changes the signal frequency. A frequency the grid cannot resolve raises an
// advisory; a resolvable one clears it.
func (s *Source) SetFrequency(hz float64) {
	s.signal.Frequency = hz
	s.checkResolution()
}

// WavelengthCells returns the signal wavelength measured in grid cells.
func (s *Source) WavelengthCells() float64 {
	return s.clock.C / s.signal.frequency() / s.clock.Dx
}

func (s *Source) checkResolution() {
	cells := s.WavelengthCells()
	if cells >= minCellsPerWavelength {
		s.warning = nil
		return
	}
	s.warning = &Advisory{
		Message: fmt.Sprintf("%.0f Hz is only %.1f cells per wavelength; the grid needs at least %d",
			s.signal.Frequency, cells, minCellsPerWavelength),
		Expires: s.now().Add(s.warnFor),
	}
}

// Warning returns the current advisory, if one has not expired yet.
func (s *Source) Warning() (Advisory, bool) {
	if s.warning == nil {
		return Advisory{}, false
	}
	if s.warning.Remaining(s.now()) == 0 {
		return Advisory{}, false
	}
	return *s.warning, true
}

// Trigger restarts the signal from time zero.
func (s *Source) Trigger() {
	s.active = true
	s.elapsed = 0
}

// Stop deactivates the source without touching the field.
func (s *Source) Stop() {
	s.active = false
}

// Inject advances the source clock by dt and adds the next sample to the field.
// A source whose signal has finished deactivates and injects nothing.
func (s *Source) Inject(f *Field, dt float64) {
	if !s.active {
		return
	}
	s.elapsed += dt
	value, done := s.signal.Sample(s.elapsed)
	if done {
		s.active = false
		return
	}
	f.Inject(s.geom, s.x, s.y, value)
}
