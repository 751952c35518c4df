package fdtd

import (
	"fmt"
	"math"
	"time"
)

// Clock holds the physical constants and the stability-safe step sizes derived from them.
type Clock struct {
	C   float64 // speed of sound, m/s
	Rho float64 // density, kg/m^3
	Dx  float64 // meters per cell
	Dt  float64 // seconds per tick
}

// NewClock derives dx from the physical width of the grid and picks dt so the Courant number
// is 1/sqrt(2), inside the 2-D stability bound.
func NewClock(width float64, cols int, c, rho float64) Clock {
	dx := width / float64(cols)
	return Clock{
		C:   c,
		Rho: rho,
		Dx:  dx,
		Dt:  dx / (c * math.Sqrt2),
	}
}

// Courant returns c*dt/dx.
func (c Clock) Courant() float64 {
	return c.C * c.Dt / c.Dx
}

// SourceParams places a source by normalized coordinates in [0, 1].
type SourceParams struct {
	X, Y   float64
	Signal Signal
}

// ProbeParams places a probe by normalized coordinates in [0, 1].
type ProbeParams struct {
	Name string
	X, Y float64
}

// Params configures a Simulation.
type Params struct {
	Cols, Rows int
	// Physical width of the grid in meters
	Width float64

	SpeedOfSound         float64
	Density              float64
	MinPressureThreshold float64
	EnergyCheckInterval  int

	WallAbsorption     float64
	AirAbsorption      float64
	AnechoicAbsorption float64

	// Room layout; nil leaves the grid open
	Layout *Layout
	// Extra walls stamped after the layout
	FloorPlan *FloorPlan

	Sources []SourceParams
	Probes  []ProbeParams

	WarningDuration time.Duration
	// Clock used for advisory expiry; defaults to time.Now
	Now func() time.Time
}

// DefaultParams returns a 200x120 grid of a 10 m wide two-room layout with one impulse source.
func DefaultParams() Params {
	layout := DefaultLayout
	return Params{
		Cols:                 200,
		Rows:                 120,
		Width:                10,
		SpeedOfSound:         343,
		Density:              1.2,
		MinPressureThreshold: DefaultMinPressureThreshold,
		EnergyCheckInterval:  DefaultEnergyCheckInterval,
		WallAbsorption:       0.1,
		AirAbsorption:        0.0005,
		AnechoicAbsorption:   DefaultAnechoicAbsorption,
		Layout:               &layout,
		Sources: []SourceParams{
			{X: 0.25, Y: 0.5, Signal: NewSignal(SignalImpulse, 500, 1)},
		},
		WarningDuration: DefaultWarningDuration,
	}
}

// Simulation owns the geometry, field, sources and probes of one run.
type Simulation struct {
	params Params
	clock  Clock

	geom    *Geometry
	field   *Field
	sources []*Source
	probes  []*Probe

	wallAbsorption float64
	airAbsorption  float64

	ticks      int
	history    []EnergyState
	lastRecord int
}

// NewSimulation builds the geometry, field and sources described by p.
func NewSimulation(p Params) (*Simulation, error) {
	if p.Width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %v", p.Width)
	}
	if p.SpeedOfSound <= 0 || p.Density <= 0 {
		return nil, fmt.Errorf("speed of sound and density must be positive")
	}
	if p.WarningDuration <= 0 {
		p.WarningDuration = DefaultWarningDuration
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	s := &Simulation{
		params:         p,
		wallAbsorption: clampUnit(p.WallAbsorption),
		airAbsorption:  clampUnit(p.AirAbsorption),
	}
	if err := s.build(p.Cols, p.Rows, p.Sources, p.Probes); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) build(cols, rows int, sources []SourceParams, probes []ProbeParams) error {
	geom, err := NewGeometry(cols, rows)
	if err != nil {
		return err
	}
	if s.params.Layout != nil {
		geom.Build(*s.params.Layout)
	}
	if s.params.FloorPlan != nil {
		geom.Rasterize(*s.params.FloorPlan, s.params.Width/float64(cols))
	}

	field, err := NewField(cols, rows, s.params.MinPressureThreshold)
	if err != nil {
		return err
	}
	if s.params.EnergyCheckInterval > 0 {
		field.SetEnergyCheckInterval(s.params.EnergyCheckInterval)
	}
	field.SetAnechoicAbsorption(s.params.AnechoicAbsorption)
	geom.Subscribe(field)
	geom.Subscribe(s)
	field.Reset()

	clock := NewClock(s.params.Width, cols, s.params.SpeedOfSound, s.params.Density)

	s.geom, s.field, s.clock = geom, field, clock
	s.sources = make([]*Source, 0, len(sources))
	for _, sp := range sources {
		if _, ok := s.addSource(sp.X, sp.Y, sp.Signal); !ok {
			return fmt.Errorf("no open cell for source near (%.2f, %.2f)", sp.X, sp.Y)
		}
	}
	s.probes = make([]*Probe, 0, len(probes))
	for _, pp := range probes {
		x, y := s.denormalize(pp.X, pp.Y)
		s.probes = append(s.probes, &Probe{Name: pp.Name, X: x, Y: y, Interval: clock.Dt})
	}
	return nil
}

func (s *Simulation) denormalize(fx, fy float64) (int, int) {
	x := int(math.Round(clampUnit(fx) * float64(s.geom.Cols()-1)))
	y := int(math.Round(clampUnit(fy) * float64(s.geom.Rows()-1)))
	return x, y
}

func (s *Simulation) normalize(x, y int) (float64, float64) {
	return float64(x) / float64(s.geom.Cols()-1), float64(y) / float64(s.geom.Rows()-1)
}

func (s *Simulation) addSource(fx, fy float64, sig Signal) (int, bool) {
	x, y := s.denormalize(fx, fy)
	x, y, ok := s.geom.NearestOpen(x, y)
	if !ok {
		return 0, false
	}
	return s.newSource(x, y, sig)
}

func (s *Simulation) newSource(x, y int, sig Signal) (int, bool) {
	src, err := NewSource(s.geom, s.clock, x, y, sig)
	if err != nil {
		return 0, false
	}
	src.now = s.params.Now
	src.warnFor = s.params.WarningDuration
	src.checkResolution()
	s.sources = append(s.sources, src)
	return len(s.sources) - 1, true
}

func (s *Simulation) stepParams() StepParams {
	return StepParams{
		Dt:             s.clock.Dt,
		Dx:             s.clock.Dx,
		C:              s.clock.C,
		Rho:            s.clock.Rho,
		WallAbsorption: s.wallAbsorption,
		AirAbsorption:  s.airAbsorption,
	}
}

// Update performs exactly one field advance and one injection per active source. The caller
// decides how often to call it.
func (s *Simulation) Update() {
	s.field.Advance(s.geom, s.stepParams())
	for _, src := range s.sources {
		src.Inject(s.field, s.clock.Dt)
	}
	s.ticks++
	for _, p := range s.probes {
		p.Record(s.field)
	}
	if e := s.field.Energy(); e.Checks > 0 && e.Tick != s.lastRecord {
		s.history = append(s.history, e)
		s.lastRecord = e.Tick
	}
}

// Run calls Update n times.
func (s *Simulation) Run(n int) {
	for i := 0; i < n; i++ {
		s.Update()
	}
}

func (s *Simulation) Clock() Clock { return s.clock }
func (s *Simulation) Geometry() *Geometry { return s.geom }
func (s *Simulation) Field() *Field { return s.field }
func (s *Simulation) Ticks() int { return s.ticks }
func (s *Simulation) Probes() []*Probe { return s.probes }
func (s *Simulation) Sources() []*Source { return s.sources }
func (s *Simulation) History() []EnergyState { return s.history }

func (s *Simulation) Pressure(x, y int) float64 { return s.field.Pressure(x, y) }
func (s *Simulation) Velocity(x, y int) float64 { return s.field.Velocity(x, y) }

// Walls returns the cell classification array. It must not be modified.
func (s *Simulation) Walls() []Cell { return s.geom.Cells() }

// SourcePosition returns the position of the first source.
func (s *Simulation) SourcePosition() (int, int) {
	if len(s.sources) == 0 {
		return -1, -1
	}
	return s.sources[0].Position()
}

// SetSourcePosition moves the first source. It returns false if the target is a wall or out
// of bounds, leaving the source unchanged.
func (s *Simulation) SetSourcePosition(x, y int) bool {
	return s.MoveSource(0, x, y)
}

// AddSource adds a source at (x, y) with the first source's signal and returns its index.
func (s *Simulation) AddSource(x, y int) (int, bool) {
	sig := NewSignal(SignalImpulse, 500, 1)
	if len(s.sources) > 0 {
		sig = s.sources[0].Signal()
	}
	return s.newSource(x, y, sig)
}

// MoveSource moves the source with the given index.
func (s *Simulation) MoveSource(i, x, y int) bool {
	if i < 0 || i >= len(s.sources) {
		return false
	}
	return s.sources[i].SetPosition(x, y)
}

// NearestSource returns the index of the source closest to (x, y) within maxDist cells.
func (s *Simulation) NearestSource(x, y int, maxDist float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, src := range s.sources {
		sx, sy := src.Position()
		d := math.Hypot(float64(sx-x), float64(sy-y))
		if d <= maxDist && d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// AddProbe records the pressure at (x, y) from the next tick on.
func (s *Simulation) AddProbe(name string, x, y int) (*Probe, bool) {
	if !s.geom.InBounds(x, y) {
		return nil, false
	}
	p := &Probe{Name: name, X: x, Y: y, Interval: s.clock.Dt}
	s.probes = append(s.probes, p)
	return p, true
}

// SetFrequency changes the frequency of every source.
func (s *Simulation) SetFrequency(hz float64) {
	for _, src := range s.sources {
		src.SetFrequency(hz)
	}
}

// SetSignal replaces the waveform of every source.
func (s *Simulation) SetSignal(sig Signal) {
	for _, src := range s.sources {
		src.SetSignal(sig)
	}
}

func (s *Simulation) WallAbsorption() float64 { return s.wallAbsorption }
func (s *Simulation) AirAbsorption() float64 { return s.airAbsorption }

// SetWallAbsorption sets the wall absorption, clamped to [0, 1].
func (s *Simulation) SetWallAbsorption(a float64) { s.wallAbsorption = clampUnit(a) }

// SetAirAbsorption sets the air absorption, clamped to [0, 1].
func (s *Simulation) SetAirAbsorption(a float64) { s.airAbsorption = clampUnit(a) }

// Warning returns the first unexpired advisory of any source.
func (s *Simulation) Warning() (Advisory, bool) {
	for _, src := range s.sources {
		if w, ok := src.Warning(); ok {
			return w, true
		}
	}
	return Advisory{}, false
}

// TriggerImpulse zeroes the field and restarts every source. Geometry is untouched.
func (s *Simulation) TriggerImpulse() {
	s.field.Reset()
	for _, src := range s.sources {
		src.Trigger()
	}
	for _, p := range s.probes {
		p.Clear()
	}
}

// GeometryChanged moves sources buried by a wall edit to the nearest open cell. A source with
// no open cell left is stopped where it is.
func (s *Simulation) GeometryChanged(g *Geometry) {
	for _, src := range s.sources {
		x, y := src.Position()
		if !g.IsWall(x, y) {
			continue
		}
		if nx, ny, ok := g.NearestOpen(x, y); ok && src.SetPosition(nx, ny) {
			continue
		}
		src.Stop()
	}
}

// Resize rebuilds the simulation at a new resolution. Sources and probes keep their
// normalized positions; a source landing on a wall moves to the nearest open cell.
func (s *Simulation) Resize(cols, rows int) error {
	if cols < 3 || rows < 3 {
		return fmt.Errorf("%dx%d: %w", cols, rows, ErrGridTooSmall)
	}
	sources := make([]SourceParams, len(s.sources))
	for i, src := range s.sources {
		x, y := src.Position()
		fx, fy := s.normalize(x, y)
		sources[i] = SourceParams{X: fx, Y: fy, Signal: src.Signal()}
	}
	probes := make([]ProbeParams, len(s.probes))
	for i, p := range s.probes {
		fx, fy := s.normalize(p.X, p.Y)
		probes[i] = ProbeParams{Name: p.Name, X: fx, Y: fy}
	}

	oldGeom, oldField, oldClock := s.geom, s.field, s.clock
	oldSources, oldProbes := s.sources, s.probes
	if err := s.build(cols, rows, sources, probes); err != nil {
		s.geom, s.field, s.clock = oldGeom, oldField, oldClock
		s.sources, s.probes = oldSources, oldProbes
		return err
	}
	oldGeom.Unsubscribe(oldField)
	oldGeom.Unsubscribe(s)
	oldField.Dispose()
	s.params.Cols, s.params.Rows = cols, rows
	s.history = nil
	s.lastRecord = 0
	return nil
}

// Dispose releases the field. The simulation must not be used afterwards.
func (s *Simulation) Dispose() {
	s.geom.Unsubscribe(s.field)
	s.geom.Unsubscribe(s)
	s.field.Dispose()
	s.sources = nil
	s.probes = nil
}
