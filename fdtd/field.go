package fdtd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultEnergyCheckInterval  = 10
	DefaultAnechoicAbsorption   = 0.3
	DefaultMinPressureThreshold = 1e-5

	// The stabilizer never removes more than 5% of the amplitude in one check.
	minDamping = 0.95
)

// StepParams are the physical inputs to a single Advance.
type StepParams struct {
	Dt  float64 // seconds
	Dx  float64 // meters per cell
	C   float64 // speed of sound, m/s
	Rho float64 // density, kg/m^3
	// Fraction of pressure removed per step from cells touching a hard wall
	WallAbsorption float64
	// Fraction of pressure removed per step from every open cell
	AirAbsorption float64
}

// Courant returns c*dt/dx.
func (p StepParams) Courant() float64 {
	return p.C * p.Dt / p.Dx
}

// EnergyState is the result of the most recent stabilizer check.
type EnergyState struct {
	// Advances since construction at the time of the check
	Tick int
	// Number of checks performed since the last reset
	Checks int

	Acoustic float64
	Wall     float64
	// Input and losses over the last interval, divided by its duration
	InputPower     float64
	PowerLossWall  float64
	PowerLossField float64
	// Total energy after any damping was applied
	TotalLastCheck float64
	// Factor applied to both slices at the last check, 1 when none was needed
	Damping float64
}

// Total is the sum of the acoustic and wall energy terms.
func (e EnergyState) Total() float64 {
	return e.Acoustic + e.Wall
}

// FieldState tracks the lifecycle of a Field.
type FieldState int

const (
	FieldUninitialized FieldState = iota
	FieldReady
	FieldStepping
	FieldDisposed
)

func (s FieldState) String() string {
	switch s {
	case FieldUninitialized:
		return "uninitialized"
	case FieldReady:
		return "ready"
	case FieldStepping:
		return "stepping"
	case FieldDisposed:
		return "disposed"
	}
	return fmt.Sprintf("FieldState(%d)", int(s))
}

// Field is the pressure state of the simulation over three time slices.
//
// Field is not safe for concurrent use. The wall mask passed to Advance must not change while
// Advance runs.
type Field struct {
	cols, rows int
	curr       []float64
	prev       []float64
	next       []float64

	threshold          float64
	anechoicAbsorption float64
	checkInterval      int

	// Cached per-cell adjacency to a hard wall, rebuilt when the geometry changes
	wallAdjacent []bool
	cacheDirty   bool

	state FieldState

	// Accumulated since the last check
	sinceCheck int
	inputE     float64
	lossWallE  float64
	lossFieldE float64
	// The last-check total is unknown after the field was seeded by hand
	staleBaseline bool

	steps  int
	c, rho float64
	energy EnergyState
}

// NewField allocates a zeroed field. minPressureThreshold values of zero or less select
// DefaultMinPressureThreshold.
func NewField(cols, rows int, minPressureThreshold float64) (*Field, error) {
	if cols < 3 || rows < 3 {
		return nil, fmt.Errorf("%dx%d: %w", cols, rows, ErrGridTooSmall)
	}
	if minPressureThreshold <= 0 {
		minPressureThreshold = DefaultMinPressureThreshold
	}
	n := cols * rows
	return &Field{
		cols:               cols,
		rows:               rows,
		curr:               make([]float64, n),
		prev:               make([]float64, n),
		next:               make([]float64, n),
		threshold:          minPressureThreshold,
		anechoicAbsorption: DefaultAnechoicAbsorption,
		checkInterval:      DefaultEnergyCheckInterval,
		cacheDirty:         true,
		c:                  343,
		rho:                1.2,
		energy:             EnergyState{Damping: 1},
	}, nil
}

func (f *Field) Cols() int { return f.cols }
func (f *Field) Rows() int { return f.rows }
func (f *Field) State() FieldState { return f.state }

// SetEnergyCheckInterval sets how many advances pass between stabilizer checks.
func (f *Field) SetEnergyCheckInterval(n int) {
	if n < 1 {
		n = 1
	}
	f.checkInterval = n
}

// SetAnechoicAbsorption sets the per-step absorption of anechoic cells, clamped to [0, 1].
func (f *Field) SetAnechoicAbsorption(a float64) {
	f.anechoicAbsorption = clampUnit(a)
}

// GeometryChanged zeroes any cell that became a wall and marks the adjacency cache stale.
// The cache is rebuilt on the next Advance.
func (f *Field) GeometryChanged(g *Geometry) {
	f.cacheDirty = true
	if f.curr == nil {
		return
	}
	for i, c := range g.Cells() {
		if c == Wall {
			f.curr[i], f.prev[i], f.next[i] = 0, 0, 0
		}
	}
}

// Reset zeroes every slice and the energy bookkeeping.
func (f *Field) Reset() {
	for i := range f.curr {
		f.curr[i] = 0
		f.prev[i] = 0
		f.next[i] = 0
	}
	f.sinceCheck = 0
	f.inputE, f.lossWallE, f.lossFieldE = 0, 0, 0
	f.staleBaseline = false
	f.energy = EnergyState{Tick: f.steps, Damping: 1}
	f.state = FieldReady
}

// Dispose releases the backing storage. The field must not be used afterwards.
func (f *Field) Dispose() {
	f.curr, f.prev, f.next = nil, nil, nil
	f.wallAdjacent = nil
	f.state = FieldDisposed
}

func (f *Field) index(x, y int) (int, bool) {
	if x < 0 || x >= f.cols || y < 0 || y >= f.rows {
		return 0, false
	}
	return x + y*f.cols, true
}

// Pressure returns the current pressure at a cell, or 0 outside the grid.
func (f *Field) Pressure(x, y int) float64 {
	if idx, ok := f.index(x, y); ok {
		return f.curr[idx]
	}
	return 0
}

// Velocity approximates the particle velocity magnitude at a cell as |grad p| / (rho c),
// using a central difference over the current slice. It returns 0 outside the grid.
func (f *Field) Velocity(x, y int) float64 {
	if _, ok := f.index(x, y); !ok {
		return 0
	}
	gx := (f.Pressure(x+1, y) - f.Pressure(x-1, y)) / 2
	gy := (f.Pressure(x, y+1) - f.Pressure(x, y-1)) / 2
	return math.Hypot(gx, gy) / (f.rho * f.c)
}

// Peak returns the largest absolute pressure in the current slice.
func (f *Field) Peak() float64 {
	if len(f.curr) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(f.curr)), math.Abs(floats.Min(f.curr)))
}

// Current returns the current pressure slice, indexed x + y*cols. It must not be modified.
func (f *Field) Current() []float64 {
	return f.curr
}

// Set places a pressure value at rest at a cell: both the current and previous slices get v.
// Wall cells are left at zero. The next stabilizer check only records a new baseline.
func (f *Field) Set(g *Geometry, x, y int, v float64) {
	idx, ok := f.index(x, y)
	if !ok || g.IsWall(x, y) {
		return
	}
	f.curr[idx] = v
	f.prev[idx] = v
	f.staleBaseline = true
}

// Energy returns the state computed at the most recent stabilizer check.
func (f *Field) Energy() EnergyState {
	return f.energy
}

// TotalEnergy measures the acoustic and wall energy of the current slice right now.
func (f *Field) TotalEnergy(g *Geometry) float64 {
	f.ensureCache(g)
	acoustic, wall := f.measure(g.Cells())
	return acoustic + wall
}

func (f *Field) ensureCache(g *Geometry) {
	if !f.cacheDirty && len(f.wallAdjacent) == len(f.curr) {
		return
	}
	cells := g.Cells()
	if len(f.wallAdjacent) != len(cells) {
		f.wallAdjacent = make([]bool, len(cells))
	}
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.cols; x++ {
			idx := x + y*f.cols
			if cells[idx] == Wall {
				f.wallAdjacent[idx] = false
				// Cells painted into walls drop their pressure immediately.
				f.curr[idx], f.prev[idx], f.next[idx] = 0, 0, 0
				continue
			}
			f.wallAdjacent[idx] = hardWall(g, x+1, y) || hardWall(g, x-1, y) ||
				hardWall(g, x, y+1) || hardWall(g, x, y-1)
		}
	}
	f.cacheDirty = false
	if f.state == FieldUninitialized {
		f.state = FieldReady
	}
}

// hardWall reports an in-grid Wall cell. The exterior of the grid is handled by the
// absorbing boundary instead.
func hardWall(g *Geometry, x, y int) bool {
	return g.InBounds(x, y) && g.Classify(x, y) == Wall
}

// Advance steps the field forward by one time step.
func (f *Field) Advance(g *Geometry, p StepParams) {
	f.ensureCache(g)
	f.state = FieldStepping
	f.c, f.rho = p.C, p.Rho

	cells := g.Cells()
	cols := f.cols
	gamma := p.Courant()
	g2 := gamma * gamma
	keepWall := 1 - clampUnit(p.WallAbsorption)
	keepAir := 1 - clampUnit(p.AirAbsorption)
	keepAnechoic := 1 - f.anechoicAbsorption

	curr, prev, next := f.curr, f.prev, f.next
	for y := 1; y < f.rows-1; y++ {
		base := y * cols
		for x := 1; x < cols-1; x++ {
			i := base + x
			if cells[i] == Wall {
				next[i] = 0
				continue
			}
			c := curr[i]
			lap := curr[i-1] + curr[i+1] + curr[i-cols] + curr[i+cols] - 4*c
			v := 2*c - prev[i] + g2*lap

			if f.wallAdjacent[i] {
				a := v * keepWall
				f.lossWallE += 0.5 * (v*v - a*a)
				v = a
			}
			a := v * keepAir
			if cells[i] == Anechoic {
				a *= keepAnechoic
			}
			f.lossFieldE += 0.5 * (v*v - a*a)
			next[i] = a
		}
	}

	f.absorbEdges(cells, gamma, keepWall, keepAir, keepAnechoic)

	thr := f.threshold
	for i, v := range next {
		if v < thr && v > -thr {
			next[i] = 0
		}
	}

	f.prev, f.curr, f.next = curr, next, prev
	verifyField(cells, f.curr)
	f.steps++
	f.sinceCheck++
	if f.sinceCheck >= f.checkInterval {
		f.stabilize(cells, p.Dt)
	}
}

// absorbEdges applies the first-order Mur condition to the outer ring of cells, followed by the
// same wall and air absorption as the interior. It must run after the interior pass so the inner
// neighbours of next are available.
func (f *Field) absorbEdges(cells []Cell, gamma, keepWall, keepAir, keepAnechoic float64) {
	coeff := (gamma - 1) / (gamma + 1)
	cols, rows := f.cols, f.rows
	curr, next := f.curr, f.next
	mur := func(edge, inner int) {
		if cells[edge] == Wall {
			next[edge] = 0
			return
		}
		v := curr[inner] + coeff*(next[inner]-curr[edge])
		if f.wallAdjacent[edge] {
			a := v * keepWall
			f.lossWallE += 0.5 * (v*v - a*a)
			v = a
		}
		a := v * keepAir
		if cells[edge] == Anechoic {
			a *= keepAnechoic
		}
		f.lossFieldE += 0.5 * (v*v - a*a)
		next[edge] = a
	}
	for y := 1; y < rows-1; y++ {
		base := y * cols
		mur(base, base+1)
		mur(base+cols-1, base+cols-2)
	}
	last := (rows - 1) * cols
	for x := 0; x < cols; x++ {
		mur(x, x+cols)
		mur(last+x, last-cols+x)
	}
}

// cellEnergy returns the acoustic and wall energy terms of one cell in the current slice.
func (f *Field) cellEnergy(cells []Cell, x, y int) (acoustic, wall float64) {
	idx := x + y*f.cols
	if cells[idx] == Wall {
		return 0, 0
	}
	p := f.curr[idx]
	if x > 0 && x < f.cols-1 && y > 0 && y < f.rows-1 {
		gx := (f.curr[idx+1] - f.curr[idx-1]) / 2
		gy := (f.curr[idx+f.cols] - f.curr[idx-f.cols]) / 2
		acoustic = 0.5 * (p*p + gx*gx + gy*gy)
	}
	if f.wallAdjacent[idx] {
		wall = 0.5 * p * p
	}
	return acoustic, wall
}

func (f *Field) measure(cells []Cell) (acoustic, wall float64) {
	for y := 0; y < f.rows; y++ {
		for x := 0; x < f.cols; x++ {
			a, w := f.cellEnergy(cells, x, y)
			acoustic += a
			wall += w
		}
	}
	return acoustic, wall
}

// localEnergy sums the energy terms in the square of the given radius around (cx, cy).
func (f *Field) localEnergy(cells []Cell, cx, cy, radius int) float64 {
	total := 0.0
	for y := max(cy-radius, 0); y <= min(cy+radius, f.rows-1); y++ {
		for x := max(cx-radius, 0); x <= min(cx+radius, f.cols-1); x++ {
			a, w := f.cellEnergy(cells, x, y)
			total += a + w
		}
	}
	return total
}

// stabilize compares the change in field energy over the last interval with the balance of
// input and measured losses, and damps both slices when the scheme produced extra energy.
func (f *Field) stabilize(cells []Cell, dt float64) {
	acoustic, wall := f.measure(cells)
	total := acoustic + wall
	predicted := f.inputE - f.lossWallE - f.lossFieldE
	damping := 1.0

	if total > 0 && !f.staleBaseline {
		delta := total - f.energy.TotalLastCheck
		if delta > predicted {
			damping = math.Max(minDamping, math.Min(1, 1-(delta-predicted)/total))
		}
	}
	if damping < 1 {
		floats.Scale(damping, f.curr)
		floats.Scale(damping, f.prev)
		d2 := damping * damping
		acoustic *= d2
		wall *= d2
	}

	interval := float64(f.sinceCheck) * dt
	if interval <= 0 {
		interval = 1
	}
	f.energy = EnergyState{
		Tick:           f.steps,
		Checks:         f.energy.Checks + 1,
		Acoustic:       acoustic,
		Wall:           wall,
		InputPower:     f.inputE / interval,
		PowerLossWall:  f.lossWallE / interval,
		PowerLossField: f.lossFieldE / interval,
		TotalLastCheck: acoustic + wall,
		Damping:        damping,
	}
	f.sinceCheck = 0
	f.inputE, f.lossWallE, f.lossFieldE = 0, 0, 0
	f.staleBaseline = false
}

// footprint spreads an injected value over the 3x3 neighbourhood of the source cell. Writing
// into both time slices keeps a single-cell impulse from exciting directional artifacts.
var footprint = [...]struct {
	dx, dy     int
	curr, prev float64
}{
	{0, 0, 1, 0.9},
	{1, 0, 0.5, 0.45},
	{-1, 0, 0.5, 0.45},
	{0, 1, 0.5, 0.45},
	{0, -1, 0.5, 0.45},
	{1, 1, 0.35, 0.315},
	{-1, 1, 0.35, 0.315},
	{1, -1, 0.35, 0.315},
	{-1, -1, 0.35, 0.315},
}

// Inject adds value around (x, y). Neighbours outside the grid or on walls receive nothing.
// The energy it adds is booked as input for the stabilizer.
func (f *Field) Inject(g *Geometry, x, y int, value float64) {
	if value == 0 {
		return
	}
	f.ensureCache(g)
	cells := g.Cells()
	before := f.localEnergy(cells, x, y, 2)
	for _, o := range footprint {
		idx, ok := f.index(x+o.dx, y+o.dy)
		if !ok || cells[idx] == Wall {
			continue
		}
		f.curr[idx] += o.curr * value
		f.prev[idx] += o.prev * value
	}
	f.inputE += f.localEnergy(cells, x, y, 2) - before
}
