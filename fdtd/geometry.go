package fdtd

import (
	"errors"
	"fmt"
	"math"
)

// Cell classifies a single grid cell.
type Cell uint8

const (
	// Open cells propagate waves freely.
	Open Cell = iota
	// Wall cells are hard reflectors. Their pressure is always zero.
	Wall
	// Anechoic cells propagate waves but absorb strongly on every step.
	Anechoic
)

func (c Cell) String() string {
	switch c {
	case Open:
		return "open"
	case Wall:
		return "wall"
	case Anechoic:
		return "anechoic"
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

// ErrGridTooSmall is returned when a grid has no interior ring for the stencil.
var ErrGridTooSmall = errors.New("grid must be at least 3x3 cells")

// GeometryListener is notified after the wall mask changes.
type GeometryListener interface {
	GeometryChanged(g *Geometry)
}

// Layout describes a procedural room layout. All ratios are fractions in [0, 1].
type Layout struct {
	// Fraction of the inner width taken by the first room. The rest becomes a second room
	// when it is at least 3 cells wide.
	WidthRatio float64
	// Fraction of the inner height taken by the rooms
	HeightRatio float64
	// Height of the door in the dividing wall, as a fraction of the room height.
	// Zero closes the door.
	CorridorRatio float64
	// Empty border around the rooms, as a fraction of the smaller grid dimension
	MarginRatio float64
	// Mark everything outside the rooms as anechoic
	AnechoicExterior bool
}

// DefaultLayout is a pair of rooms joined by a door.
var DefaultLayout = Layout{
	WidthRatio:    0.6,
	HeightRatio:   1.0,
	CorridorRatio: 0.25,
	MarginRatio:   0.05,
}

// Geometry holds the cell classification for a cols x rows grid.
type Geometry struct {
	cols, rows int
	cells      []Cell
	listeners  []GeometryListener
}

func NewGeometry(cols, rows int) (*Geometry, error) {
	if cols < 3 || rows < 3 {
		return nil, fmt.Errorf("%dx%d: %w", cols, rows, ErrGridTooSmall)
	}
	return &Geometry{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}, nil
}

func (g *Geometry) Cols() int { return g.cols }
func (g *Geometry) Rows() int { return g.rows }

// Cells returns the classification of every cell, indexed x + y*cols.
// The slice is shared with the geometry and must not be modified.
func (g *Geometry) Cells() []Cell {
	return g.cells
}

func (g *Geometry) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// Classify returns the classification of a cell. Everything outside the grid is Wall.
func (g *Geometry) Classify(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[x+y*g.cols]
}

// IsWall reports whether the coordinates reference a wall cell or lie outside the grid.
func (g *Geometry) IsWall(x, y int) bool {
	return g.Classify(x, y) == Wall
}

// Subscribe registers l to be told about every change to the wall mask.
func (g *Geometry) Subscribe(l GeometryListener) {
	g.listeners = append(g.listeners, l)
}

// Unsubscribe removes l. It is a no-op if l was never registered.
func (g *Geometry) Unsubscribe(l GeometryListener) {
	for i, other := range g.listeners {
		if other == l {
			g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
			return
		}
	}
}

func (g *Geometry) notify() {
	for _, l := range g.listeners {
		l.GeometryChanged(g)
	}
}

// SetCell reclassifies a single cell. Out-of-grid coordinates are ignored.
func (g *Geometry) SetCell(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	idx := x + y*g.cols
	if g.cells[idx] == c {
		return
	}
	g.cells[idx] = c
	g.notify()
}

// Paint classifies every cell within radius of (x, y) and notifies listeners once.
func (g *Geometry) Paint(x, y, radius int, c Cell) {
	changed := false
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			cx, cy := x+dx, y+dy
			if !g.InBounds(cx, cy) {
				continue
			}
			idx := cx + cy*g.cols
			if g.cells[idx] != c {
				g.cells[idx] = c
				changed = true
			}
		}
	}
	if changed {
		g.notify()
	}
}

// Build replaces the wall mask with one or two rooms described by l.
func (g *Geometry) Build(l Layout) {
	for i := range g.cells {
		g.cells[i] = Open
	}

	margin := int(math.Round(clampUnit(l.MarginRatio) * float64(min(g.cols, g.rows))))
	innerW := g.cols - 2*margin
	innerH := g.rows - 2*margin
	if innerW < 3 || innerH < 3 {
		g.notify()
		return
	}

	x0, y0 := margin, margin
	roomW := clampInt(int(math.Round(clampUnit(l.WidthRatio)*float64(innerW))), 3, innerW)
	roomH := clampInt(int(math.Round(clampUnit(l.HeightRatio)*float64(innerH))), 3, innerH)
	y0 += (innerH - roomH) / 2

	if l.AnechoicExterior {
		for y := 0; y < g.rows; y++ {
			for x := 0; x < g.cols; x++ {
				g.cells[x+y*g.cols] = Anechoic
			}
		}
	}

	// The first room always exists. A second room shares the dividing wall at x1.
	x1 := x0 + roomW - 1
	xEnd := x1
	secondRoom := x0+innerW-1-x1 >= 3 && l.WidthRatio < 1
	if secondRoom {
		xEnd = x0 + innerW - 1
	}
	yEnd := y0 + roomH - 1

	g.fillRect(x0, y0, xEnd, yEnd, Open)
	g.strokeRect(x0, y0, x1, yEnd)
	if secondRoom {
		g.strokeRect(x1, y0, xEnd, yEnd)
	}

	door := int(math.Round(clampUnit(l.CorridorRatio) * float64(roomH-2)))
	if door > 0 {
		mid := y0 + roomH/2
		start := mid - door/2
		for y := start; y < start+door; y++ {
			if y > y0 && y < yEnd {
				g.cells[x1+y*g.cols] = Open
			}
		}
	}
	g.notify()
}

func (g *Geometry) fillRect(x0, y0, x1, y1 int, c Cell) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if g.InBounds(x, y) {
				g.cells[x+y*g.cols] = c
			}
		}
	}
}

func (g *Geometry) strokeRect(x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		g.cells[x+y0*g.cols] = Wall
		g.cells[x+y1*g.cols] = Wall
	}
	for y := y0; y <= y1; y++ {
		g.cells[x0+y*g.cols] = Wall
		g.cells[x1+y*g.cols] = Wall
	}
}

// NearestOpen returns the non-wall cell closest to (x, y), searching outward in square rings.
func (g *Geometry) NearestOpen(x, y int) (int, int, bool) {
	x = clampInt(x, 0, g.cols-1)
	y = clampInt(y, 0, g.rows-1)
	maxR := max(g.cols, g.rows)
	for r := 0; r <= maxR; r++ {
		bestX, bestY := -1, -1
		bestD := math.Inf(1)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				cx, cy := x+dx, y+dy
				if !g.InBounds(cx, cy) || g.IsWall(cx, cy) {
					continue
				}
				if d := math.Hypot(float64(dx), float64(dy)); d < bestD {
					bestX, bestY, bestD = cx, cy, d
				}
			}
		}
		if bestX >= 0 {
			return bestX, bestY, true
		}
	}
	return 0, 0, false
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
