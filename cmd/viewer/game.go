package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/jdginn/go-room-wave/fdtd"
	"github.com/jdginn/go-room-wave/render"
)

const (
	brushRadius   = 1
	grabDistance  = 3
	absorbStep    = 0.05
	frequencyStep = 1.122462048309373 // a sixth of an octave
)

// Game drives the simulation from the ebiten loop. Update advances the simulation and handles
// input; Draw only reads its state.
type Game struct {
	sim    *fdtd.Simulation
	steps  int
	pixels []byte

	dragging int // index of the source being dragged, -1 for none
	paused   bool
	// Resolution the simulation was created at, for toggling
	fullCols, fullRows int
}

func newGame(sim *fdtd.Simulation, steps int) *Game {
	g := &Game{
		sim:      sim,
		steps:    max(steps, 1),
		dragging: -1,
		fullCols: sim.Geometry().Cols(),
		fullRows: sim.Geometry().Rows(),
	}
	g.allocate()
	return g
}

func (g *Game) allocate() {
	geom := g.sim.Geometry()
	g.pixels = make([]byte, 4*geom.Cols()*geom.Rows())
}

func (g *Game) frequency() float64 {
	if len(g.sim.Sources()) == 0 {
		return 0
	}
	return g.sim.Sources()[0].Signal().Frequency
}

func (g *Game) handleMouse() {
	x, y := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if i, ok := g.sim.NearestSource(x, y, grabDistance); ok {
			g.dragging = i
		} else {
			g.sim.SetSourcePosition(x, y)
		}
	}
	if g.dragging >= 0 {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.sim.MoveSource(g.dragging, x, y)
		} else {
			g.dragging = -1
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		cell := fdtd.Wall
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			cell = fdtd.Open
		}
		g.sim.Geometry().Paint(x, y, brushRadius, cell)
	}
}

func (g *Game) toggleResolution() error {
	cols, rows := g.fullCols, g.fullRows
	if g.sim.Geometry().Cols() == g.fullCols {
		cols, rows = g.fullCols/2, g.fullRows/2
	}
	if err := g.sim.Resize(cols, rows); err != nil {
		return err
	}
	g.allocate()
	return nil
}

func (g *Game) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.sim.TriggerImpulse()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		g.sim.SetFrequency(g.frequency() * frequencyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		g.sim.SetFrequency(g.frequency() / frequencyStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.sim.SetWallAbsorption(g.sim.WallAbsorption() + absorbStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.sim.SetWallAbsorption(g.sim.WallAbsorption() - absorbStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		x, y := ebiten.CursorPosition()
		g.sim.AddSource(x, y)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		x, y := ebiten.CursorPosition()
		g.sim.AddProbe(fmt.Sprintf("probe%d", len(g.sim.Probes())+1), x, y)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		return g.toggleResolution()
	}
	return nil
}

// Update handles input and advances the simulation.
func (g *Game) Update() error {
	if err := g.handleKeys(); err != nil {
		return err
	}
	g.handleMouse()
	if !g.paused {
		g.sim.Run(g.steps)
	}
	return nil
}

// Draw renders the field, the sources and any active advisory.
func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if len(g.pixels) != 4*b.Dx()*b.Dy() {
		// resized this tick; the screen catches up on the next layout
		return
	}
	render.FieldPixels(g.sim, 0, g.pixels)
	screen.WritePixels(g.pixels)

	for _, p := range g.sim.Probes() {
		screen.Set(p.X, p.Y, render.ProbeColor)
	}
	for i, src := range g.sim.Sources() {
		x, y := src.Position()
		c := color.Color(render.SourceColor)
		if i == g.dragging {
			c = color.White
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				screen.Set(x+dx, y+dy, c)
			}
		}
	}

	msg := fmt.Sprintf("tick %d  %.0f Hz  wall %.2f  damping %.3f",
		g.sim.Ticks(), g.frequency(), g.sim.WallAbsorption(), g.sim.Field().Energy().Damping)
	if g.paused {
		msg += "  [paused]"
	}
	if w, ok := g.sim.Warning(); ok {
		msg += "\n" + w.Message
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Layout reports the logical screen size used by Ebiten: one pixel per cell.
func (g *Game) Layout(_, _ int) (int, int) {
	geom := g.sim.Geometry()
	return geom.Cols(), geom.Rows()
}
