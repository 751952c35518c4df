package interact

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jdginn/go-room-wave/fdtd"
)

// Characters from quiet to loud.
const ramp = " .:-=+*#%@"

var (
	wallStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	probeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// glyph is one character of the frame before styling.
type glyph struct {
	r     rune
	style *lipgloss.Style
}

// Shade picks the ramp character for a pressure relative to clip.
func Shade(p, clip float64) rune {
	if clip <= 0 || p == 0 {
		return ' '
	}
	v := math.Min(math.Abs(p)/clip, 1)
	i := int(math.Round(math.Sqrt(v) * float64(len(ramp)-1)))
	return rune(ramp[i])
}

// block returns the loudest pressure in the cells [x0, x1) x [y0, y1) and whether any of them
// is a wall.
func block(g *fdtd.Geometry, f *fdtd.Field, x0, y0, x1, y1 int) (float64, bool) {
	loudest, wall := 0.0, false
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.IsWall(x, y) {
				wall = true
				continue
			}
			if p := f.Pressure(x, y); math.Abs(p) > math.Abs(loudest) {
				loudest = p
			}
		}
	}
	return loudest, wall
}

// Frame draws the simulation into at most width x height characters.
func Frame(s *fdtd.Simulation, width, height int, styled bool) string {
	g, f := s.Geometry(), s.Field()
	if width < 1 || height < 1 {
		return ""
	}
	sx := max(1, (g.Cols()+width-1)/width)
	sy := max(1, (g.Rows()+height-1)/height)
	w := (g.Cols() + sx - 1) / sx
	h := (g.Rows() + sy - 1) / sy
	clip := f.Peak()

	grid := make([][]glyph, h)
	for cy := 0; cy < h; cy++ {
		grid[cy] = make([]glyph, w)
		for cx := 0; cx < w; cx++ {
			p, wall := block(g, f, cx*sx, cy*sy, min((cx+1)*sx, g.Cols()), min((cy+1)*sy, g.Rows()))
			switch {
			case wall && sx*sy == 1:
				grid[cy][cx] = glyph{'█', &wallStyle}
			case wall && p == 0:
				grid[cy][cx] = glyph{'▒', &wallStyle}
			case p > 0:
				grid[cy][cx] = glyph{Shade(p, clip), &positiveStyle}
			default:
				grid[cy][cx] = glyph{Shade(p, clip), &negativeStyle}
			}
		}
	}
	for _, pr := range s.Probes() {
		if pr.Y/sy < h && pr.X/sx < w {
			grid[pr.Y/sy][pr.X/sx] = glyph{'+', &probeStyle}
		}
	}
	for _, src := range s.Sources() {
		x, y := src.Position()
		grid[y/sy][x/sx] = glyph{'O', &sourceStyle}
	}

	var b strings.Builder
	for cy, row := range grid {
		if cy > 0 {
			b.WriteByte('\n')
		}
		if !styled {
			for _, gl := range row {
				b.WriteRune(gl.r)
			}
			continue
		}
		// style runs, not single characters
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].style == row[start].style {
				continue
			}
			var run strings.Builder
			for _, gl := range row[start:i] {
				run.WriteRune(gl.r)
			}
			b.WriteString(row[start].style.Render(run.String()))
			start = i
		}
	}
	return b.String()
}
