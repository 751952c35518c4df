package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/jdginn/go-room-wave/fdtd"
)

// Scene is the part of a simulation that can be drawn.
type Scene interface {
	Geometry() *fdtd.Geometry
	Field() *fdtd.Field
	Sources() []*fdtd.Source
	Probes() []*fdtd.Probe
}

var (
	WallColor     = color.RGBA{200, 200, 200, 255}
	AnechoicColor = color.RGBA{24, 24, 32, 255}
	SourceColor   = color.RGBA{255, 220, 0, 255}
	ProbeColor    = color.RGBA{0, 230, 120, 255}
)

// PressureColor maps a pressure to red for compression and blue for rarefaction, saturating
// at clip.
func PressureColor(p, clip float64) color.RGBA {
	if clip <= 0 {
		return color.RGBA{A: 255}
	}
	v := math.Min(math.Abs(p)/clip, 1)
	// sqrt keeps small ripples visible
	level := uint8(math.Round(255 * math.Sqrt(v)))
	if p > 0 {
		return color.RGBA{R: level, G: level / 4, A: 255}
	}
	return color.RGBA{G: level / 4, B: level, A: 255}
}

func cellColor(c fdtd.Cell, p, clip float64) color.RGBA {
	switch c {
	case fdtd.Wall:
		return WallColor
	case fdtd.Anechoic:
		col := PressureColor(p, clip)
		col.R = max(col.R, AnechoicColor.R)
		col.G = max(col.G, AnechoicColor.G)
		col.B = max(col.B, AnechoicColor.B)
		return col
	}
	return PressureColor(p, clip)
}

// clipFor returns the pressure that saturates the color map. Zero selects the field peak.
func clipFor(f *fdtd.Field, clip float64) float64 {
	if clip > 0 {
		return clip
	}
	return f.Peak()
}

// FieldPixels writes one RGBA pixel per cell into dst, which must hold 4*cols*rows bytes.
func FieldPixels(s Scene, clip float64, dst []byte) {
	g, f := s.Geometry(), s.Field()
	clip = clipFor(f, clip)
	cells := g.Cells()
	pressure := f.Current()
	for i, c := range cells {
		col := cellColor(c, pressure[i], clip)
		dst[4*i] = col.R
		dst[4*i+1] = col.G
		dst[4*i+2] = col.B
		dst[4*i+3] = col.A
	}
}

// FieldView draws a scene as a heatmap with sources and probes marked.
type FieldView struct {
	// Pixels per cell
	Scale int
	// Pressure mapped to full color; zero uses the current peak
	Clip float64
}

func (v FieldView) Draw(s Scene) image.Image {
	scale := max(v.Scale, 1)
	g := s.Geometry()
	cols, rows := g.Cols(), g.Rows()

	cells := make([]byte, 4*cols*rows)
	FieldPixels(s, v.Clip, cells)

	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	for y := 0; y < rows*scale; y++ {
		row := img.Pix[y*img.Stride:]
		src := cells[(y/scale)*cols*4:]
		for x := 0; x < cols*scale; x++ {
			copy(row[4*x:4*x+4], src[4*(x/scale):])
		}
	}
	c := gg.NewContextForRGBA(img)

	center := func(x, y int) (float64, float64) {
		return (float64(x) + 0.5) * float64(scale), (float64(y) + 0.5) * float64(scale)
	}
	r := math.Max(float64(scale), 2)

	c.SetColor(ProbeColor)
	c.SetLineWidth(1)
	for _, p := range s.Probes() {
		px, py := center(p.X, p.Y)
		c.DrawLine(px-r, py, px+r, py)
		c.DrawLine(px, py-r, px, py+r)
		c.Stroke()
	}

	c.SetColor(SourceColor)
	for _, src := range s.Sources() {
		sx, sy := center(src.Position())
		c.DrawCircle(sx, sy, r)
		if src.Active() {
			c.Fill()
		} else {
			c.Stroke()
		}
	}
	return c.Image()
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}
