package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-room-wave/fdtd"
)

func testSimulation(t *testing.T) *fdtd.Simulation {
	t.Helper()
	p := fdtd.DefaultParams()
	p.Cols, p.Rows, p.Width = 40, 30, 4
	p.Layout = &fdtd.Layout{WidthRatio: 1, HeightRatio: 1}
	p.Sources = []fdtd.SourceParams{{X: 0.5, Y: 0.5, Signal: fdtd.NewSignal(fdtd.SignalSine, 300, 1)}}
	p.Probes = []fdtd.ProbeParams{{Name: "mic", X: 0.25, Y: 0.25}}
	s, err := fdtd.NewSimulation(p)
	require.NoError(t, err)
	return s
}

func TestPressureColor(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(color.RGBA{A: 255}, PressureColor(0, 1))
	assert.Equal(color.RGBA{A: 255}, PressureColor(0.5, 0))

	pos := PressureColor(1, 1)
	assert.Equal(uint8(255), pos.R)
	assert.Zero(pos.B)

	neg := PressureColor(-2, 1)
	assert.Equal(uint8(255), neg.B)
	assert.Zero(neg.R)

	assert.Less(PressureColor(0.1, 1).R, pos.R)
}

func TestFieldPixels(t *testing.T) {
	s := testSimulation(t)
	buf := make([]byte, 4*40*30)
	FieldPixels(s, 0, buf)

	// corner cell is a wall
	assert.Equal(t, []byte{WallColor.R, WallColor.G, WallColor.B, 255}, buf[0:4])
	// quiet interior
	i := 4 * (10 + 10*40)
	assert.Equal(t, []byte{0, 0, 0, 255}, buf[i:i+4])
}

func TestFieldViewDraw(t *testing.T) {
	s := testSimulation(t)
	s.TriggerImpulse()
	s.Run(30)

	img := FieldView{Scale: 4}.Draw(s)
	b := img.Bounds()
	assert.Equal(t, 160, b.Dx())
	assert.Equal(t, 120, b.Dy())

	r, g, bl, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(WallColor.R)*0x101, r)
	assert.Equal(t, uint32(WallColor.G)*0x101, g)
	assert.Equal(t, uint32(WallColor.B)*0x101, bl)

	// the source marker is drawn over the field
	sx, sy := s.SourcePosition()
	r, g, _, _ = img.At(sx*4+2, sy*4+2).RGBA()
	assert.Equal(t, uint32(SourceColor.R)*0x101, r)
	assert.Equal(t, uint32(SourceColor.G)*0x101, g)

	path := filepath.Join(t.TempDir(), "field.png")
	require.NoError(t, SavePNG(path, img))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestEnergyPlot(t *testing.T) {
	_, err := EnergyPlot(nil, 1e-4)
	assert.Error(t, err)

	s := testSimulation(t)
	s.TriggerImpulse()
	s.Run(50)
	require.NotEmpty(t, s.History())

	p, err := EnergyPlot(s.History(), s.Clock().Dt)
	require.NoError(t, err)
	assert.Equal(t, "Field energy", p.Title.Text)

	path := filepath.Join(t.TempDir(), "energy.png")
	require.NoError(t, SavePlot(p, path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestProbePlot(t *testing.T) {
	s := testSimulation(t)
	_, err := ProbePlot(s.Probes()[0], 6, -30)
	assert.Error(t, err)

	s.TriggerImpulse()
	s.Run(80)
	p, err := ProbePlot(s.Probes()[0], 6, -30)
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "mic")
	require.NoError(t, SavePlot(p, filepath.Join(t.TempDir(), "mic.png")))
}
