package fdtd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingListener struct {
	calls int
}

func (c *countingListener) GeometryChanged(*Geometry) { c.calls++ }

func TestNewGeometryTooSmall(t *testing.T) {
	for _, dims := range [][2]int{{2, 10}, {10, 2}, {0, 0}} {
		_, err := NewGeometry(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrGridTooSmall, "%v", dims)
	}
	g, err := NewGeometry(3, 3)
	require.NoError(t, err)
	assert.Len(t, g.Cells(), 9)
}

func TestOutsideGridIsWall(t *testing.T) {
	assert := assert.New(t)
	g, err := NewGeometry(10, 8)
	require.NoError(t, err)

	assert.False(g.IsWall(0, 0))
	assert.False(g.IsWall(9, 7))
	assert.True(g.IsWall(-1, 0))
	assert.True(g.IsWall(10, 0))
	assert.True(g.IsWall(0, 8))
	assert.Equal(Wall, g.Classify(-5, -5))

	g.SetCell(3, 3, Anechoic)
	assert.False(g.IsWall(3, 3))
	assert.Equal(Anechoic, g.Classify(3, 3))
}

func TestBuildTwoRooms(t *testing.T) {
	assert := assert.New(t)
	g, err := NewGeometry(60, 40)
	require.NoError(t, err)
	g.Build(DefaultLayout)

	// margin 2, first room x 2..35, second room x 35..57, y 2..37
	assert.Equal(Open, g.Classify(0, 0))
	assert.Equal(Wall, g.Classify(2, 2))
	assert.Equal(Wall, g.Classify(57, 37))
	assert.Equal(Wall, g.Classify(2, 20))
	assert.Equal(Wall, g.Classify(57, 20))
	assert.Equal(Open, g.Classify(10, 10))
	assert.Equal(Open, g.Classify(45, 10))

	// dividing wall with a door in the middle
	assert.Equal(Wall, g.Classify(35, 5))
	assert.Equal(Wall, g.Classify(35, 34))
	assert.Equal(Open, g.Classify(35, 20))
	assert.Equal(Open, g.Classify(35, 16))
	assert.Equal(Open, g.Classify(35, 24))
}

func TestBuildIsDeterministic(t *testing.T) {
	a, _ := NewGeometry(80, 50)
	b, _ := NewGeometry(80, 50)
	a.Build(DefaultLayout)
	b.Build(DefaultLayout)
	assert.Equal(t, a.Cells(), b.Cells())
}

func TestBuildSingleClosedRoom(t *testing.T) {
	assert := assert.New(t)
	g, _ := NewGeometry(20, 12)
	g.Build(Layout{WidthRatio: 1, HeightRatio: 1})

	for x := 0; x < 20; x++ {
		assert.Equal(Wall, g.Classify(x, 0))
		assert.Equal(Wall, g.Classify(x, 11))
	}
	for y := 0; y < 12; y++ {
		assert.Equal(Wall, g.Classify(0, y))
		assert.Equal(Wall, g.Classify(19, y))
	}
	for y := 1; y < 11; y++ {
		for x := 1; x < 19; x++ {
			assert.Equal(Open, g.Classify(x, y))
		}
	}
}

func TestBuildAnechoicExterior(t *testing.T) {
	g, _ := NewGeometry(40, 40)
	g.Build(Layout{WidthRatio: 1, HeightRatio: 1, MarginRatio: 0.1, AnechoicExterior: true})

	assert.Equal(t, Anechoic, g.Classify(0, 0))
	assert.Equal(t, Anechoic, g.Classify(39, 20))
	assert.Equal(t, Wall, g.Classify(4, 20))
	assert.Equal(t, Open, g.Classify(20, 20))
}

func TestGeometryNotifiesListeners(t *testing.T) {
	assert := assert.New(t)
	g, _ := NewGeometry(10, 10)
	l := &countingListener{}
	g.Subscribe(l)

	g.SetCell(4, 4, Wall)
	assert.Equal(1, l.calls)

	// no change, no event
	g.SetCell(4, 4, Wall)
	assert.Equal(1, l.calls)

	g.Paint(5, 5, 2, Wall)
	assert.Equal(2, l.calls)
	assert.True(g.IsWall(7, 5))
	assert.False(g.IsWall(7, 7))

	g.SetCell(-1, 3, Wall)
	assert.Equal(2, l.calls)

	g.Unsubscribe(l)
	g.SetCell(0, 0, Wall)
	assert.Equal(2, l.calls)
}

func TestNearestOpen(t *testing.T) {
	assert := assert.New(t)
	g, _ := NewGeometry(20, 12)
	g.Build(Layout{WidthRatio: 1, HeightRatio: 1})

	x, y, ok := g.NearestOpen(0, 5)
	assert.True(ok)
	assert.Equal(1, x)
	assert.Equal(5, y)

	x, y, ok = g.NearestOpen(8, 6)
	assert.True(ok)
	assert.Equal(8, x)
	assert.Equal(6, y)

	g.Paint(10, 6, 30, Wall)
	_, _, ok = g.NearestOpen(10, 6)
	assert.False(ok)
}
