package fdtd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListeningTriangleGeometry(t *testing.T) {
	tri := ListeningTriangle{ReferenceX: 0.5, ReferenceY: 3, DistFromFront: 1, DistFromCenter: 1}

	lx, ly := tri.LeftSource()
	rx, ry := tri.RightSource()
	assert.Equal(t, lx, rx)
	assert.InDelta(t, 2.0, ry-ly, 1e-12)

	px, py := tri.ListenPosition()
	assert.InDelta(t, 3.0, py, 1e-12)
	assert.InDelta(t, 1.5+math.Sqrt(3)+ListenDistIntoTriangle, px, 1e-12)
	assert.InDelta(t, math.Hypot(math.Sqrt(3)+ListenDistIntoTriangle, 1), tri.ListenDistance(), 1e-12)
}

func TestListeningTrianglePlace(t *testing.T) {
	assert := assert.New(t)
	p := DefaultParams()
	p.Cols, p.Rows, p.Width = 100, 60, 10
	p.Layout = nil
	p.Sources = nil
	s, err := NewSimulation(p)
	require.NoError(t, err)

	tri := ListeningTriangle{ReferenceX: 0.5, ReferenceY: 3, DistFromFront: 1, DistFromCenter: 1}
	require.True(t, tri.Place(s, NewSignal(SignalBurst, 200, 1)))

	require.Len(t, s.Sources(), 2)
	x, y := s.Sources()[0].Position()
	assert.Equal(15, x)
	assert.Equal(20, y)
	x, y = s.Sources()[1].Position()
	assert.Equal(15, x)
	assert.Equal(40, y)
	assert.Equal(SignalBurst, s.Sources()[1].Signal().Kind)

	require.Len(t, s.Probes(), 1)
	assert.Equal("listener", s.Probes()[0].Name)
	assert.Equal(36, s.Probes()[0].X)
	assert.Equal(30, s.Probes()[0].Y)

	// both sources are the same distance from the listener, so they arrive together
	s.TriggerImpulse()
	s.Run(120)
	i, v := s.Probes()[0].Peak()
	assert.Greater(i, 0)
	assert.NotZero(v)
}

func TestListeningTriangleOutsideGrid(t *testing.T) {
	p := DefaultParams()
	p.Cols, p.Rows, p.Width = 40, 30, 4
	p.Layout = nil
	p.Sources = nil
	s, err := NewSimulation(p)
	require.NoError(t, err)

	tri := ListeningTriangle{ReferenceX: 0.5, ReferenceY: 1.5, DistFromFront: 1, DistFromCenter: 2}
	assert.False(t, tri.Place(s, NewSignal(SignalImpulse, 500, 1)))
}
