package fdtd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestNewSourceRejectsWalls(t *testing.T) {
	g, _ := NewGeometry(20, 12)
	g.Build(Layout{WidthRatio: 1, HeightRatio: 1})
	clock := NewClock(2, 20, 343, 1.2)

	_, err := NewSource(g, clock, 0, 5, NewSignal(SignalImpulse, 500, 1))
	assert.Error(t, err)
	_, err = NewSource(g, clock, 25, 5, NewSignal(SignalImpulse, 500, 1))
	assert.Error(t, err)

	s, err := NewSource(g, clock, 5, 5, NewSignal(SignalImpulse, 500, 1))
	require.NoError(t, err)
	x, y := s.Position()
	assert.Equal(t, 5, x)
	assert.Equal(t, 5, y)
}

func TestSetPositionKeepsSourceOnFailure(t *testing.T) {
	assert := assert.New(t)
	g, _ := NewGeometry(20, 12)
	g.Build(Layout{WidthRatio: 1, HeightRatio: 1})
	s, err := NewSource(g, NewClock(2, 20, 343, 1.2), 5, 5, NewSignal(SignalSine, 100, 1))
	require.NoError(t, err)

	assert.False(s.SetPosition(0, 0))
	assert.False(s.SetPosition(-1, 4))
	x, y := s.Position()
	assert.Equal(5, x)
	assert.Equal(5, y)

	assert.True(s.SetPosition(8, 3))
	x, y = s.Position()
	assert.Equal(8, x)
	assert.Equal(3, y)
}

func TestResolutionAdvisory(t *testing.T) {
	assert := assert.New(t)
	g, _ := NewGeometry(40, 30)
	clock := NewClock(2, 40, 343, 1.2) // 5 cm cells
	s, err := NewSource(g, clock, 10, 10, NewSignal(SignalSine, 200, 1))
	require.NoError(t, err)
	fake := &fakeClock{t: time.Unix(1000, 0)}
	s.now = fake.Now

	_, ok := s.Warning()
	assert.False(ok)

	s.SetFrequency(3000)
	w, ok := s.Warning()
	assert.True(ok)
	assert.Contains(w.Message, "3000 Hz")
	assert.Equal(DefaultWarningDuration, w.Remaining(fake.Now()))

	fake.Advance(2 * time.Second)
	_, ok = s.Warning()
	assert.True(ok)

	fake.Advance(2 * time.Second)
	_, ok = s.Warning()
	assert.False(ok)
	// expiry is decided at query time; the advisory itself is left alone
	assert.NotNil(s.warning)
	fake.Advance(-2 * time.Second)
	_, ok = s.Warning()
	assert.True(ok)
	fake.Advance(2 * time.Second)

	// a resolvable frequency clears an active advisory
	s.SetFrequency(3000)
	_, ok = s.Warning()
	require.True(t, ok)
	s.SetFrequency(200)
	_, ok = s.Warning()
	assert.False(ok)
}

func TestWavelengthCells(t *testing.T) {
	g, _ := NewGeometry(40, 30)
	s, err := NewSource(g, NewClock(2, 40, 343, 1.2), 10, 10, NewSignal(SignalSine, 343, 1))
	require.NoError(t, err)
	assert.InDelta(t, 20.0, s.WavelengthCells(), 1e-9)
}

func TestInactiveSourceInjectsNothing(t *testing.T) {
	g, f := openGrid(t, 10, 10)
	s, err := NewSource(g, NewClock(1, 10, 343, 1.2), 5, 5, NewSignal(SignalSine, 100, 1))
	require.NoError(t, err)

	s.Inject(f, 1e-3)
	assert.Zero(t, f.Peak())
	assert.False(t, s.Active())
}

func TestFirstTickAfterTriggerIsNonZero(t *testing.T) {
	for _, kind := range []SignalKind{SignalImpulse, SignalBurst, SignalSine} {
		g, f := openGrid(t, 20, 20)
		clock := NewClock(2, 20, 343, 1.2)
		s, err := NewSource(g, clock, 10, 10, NewSignal(kind, 200, 1))
		require.NoError(t, err)

		s.Trigger()
		s.Inject(f, clock.Dt)
		assert.NotZero(t, f.Pressure(10, 10), kind.String())
	}
}

func TestBurstDeactivates(t *testing.T) {
	g, f := openGrid(t, 20, 20)
	clock := NewClock(2, 20, 343, 1.2)
	sig := NewSignal(SignalBurst, 1000, 1)
	s, err := NewSource(g, clock, 10, 10, sig)
	require.NoError(t, err)

	s.Trigger()
	ticks := 0
	for s.Active() && ticks < 10000 {
		s.Inject(f, clock.Dt)
		ticks++
	}
	assert.False(t, s.Active())
	assert.InDelta(t, sig.Span()/clock.Dt, float64(ticks), 2)

	// re-triggering restarts from zero
	s.Trigger()
	assert.True(t, s.Active())
	s.Stop()
	assert.False(t, s.Active())
}
