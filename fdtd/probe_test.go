package fdtd

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeStatistics(t *testing.T) {
	assert := assert.New(t)
	p := &Probe{Name: "mic", Interval: 0.001, Samples: []float64{0, 0.5, -2, 1, 0}}

	i, v := p.Peak()
	assert.Equal(2, i)
	assert.Equal(-2.0, v)
	assert.InDelta(math.Sqrt(5.25/5), p.RMS(), 1e-12)
	assert.Greater(p.StdDev(), 0.0)

	// peak plus the next two samples
	assert.InDelta(5.0, p.EnergyOverWindow(2), 1e-12)

	p.Clear()
	i, v = p.Peak()
	assert.Equal(-1, i)
	assert.Zero(v)
	assert.Zero(p.RMS())
	assert.Zero(p.StdDev())
}

func TestProbePeaks(t *testing.T) {
	p := &Probe{Interval: 0.001, Samples: []float64{0, 1, 0.5, 0, 0, 0.2, 0}}
	arrivals := p.Peaks(6, -30)
	require.Len(t, arrivals, 2)

	assert.InDelta(t, 0, arrivals[0].TimeMS, 1e-9)
	assert.InDelta(t, 0, arrivals[0].DB, 1e-9)
	assert.InDelta(t, 4, arrivals[1].TimeMS, 1e-9)
	assert.InDelta(t, 20*math.Log10(0.2), arrivals[1].DB, 1e-9)
	assert.Equal(t, 0.2, arrivals[1].Linear)

	assert.Empty(t, (&Probe{Samples: []float64{0, 0}}).Peaks(6, -30))
}

func TestProbeWriteTo(t *testing.T) {
	p := &Probe{Name: "mic", X: 3, Y: 4, Interval: 0.5, Samples: []float64{0.25, -1, 0}}
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	sc := bufio.NewScanner(&buf)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "* "))
	assert.Contains(t, lines[0], "mic (3, 4)")
	assert.Equal(t, "1 // Peak index", lines[1])
	assert.Equal(t, "3 // Response length", lines[2])
	assert.Equal(t, "0.5 // Sample interval (seconds)", lines[3])
	assert.Equal(t, "* Data start", lines[4])

	v, err := strconv.ParseFloat(lines[6], 64)
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)
}

func TestLinearToDB(t *testing.T) {
	assert.Equal(t, -120.0, LinearToDB(0, -120))
	assert.InDelta(t, -6.0206, LinearToDB(-0.5, -120), 1e-4)
	assert.Equal(t, -40.0, LinearToDB(1e-9, -40))
}

func TestReadProbe(t *testing.T) {
	orig := &Probe{Name: "left ear", X: 7, Y: 2, Interval: 2.5e-4, Samples: []float64{0, 0.125, -0.5, 1e-7}}
	var buf bytes.Buffer
	_, err := orig.WriteTo(&buf)
	require.NoError(t, err)

	got, err := ReadProbe(&buf)
	require.NoError(t, err)
	assert.Equal(t, orig.Name, got.Name)
	assert.Equal(t, 7, got.X)
	assert.Equal(t, 2, got.Y)
	assert.Equal(t, orig.Interval, got.Interval)
	assert.InDeltaSlice(t, orig.Samples, got.Samples, 1e-15)

	_, err = ReadProbe(strings.NewReader("0 // Peak index\n1.0\n"))
	assert.Error(t, err)
	_, err = ReadProbe(strings.NewReader("* Data start\n1.0\n"))
	assert.Error(t, err)
}
