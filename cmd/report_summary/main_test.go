package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-room-wave/fdtd"
)

func TestClusterArrivals(t *testing.T) {
	assert.Nil(t, ClusterArrivals(nil, 0.05, 4))

	got := ClusterArrivals([]fdtd.ArrivalJSON{
		{TimeMS: 3.0, DB: -12},
		{TimeMS: 0, DB: 0},
		{TimeMS: 3.04, DB: -10},
		{TimeMS: 3.08, DB: -30},
	}, 0.05, 4)
	require.Len(t, got, 3)
	assert.Equal(t, fdtd.ArrivalJSON{TimeMS: 0, DB: 0}, got[0])
	assert.Equal(t, fdtd.ArrivalJSON{TimeMS: 3.04, DB: -10}, got[1])
	assert.Equal(t, fdtd.ArrivalJSON{TimeMS: 3.08, DB: -30}, got[2])
}

func TestSummarize(t *testing.T) {
	var buf bytes.Buffer
	Summarize(&buf, fdtd.Report{
		Cols: 40, Rows: 30, Dx: 0.1, Dt: 2e-4, Ticks: 20,
		Warnings: []string{"too high"},
		Energy:   []fdtd.EnergyJSON{{Tick: 20, TimeMS: 4, Acoustic: 1, Damping: 1}},
		Probes:   []fdtd.ProbeJSON{{Name: "mic", X: 1, Y: 2, Arrivals: []fdtd.ArrivalJSON{{TimeMS: 1, DB: -3}}}},
	})
	out := buf.String()
	assert.Contains(t, out, "40x30 cells")
	assert.Contains(t, out, "warning: too high\n")
	assert.Contains(t, out, "damping 1.0000")
	assert.Contains(t, out, "mic (1, 2)\n  1.000000ms, -3.00dB\n")
}
