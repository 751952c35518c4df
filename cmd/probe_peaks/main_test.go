package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jdginn/go-room-wave/fdtd"
)

func TestWritePeaks(t *testing.T) {
	var buf bytes.Buffer
	err := WritePeaks(&buf, []fdtd.Arrival{{TimeMS: 0, DB: 0}, {TimeMS: 4.25, DB: -13.979}})
	assert.NoError(t, err)
	assert.Equal(t, "Impulse Response Peaks\n0.000000ms, 0.00dB\n4.250000ms, -13.98dB\n", buf.String())
}
