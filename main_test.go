package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-room-wave/fdtd/experiment"
)

func TestLoadSimulationPlacesTriangle(t *testing.T) {
	cfg, sim, err := loadSimulation("testdata/small.yaml")
	require.NoError(t, err)
	defer sim.Dispose()

	assert.Equal(t, 40, cfg.Simulation.Ticks)
	require.Len(t, sim.Sources(), 2)
	x, y := sim.Sources()[0].Position()
	assert.Equal(t, 7, x)
	assert.Equal(t, 9, y)

	require.Len(t, sim.Probes(), 2)
	assert.Equal(t, "listener", sim.Probes()[1].Name)
}

func TestValidateCmd(t *testing.T) {
	assert.NoError(t, ValidateCmd{Config: "testdata/small.yaml"}.Run())
	assert.Error(t, ValidateCmd{Config: "fdtd/config/testdata/invalid.yaml"}.Run())
	assert.Error(t, ValidateCmd{Config: "testdata/missing.yaml"}.Run())
}

func TestSimulateCmdWritesRun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, SimulateCmd{Config: "testdata/small.yaml", RunsDir: root}.Run())

	latest := filepath.Join(root, experiment.LatestSymlink)
	for _, name := range []string{
		"small.yaml",
		"report.json",
		"field.png",
		"field_000020.png",
		"field_000040.png",
		"energy.png",
		"corner.txt",
		"listener.txt",
		"listener.png",
	} {
		_, err := os.Stat(filepath.Join(latest, name))
		assert.NoError(t, err, name)
	}
}
