package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-room-wave/fdtd"
)

func loadTestConfig(t *testing.T) *ExperimentConfig {
	t.Helper()
	cfg, err := LoadFromFile("testdata/experiment.yaml", LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
	require.NoError(t, err)
	return cfg
}

func TestLoadFromFile(t *testing.T) {
	assert := assert.New(t)
	cfg := loadTestConfig(t)

	assert.Equal(120, cfg.Grid.Cols)
	assert.Equal(80, cfg.Grid.Rows)
	assert.Equal(6.0, cfg.Grid.Width)
	assert.Equal(filepath.Join("testdata", "materials.json"), cfg.Materials.FromFile)
	require.Len(t, cfg.Sources, 1)
	assert.Equal("burst", cfg.Sources[0].Signal.Type)
	assert.Len(cfg.Probes, 2)
	assert.Equal(400, cfg.Simulation.Ticks)
}

func TestMergeMaterialsInlineWins(t *testing.T) {
	cfg := loadTestConfig(t)
	require.Len(t, cfg.Materials.Inline, 3)
	assert.Equal(t, 0.1, cfg.Materials.Inline["drywall"].Absorption)
	assert.Equal(t, 0.85, cfg.Materials.Inline["absorber"].Absorption)
	assert.True(t, cfg.Materials.HasMaterial("concrete"))
	assert.False(t, cfg.Materials.HasMaterial("marble"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile("testdata/nope.yaml", LoadOptions{})
	assert.Error(t, err)
}

func TestLoadInvalidFails(t *testing.T) {
	_, err := LoadFromFile("testdata/invalid.yaml", LoadOptions{ValidateImmediately: true})
	assert.ErrorContains(t, err, "validation errors")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg, err := LoadFromFile("testdata/invalid.yaml", LoadOptions{})
	require.NoError(t, err)

	errs := cfg.Validate()
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{
		"grid",
		"grid.width_m",
		"materials.inline.drywall.absorption",
		"physics.air_absorption",
		"physics.wall_material",
		"sources.0.position.x",
		"sources.0.signal.type",
		"sources.0.signal.frequency_hz",
		"probes.1.name",
		"simulation.ticks",
	} {
		assert.True(t, fields[f], "missing error for %s", f)
	}
	assert.False(t, fields["layout.width_ratio"])
	assert.False(t, fields["probes.0.name"])
}

func TestFormatValidationErrors(t *testing.T) {
	assert.Empty(t, FormatValidationErrors(nil))

	out := FormatValidationErrors([]ValidationError{
		{Field: "grid", Message: "too small"},
		{Field: "physics.density", Message: "must be non-negative"},
		{Field: "grid.width_m", Message: "must be positive"},
	})
	assert.True(t, strings.HasPrefix(out, "Validation Errors:\n"))
	assert.Contains(t, out, "GRID:\n  - general: too small\n  - width_m: must be positive\n")
	assert.Contains(t, out, "PHYSICS:\n  - density: must be non-negative\n")
	assert.Less(t, strings.Index(out, "GRID"), strings.Index(out, "PHYSICS"))
}

func TestValidateFiles(t *testing.T) {
	cfg, err := LoadFromFile("testdata/experiment.yaml", LoadOptions{})
	require.NoError(t, err)
	assert.Empty(t, cfg.ValidateFiles(NewPathResolver("testdata")))

	cfg.Layout.FloorPlan = &FloorPlan{Path: "room.3mf", SliceHeight: 1}
	errs := cfg.ValidateFiles(NewPathResolver("testdata"))
	require.Len(t, errs, 1)
	assert.Equal(t, "layout.floor_plan.path", errs[0].Field)
}

func TestParams(t *testing.T) {
	assert := assert.New(t)
	cfg := loadTestConfig(t)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(120, p.Cols)
	assert.Equal(80, p.Rows)
	assert.Equal(6.0, p.Width)
	assert.Equal(343.0, p.SpeedOfSound)
	assert.Equal(0.1, p.WallAbsorption)
	assert.Equal(0.0005, p.AirAbsorption)
	assert.Equal(5*time.Second, p.WarningDuration)
	require.NotNil(t, p.Layout)
	assert.Equal(0.6, p.Layout.WidthRatio)
	assert.Nil(p.FloorPlan)

	require.Len(t, p.Sources, 1)
	assert.Equal(fdtd.SignalBurst, p.Sources[0].Signal.Kind)
	assert.Equal(4.0, p.Sources[0].Signal.Cycles)
	assert.Equal(300.0, p.Sources[0].Signal.Frequency)
	require.Len(t, p.Probes, 2)
	assert.Equal("corner", p.Probes[1].Name)

	s, err := fdtd.NewSimulation(p)
	require.NoError(t, err)
	assert.Len(s.Probes(), 2)
}

func TestParamsOpenLayoutAndUnknownMaterial(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Layout.Open = true
	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Nil(t, p.Layout)

	cfg.Physics.WallMaterial = "marble"
	_, err = cfg.Params()
	assert.Error(t, err)
}

func TestSignalBuild(t *testing.T) {
	sig, err := Signal{Type: "shaped", FrequencyHz: 200, Envelope: map[float64]float64{0: 0, 5: 1}}.Build()
	require.NoError(t, err)
	assert.Equal(t, fdtd.SignalShaped, sig.Kind)
	assert.Equal(t, 1.0, sig.Amplitude)
	assert.InDelta(t, 0.005, sig.Span(), 1e-12)

	_, err = Signal{Type: "chirp"}.Build()
	assert.Error(t, err)
}

func TestSaveToFileStampsMetadata(t *testing.T) {
	cfg := loadTestConfig(t)
	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, SaveToFile(cfg, path))
	assert.NotEmpty(t, cfg.Metadata.Timestamp)
	assert.NotEmpty(t, cfg.Metadata.GitCommit)

	loaded, err := LoadFromFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, cfg.Metadata, loaded.Metadata)
	assert.Equal(t, cfg.Grid, loaded.Grid)
	assert.Equal(t, cfg.Sources, loaded.Sources)
}

func TestListeningTriangleConversion(t *testing.T) {
	lt := ListeningTriangle{ReferencePosition: [2]float64{0.5, 3}, DistanceFromFront: 1, DistanceFromCenter: 1.2}
	tri := lt.Triangle()
	assert.Equal(t, 0.5, tri.ReferenceX)
	assert.Equal(t, 3.0, tri.ReferenceY)
	assert.Equal(t, 1.2, tri.DistFromCenter)
}

func TestPathResolver(t *testing.T) {
	r := ResolverFor(filepath.Join("testdata", "experiment.yaml"))
	assert.Equal(t, filepath.Join("testdata", "materials.json"), r.ResolvePath("materials.json"))
	assert.Equal(t, "/abs/room.3mf", r.ResolvePath("/abs/room.3mf"))
	assert.Empty(t, r.ResolvePath(""))
	assert.True(t, r.FileExists("materials.json"))
	assert.False(t, NewPathResolver(".").FileExists("testdata"))
}

func TestMergeMaterialsRejectsBadAbsorption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"felt": {"absorption": 0.7}, "mirror": {"absorption": -0.2}}`), 0644))

	// shadowed entries are checked too
	m := Materials{Inline: map[string]Material{"mirror": {Absorption: 0}}, FromFile: path}
	err := m.MergeMaterials()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror")

	require.NoError(t, os.WriteFile(path, []byte(`{"felt": {"absorption": 0.7}}`), 0644))
	m = Materials{FromFile: path}
	require.NoError(t, m.MergeMaterials())
	assert.Equal(t, 0.7, m.Inline["felt"].Absorption)
}
