package config

// ExperimentConfig represents the complete configuration for a wave simulation run
type ExperimentConfig struct {
	Metadata          Metadata           `yaml:"metadata"`
	Grid              Grid               `yaml:"grid"`
	Physics           Physics            `yaml:"physics"`
	Materials         Materials          `yaml:"materials"`
	Layout            Layout             `yaml:"layout"`
	Sources           []Source           `yaml:"sources"`
	Probes            []Probe            `yaml:"probes,omitempty"`
	ListeningTriangle *ListeningTriangle `yaml:"listening_triangle,omitempty"`
	Simulation        Simulation         `yaml:"simulation"`
}

type Metadata struct {
	Timestamp string `yaml:"timestamp"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit"`
}

type Grid struct {
	Cols  int     `yaml:"cols"`
	Rows  int     `yaml:"rows"`
	Width float64 `yaml:"width_m"` // Physical width of the grid in meters
}

type Physics struct {
	SpeedOfSound         float64 `yaml:"speed_of_sound,omitempty"` // m/s
	Density              float64 `yaml:"density,omitempty"`        // kg/m^3
	MinPressureThreshold float64 `yaml:"min_pressure_threshold,omitempty"`
	EnergyCheckInterval  int     `yaml:"energy_check_interval,omitempty"`
	AirAbsorption        float64 `yaml:"air_absorption"`
	AnechoicAbsorption   float64 `yaml:"anechoic_absorption,omitempty"`
	WallMaterial         string  `yaml:"wall_material"` // name of a material
}

type Materials struct {
	Inline   map[string]Material `yaml:"inline,omitempty"`
	FromFile string              `yaml:"from_file,omitempty"`
}

type Material struct {
	Absorption float64 `yaml:"absorption"`
}

type Layout struct {
	// Leave the grid without rooms
	Open             bool       `yaml:"open,omitempty"`
	WidthRatio       float64    `yaml:"width_ratio"`
	HeightRatio      float64    `yaml:"height_ratio"`
	CorridorRatio    float64    `yaml:"corridor_ratio"`
	MarginRatio      float64    `yaml:"margin_ratio"`
	AnechoicExterior bool       `yaml:"anechoic_exterior,omitempty"`
	FloorPlan        *FloorPlan `yaml:"floor_plan,omitempty"`
}

type FloorPlan struct {
	Path        string  `yaml:"path"`
	SliceHeight float64 `yaml:"slice_height"` // meters above the floor
	// Position of grid cell (0, 0) in mesh meters; defaults to the mesh minimum
	Origin *[2]float64 `yaml:"origin,omitempty"`
}

type Source struct {
	Position [2]float64 `yaml:"position"` // normalized to [0, 1]
	Signal   Signal     `yaml:"signal"`
}

type Signal struct {
	Type        string              `yaml:"type"` // impulse, burst, sine or shaped
	FrequencyHz float64             `yaml:"frequency_hz"`
	Amplitude   float64             `yaml:"amplitude"`
	Cycles      float64             `yaml:"cycles,omitempty"`
	Envelope    map[float64]float64 `yaml:"envelope,omitempty"` // ms -> gain
}

type Probe struct {
	Name     string     `yaml:"name"`
	Position [2]float64 `yaml:"position"` // normalized to [0, 1]
}

type ListeningTriangle struct {
	ReferencePosition  [2]float64 `yaml:"reference_position"` // meters
	DistanceFromFront  float64    `yaml:"distance_from_front"`
	DistanceFromCenter float64    `yaml:"distance_from_center"`
	Signal             Signal     `yaml:"signal"`
}

type Simulation struct {
	Ticks          int     `yaml:"ticks"`
	SnapshotEvery  int     `yaml:"snapshot_every,omitempty"`
	ImageScale     int     `yaml:"image_scale,omitempty"`
	WarningSeconds float64 `yaml:"warning_seconds,omitempty"`
}
