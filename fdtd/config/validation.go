package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jdginn/go-room-wave/fdtd"
)

// Validation helper functions
func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validateNonNegative(field string, value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

func validatePosition(field string, pos [2]float64) []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateInRange(field+".x", pos[0], 0, 1)...)
	errors = append(errors, validateInRange(field+".y", pos[1], 0, 1)...)
	return errors
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatValidationErrors groups errors by config section for display
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	categories := map[string][]ValidationError{}
	var order []string
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		if _, seen := categories[category]; !seen {
			order = append(order, category)
		}
		categories[category] = append(categories[category], err)
	}

	for _, category := range order {
		b.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(category)))
		for _, err := range categories[category] {
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *ExperimentConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Grid.Validate()...)
	errors = append(errors, c.Materials.Validate()...)
	errors = append(errors, c.Physics.Validate(&c.Materials)...)
	errors = append(errors, c.Layout.Validate()...)
	for i, s := range c.Sources {
		errors = append(errors, s.Validate(fmt.Sprintf("sources.%d", i))...)
	}
	errors = append(errors, validateProbes(c.Probes)...)
	if c.ListeningTriangle != nil {
		errors = append(errors, c.ListeningTriangle.Validate()...)
	}
	if len(c.Sources) == 0 && c.ListeningTriangle == nil {
		errors = append(errors, ValidationError{
			Field:   "sources",
			Message: "at least one source or a listening_triangle is required",
		})
	}
	errors = append(errors, c.Simulation.Validate()...)
	return errors
}

// ValidateFiles checks that every referenced file exists
func (c *ExperimentConfig) ValidateFiles(resolver *PathResolver) []ValidationError {
	var errors []ValidationError
	if c.Materials.FromFile != "" && !resolver.FileExists(c.Materials.FromFile) {
		errors = append(errors, ValidationError{
			Field:   "materials.from_file",
			Message: fmt.Sprintf("file %s does not exist", c.Materials.FromFile),
		})
	}
	if fp := c.Layout.FloorPlan; fp != nil && fp.Path != "" && !resolver.FileExists(fp.Path) {
		errors = append(errors, ValidationError{
			Field:   "layout.floor_plan.path",
			Message: fmt.Sprintf("file %s does not exist", fp.Path),
		})
	}
	return errors
}

func (g *Grid) Validate() []ValidationError {
	var errors []ValidationError
	if g.Cols < 3 || g.Rows < 3 {
		errors = append(errors, ValidationError{
			Field:   "grid",
			Message: fmt.Sprintf("%dx%d is smaller than 3x3", g.Cols, g.Rows),
		})
	}
	errors = append(errors, validatePositive("grid.width_m", g.Width)...)
	return errors
}

func (m *Materials) Validate() []ValidationError {
	var errors []ValidationError

	if m.Inline == nil && m.FromFile == "" {
		errors = append(errors, ValidationError{
			Field:   "materials",
			Message: "either inline or from_file must be specified",
		})
		return errors
	}

	names := make([]string, 0, len(m.Inline))
	for name := range m.Inline {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if a := m.Inline[name].Absorption; a < 0 || a > 1 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("materials.inline.%s.absorption", name),
				Message: "absorption coefficient must be between 0.0 and 1.0",
			})
		}
	}

	return errors
}

// Validate checks physical constants. Zero values select the engine defaults.
func (p *Physics) Validate(materials *Materials) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateNonNegative("physics.speed_of_sound", p.SpeedOfSound)...)
	errors = append(errors, validateNonNegative("physics.density", p.Density)...)
	errors = append(errors, validateNonNegative("physics.min_pressure_threshold", p.MinPressureThreshold)...)
	errors = append(errors, validateNonNegative("physics.energy_check_interval", float64(p.EnergyCheckInterval))...)
	errors = append(errors, validateInRange("physics.air_absorption", p.AirAbsorption, 0, 1)...)
	errors = append(errors, validateInRange("physics.anechoic_absorption", p.AnechoicAbsorption, 0, 1)...)

	if p.WallMaterial == "" {
		errors = append(errors, ValidationError{
			Field:   "physics.wall_material",
			Message: "wall material is required",
		})
	} else if materials.Inline != nil && !materials.HasMaterial(p.WallMaterial) {
		// Materials from a file are only known after merging.
		errors = append(errors, ValidationError{
			Field:   "physics.wall_material",
			Message: fmt.Sprintf("references undefined material '%s'", p.WallMaterial),
		})
	}

	return errors
}

func (l *Layout) Validate() []ValidationError {
	var errors []ValidationError

	if !l.Open {
		errors = append(errors, validateInRange("layout.width_ratio", l.WidthRatio, 0, 1)...)
		errors = append(errors, validateInRange("layout.height_ratio", l.HeightRatio, 0, 1)...)
		errors = append(errors, validateInRange("layout.corridor_ratio", l.CorridorRatio, 0, 1)...)
		errors = append(errors, validateInRange("layout.margin_ratio", l.MarginRatio, 0, 0.5)...)
	}

	if fp := l.FloorPlan; fp != nil {
		if fp.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "layout.floor_plan.path",
				Message: "floor plan path is required",
			})
		}
		errors = append(errors, validatePositive("layout.floor_plan.slice_height", fp.SliceHeight)...)
	}

	return errors
}

func (s *Signal) Validate(field string) []ValidationError {
	var errors []ValidationError

	kind, err := fdtd.ParseSignalKind(s.Type)
	if err != nil {
		errors = append(errors, ValidationError{Field: field + ".type", Message: err.Error()})
	}
	errors = append(errors, validatePositive(field+".frequency_hz", s.FrequencyHz)...)
	errors = append(errors, validateNonNegative(field+".cycles", s.Cycles)...)
	if err == nil && kind == fdtd.SignalShaped && len(s.Envelope) < 2 {
		errors = append(errors, ValidationError{
			Field:   field + ".envelope",
			Message: "shaped signals need at least two envelope points",
		})
	}
	for ms := range s.Envelope {
		if ms < 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".envelope",
				Message: "envelope times must be non-negative",
			})
			break
		}
	}

	return errors
}

func (s *Source) Validate(field string) []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePosition(field+".position", s.Position)...)
	errors = append(errors, s.Signal.Validate(field+".signal")...)
	return errors
}

func validateProbes(probes []Probe) []ValidationError {
	var errors []ValidationError
	seen := map[string]bool{}
	for i, p := range probes {
		field := fmt.Sprintf("probes.%d", i)
		if p.Name == "" {
			errors = append(errors, ValidationError{Field: field + ".name", Message: "name is required"})
		} else if seen[p.Name] {
			errors = append(errors, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate probe name '%s'", p.Name),
			})
		}
		seen[p.Name] = true
		errors = append(errors, validatePosition(field+".position", p.Position)...)
	}
	return errors
}

func (lt *ListeningTriangle) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validatePositive("listening_triangle.distance_from_front", lt.DistanceFromFront)...)
	errors = append(errors, validatePositive("listening_triangle.distance_from_center", lt.DistanceFromCenter)...)
	errors = append(errors, validateNonNegative("listening_triangle.reference_position.x", lt.ReferencePosition[0])...)
	errors = append(errors, validateNonNegative("listening_triangle.reference_position.y", lt.ReferencePosition[1])...)
	errors = append(errors, lt.Signal.Validate("listening_triangle.signal")...)

	return errors
}

func (s *Simulation) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validatePositive("simulation.ticks", float64(s.Ticks))...)
	errors = append(errors, validateNonNegative("simulation.snapshot_every", float64(s.SnapshotEvery))...)
	errors = append(errors, validateNonNegative("simulation.image_scale", float64(s.ImageScale))...)
	errors = append(errors, validateNonNegative("simulation.warning_seconds", s.WarningSeconds)...)

	return errors
}
