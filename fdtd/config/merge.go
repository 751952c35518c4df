package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// MergeMaterials fills the inline materials from the JSON file named by FromFile. Inline
// entries win over the file. Every file entry must have an absorption in [0, 1], including the
// ones an inline entry shadows, so a bad library file is caught regardless of the config using it.
func (m *Materials) MergeMaterials() error {
	if m.FromFile == "" {
		return nil
	}

	data, err := os.ReadFile(m.FromFile)
	if err != nil {
		return fmt.Errorf("reading materials file: %w", err)
	}
	var fileMaterials map[string]Material
	if err := json.Unmarshal(data, &fileMaterials); err != nil {
		return fmt.Errorf("parsing materials file: %w", err)
	}

	names := make([]string, 0, len(fileMaterials))
	for name := range fileMaterials {
		names = append(names, name)
	}
	sort.Strings(names)

	if m.Inline == nil {
		m.Inline = make(map[string]Material, len(fileMaterials))
	}
	for _, name := range names {
		material := fileMaterials[name]
		if a := material.Absorption; a < 0 || a > 1 {
			return fmt.Errorf("%s: material '%s' has absorption %v outside [0, 1]", m.FromFile, name, a)
		}
		if _, exists := m.Inline[name]; !exists {
			m.Inline[name] = material
		}
	}
	return nil
}

func (m *Materials) HasMaterial(name string) bool {
	_, exists := m.Inline[name]
	return exists
}

// LoadAndMerge pulls external files into the config.
func (c *ExperimentConfig) LoadAndMerge() error {
	if err := c.Materials.MergeMaterials(); err != nil {
		return fmt.Errorf("merging materials: %w", err)
	}
	return nil
}
