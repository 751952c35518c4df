package main

import (
	"errors"
	"fmt"

	"github.com/jdginn/go-room-wave/fdtd/config"
)

type ValidateCmd struct {
	Config string `arg:"" name:"config" help:"config file to validate"`
}

func (c ValidateCmd) Run() error {
	cfg, err := config.LoadFromFile(c.Config, config.LoadOptions{})
	if err != nil {
		return err
	}
	errs := cfg.Validate()
	errs = append(errs, cfg.ValidateFiles(config.ResolverFor(c.Config))...)
	if len(errs) > 0 {
		return errors.New(config.FormatValidationErrors(errs))
	}

	// Sources, probes and the listening triangle only prove themselves against the built grid
	_, sim, err := loadSimulation(c.Config)
	if err != nil {
		return err
	}
	defer sim.Dispose()
	for _, p := range sim.Probes() {
		if sim.Geometry().IsWall(p.X, p.Y) {
			fmt.Printf("Warning: probe %s at (%d, %d) is inside a wall\n", p.Name, p.X, p.Y)
		}
	}
	if w, ok := sim.Warning(); ok {
		fmt.Printf("Warning: %s\n", w.Message)
	}
	fmt.Printf("%s: ok (%dx%d cells, %d sources, %d probes)\n", c.Config,
		sim.Geometry().Cols(), sim.Geometry().Rows(), len(sim.Sources()), len(sim.Probes()))
	return nil
}
