package main

import (
	"fmt"
	"log"

	"github.com/alecthomas/kong"

	"github.com/jdginn/go-room-wave/fdtd"
	"github.com/jdginn/go-room-wave/fdtd/config"
	"github.com/jdginn/go-room-wave/interact"
)

var CLI struct {
	Simulate SimulateCmd `cmd:"" help:"Run an experiment config and write the results to a run directory"`
	Validate ValidateCmd `cmd:"" help:"Check an experiment config without running it"`
	Interact InteractCmd `cmd:"" help:"Explore an experiment config in the terminal"`
}

// loadSimulation reads, validates and builds the simulation described by a config file.
func loadSimulation(path string) (*config.ExperimentConfig, *fdtd.Simulation, error) {
	cfg, err := config.LoadFromFile(path, config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
	if err != nil {
		return nil, nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, nil, err
	}
	sim, err := fdtd.NewSimulation(params)
	if err != nil {
		return nil, nil, err
	}
	if lt := cfg.ListeningTriangle; lt != nil {
		sig, err := lt.Signal.Build()
		if err != nil {
			return nil, nil, err
		}
		if !lt.Triangle().Place(sim, sig) {
			return nil, nil, fmt.Errorf("listening triangle does not fit in the room")
		}
	}
	return cfg, sim, nil
}

type InteractCmd struct {
	Config string `arg:"" name:"config" help:"config file to explore"`
	Steps  int    `name:"steps" default:"4" help:"ticks advanced per frame"`
}

func (c InteractCmd) Run() error {
	_, sim, err := loadSimulation(c.Config)
	if err != nil {
		return err
	}
	defer sim.Dispose()
	return interact.Run(sim, c.Steps)
}

func main() {
	ctx := kong.Parse(&CLI)
	err := ctx.Run()
	if err != nil {
		log.Fatal(err)
	}
}
