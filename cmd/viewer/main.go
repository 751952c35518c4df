package main

import (
	"fmt"
	"log"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/jdginn/go-room-wave/fdtd"
	"github.com/jdginn/go-room-wave/fdtd/config"
)

var CLI struct {
	Config    string  `name:"config" type:"existingfile" help:"experiment config to load; built-in defaults are used without one"`
	Cols      int     `default:"200" help:"grid columns"`
	Rows      int     `default:"120" help:"grid rows"`
	Width     float64 `default:"10" help:"physical width of the grid in meters"`
	Signal    string  `default:"impulse" enum:"impulse,burst,sine" help:"source signal"`
	Frequency float64 `default:"500" help:"source frequency in Hz"`
	Scale     int     `default:"4" help:"window pixels per cell"`
	Steps     int     `default:"2" help:"simulation ticks per frame"`
}

// simulation builds from the config file when one is given, otherwise from the flags.
func simulation() (*fdtd.Simulation, error) {
	if CLI.Config != "" {
		cfg, err := config.LoadFromFile(CLI.Config, config.LoadOptions{
			ValidateImmediately: true,
			ResolvePaths:        true,
			MergeFiles:          true,
		})
		if err != nil {
			return nil, err
		}
		p, err := cfg.Params()
		if err != nil {
			return nil, err
		}
		sim, err := fdtd.NewSimulation(p)
		if err != nil {
			return nil, err
		}
		if lt := cfg.ListeningTriangle; lt != nil {
			sig, err := lt.Signal.Build()
			if err != nil {
				return nil, err
			}
			if !lt.Triangle().Place(sim, sig) {
				return nil, fmt.Errorf("listening triangle does not fit in the room")
			}
		}
		return sim, nil
	}

	kind, err := fdtd.ParseSignalKind(CLI.Signal)
	if err != nil {
		return nil, err
	}
	p := fdtd.DefaultParams()
	p.Cols, p.Rows, p.Width = CLI.Cols, CLI.Rows, CLI.Width
	for i := range p.Sources {
		p.Sources[i].Signal = fdtd.NewSignal(kind, CLI.Frequency, 1)
	}
	return fdtd.NewSimulation(p)
}

func main() {
	kong.Parse(&CLI, kong.Description("Realtime view of a 2-D acoustic wave simulation."))

	sim, err := simulation()
	if err != nil {
		log.Fatal(err)
	}
	defer sim.Dispose()

	g := newGame(sim, CLI.Steps)
	cols, rows := sim.Geometry().Cols(), sim.Geometry().Rows()
	ebiten.SetWindowSize(cols*CLI.Scale, rows*CLI.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(fmt.Sprintf("Room wave %dx%d", cols, rows))
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
