package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jdginn/go-room-wave/fdtd"
	"github.com/jdginn/go-room-wave/fdtd/experiment"
	"github.com/jdginn/go-room-wave/render"
)

type SimulateCmd struct {
	Config  string `arg:"" name:"config" help:"config file to simulate"`
	RunsDir string `name:"runs-dir" default:"runs" help:"directory that receives run directories"`
	NoPlots bool   `name:"no-plots" help:"skip the energy and probe plots"`
}

func (c SimulateCmd) Run() error {
	cfg, sim, err := loadSimulation(c.Config)
	if err != nil {
		return err
	}
	defer sim.Dispose()

	run, err := experiment.Create(c.RunsDir)
	if err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	if err := run.CopyFile(c.Config); err != nil {
		return fmt.Errorf("copying config file: %w", err)
	}
	log.Printf("run %s: %dx%d cells, dx %.4fm, dt %.3gs",
		run.ID, sim.Geometry().Cols(), sim.Geometry().Rows(), sim.Clock().Dx, sim.Clock().Dt)
	if w, ok := sim.Warning(); ok {
		log.Printf("warning: %s", w.Message)
	}

	view := render.FieldView{Scale: cfg.Simulation.ImageScale}
	every := cfg.Simulation.SnapshotEvery

	sim.TriggerImpulse()
	for tick := 1; tick <= cfg.Simulation.Ticks; tick++ {
		sim.Update()
		if every > 0 && tick%every == 0 {
			if err := render.SavePNG(run.Snapshot(tick), view.Draw(sim)); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}
		}
	}
	if err := render.SavePNG(run.File("field.png"), view.Draw(sim)); err != nil {
		return fmt.Errorf("saving final field: %w", err)
	}

	if err := fdtd.SaveReportToJSON(run.File("report.json"), fdtd.NewReport(sim)); err != nil {
		return err
	}
	for _, p := range sim.Probes() {
		if err := writeProbe(run, p); err != nil {
			return err
		}
	}

	if !c.NoPlots {
		if err := savePlots(run, sim); err != nil {
			return err
		}
	}
	log.Printf("wrote %d ticks to %s", sim.Ticks(), run.Path)
	return nil
}

func writeProbe(run *experiment.RunDir, p *fdtd.Probe) error {
	f, err := os.Create(run.File(p.Name + ".txt"))
	if err != nil {
		return fmt.Errorf("creating probe file: %w", err)
	}
	defer f.Close()
	if _, err := p.WriteTo(f); err != nil {
		return fmt.Errorf("writing probe %s: %w", p.Name, err)
	}
	return nil
}

func savePlots(run *experiment.RunDir, sim *fdtd.Simulation) error {
	if len(sim.History()) > 0 {
		p, err := render.EnergyPlot(sim.History(), sim.Clock().Dt)
		if err != nil {
			return err
		}
		if err := render.SavePlot(p, run.File("energy.png")); err != nil {
			return err
		}
	}
	for _, pr := range sim.Probes() {
		p, err := render.ProbePlot(pr, 6, -30)
		if err != nil {
			// silent probes have nothing to plot
			log.Printf("skipping plot for %s: %v", pr.Name, err)
			continue
		}
		if err := render.SavePlot(p, run.File(pr.Name+".png")); err != nil {
			return err
		}
	}
	return nil
}
