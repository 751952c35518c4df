package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jdginn/go-room-wave/fdtd"
)

// ClusterArrivals merges arrivals that are "close enough" into a single representative arrival.
// - timeThreshold: max allowed time difference in ms within a cluster
// - gainThreshold: max allowed level difference in dB within a cluster
func ClusterArrivals(arrivals []fdtd.ArrivalJSON, timeThreshold, gainThreshold float64) []fdtd.ArrivalJSON {
	if len(arrivals) == 0 {
		return nil
	}
	sorted := append([]fdtd.ArrivalJSON(nil), arrivals...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TimeMS < sorted[j].TimeMS
	})

	var clusters [][]fdtd.ArrivalJSON
	current := []fdtd.ArrivalJSON{sorted[0]}
	for _, a := range sorted[1:] {
		last := current[len(current)-1]
		if a.TimeMS-last.TimeMS <= timeThreshold && math.Abs(a.DB-last.DB) <= gainThreshold {
			current = append(current, a)
		} else {
			clusters = append(clusters, current)
			current = []fdtd.ArrivalJSON{a}
		}
	}
	clusters = append(clusters, current)

	var result []fdtd.ArrivalJSON
	for _, cluster := range clusters {
		best := cluster[0]
		for _, a := range cluster {
			// Louder wins; ties go to the earlier arrival
			if a.DB > best.DB || (math.Abs(a.DB-best.DB) < 1e-6 && a.TimeMS < best.TimeMS) {
				best = a
			}
		}
		result = append(result, best)
	}
	return result
}

// Summarize writes the per-probe arrivals and the final energy bookkeeping of a report.
func Summarize(w io.Writer, r fdtd.Report) {
	fmt.Fprintf(w, "%dx%d cells, dx %.4fm, dt %.3gs, %d ticks\n", r.Cols, r.Rows, r.Dx, r.Dt, r.Ticks)
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	if n := len(r.Energy); n > 0 {
		e := r.Energy[n-1]
		fmt.Fprintf(w, "energy at %.2fms: acoustic %.4g, wall %.4g, damping %.4f\n",
			e.TimeMS, e.Acoustic, e.Wall, e.Damping)
	}
	for _, p := range r.Probes {
		fmt.Fprintf(w, "%s (%d, %d)\n", p.Name, p.X, p.Y)
		for _, a := range ClusterArrivals(p.Arrivals, 0.05, 4) {
			fmt.Fprintf(w, "  %.6fms, %.2fdB\n", a.TimeMS, a.DB)
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: report_summary <report.json>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open input file: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()

	var report fdtd.Report
	if err := json.NewDecoder(f).Decode(&report); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot decode JSON: %v\n", err)
		os.Exit(3)
	}
	Summarize(os.Stdout, report)
}
