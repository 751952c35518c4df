package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/jdginn/go-room-wave/fdtd"
)

const (
	defaultThresholdDB = 6.0
	defaultBaselineDB  = -30.0
)

// WritePeaks writes one "<time>ms, <level>dB" line per arrival.
func WritePeaks(w io.Writer, arrivals []fdtd.Arrival) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Impulse Response Peaks\n")
	for _, a := range arrivals {
		fmt.Fprintf(bw, "%.6fms, %.2fdB\n", a.TimeMS, a.DB)
	}
	return bw.Flush()
}

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: probe_peaks <probe_file> <output_file> [baseline_db]")
		os.Exit(1)
	}
	inputPath := os.Args[1]
	outputPath := os.Args[2]

	baseline := defaultBaselineDB
	if len(os.Args) > 3 {
		v, err := strconv.ParseFloat(os.Args[3], 64)
		if err != nil {
			log.Fatalf("Invalid baseline %q: %v\n", os.Args[3], err)
		}
		baseline = v
	}

	in, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Could not open input file: %v\n", err)
	}
	defer in.Close()

	probe, err := fdtd.ReadProbe(in)
	if err != nil {
		log.Fatalf("Parse error: %v\n", err)
	}
	maxima := probe.Peaks(defaultThresholdDB, baseline)

	out, err := os.Create(outputPath)
	if err != nil {
		log.Fatalf("Could not create output file: %v\n", err)
	}
	defer out.Close()
	if err := WritePeaks(out, maxima); err != nil {
		log.Fatalf("Could not write output file: %v\n", err)
	}
	fmt.Printf("Wrote %d local maxima to %s\n", len(maxima), outputPath)
}
