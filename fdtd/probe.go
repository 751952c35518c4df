package fdtd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Probe records the pressure at one cell on every tick, like a microphone.
type Probe struct {
	Name string
	X, Y int
	// Seconds between samples
	Interval float64
	Samples  []float64
}

// Record appends the current pressure at the probe position.
func (p *Probe) Record(f *Field) {
	p.Samples = append(p.Samples, f.Pressure(p.X, p.Y))
}

func (p *Probe) Clear() {
	p.Samples = p.Samples[:0]
}

// Peak returns the index and value of the sample with the largest magnitude.
func (p *Probe) Peak() (int, float64) {
	if len(p.Samples) == 0 {
		return -1, 0
	}
	hi := floats.MaxIdx(p.Samples)
	lo := floats.MinIdx(p.Samples)
	if math.Abs(p.Samples[lo]) > math.Abs(p.Samples[hi]) {
		return lo, p.Samples[lo]
	}
	return hi, p.Samples[hi]
}

// RMS returns the root mean square of the recording.
func (p *Probe) RMS() float64 {
	if len(p.Samples) == 0 {
		return 0
	}
	return math.Sqrt(floats.Dot(p.Samples, p.Samples) / float64(len(p.Samples)))
}

// StdDev returns the standard deviation of the recording.
func (p *Probe) StdDev() float64 {
	if len(p.Samples) < 2 {
		return 0
	}
	return stat.StdDev(p.Samples, nil)
}

// EnergyOverWindow sums the squared samples within windowMS of the peak.
func (p *Probe) EnergyOverWindow(windowMS float64) float64 {
	start, _ := p.Peak()
	if start < 0 || p.Interval <= 0 {
		return 0
	}
	n := int(windowMS * MS / p.Interval)
	end := min(start+n+1, len(p.Samples))
	window := p.Samples[start:end]
	return floats.Dot(window, window)
}

// Arrival is one local maximum of a recording.
type Arrival struct {
	TimeMS float64
	Linear float64
	DB     float64
}

// Peaks finds the loudest sample of every span that stays thresholdDB above baseline dB,
// counting time from the overall peak.
func (p *Probe) Peaks(thresholdDB, baseline float64) []Arrival {
	start, peak := p.Peak()
	if start < 0 || peak == 0 {
		return nil
	}
	var (
		maxima []Arrival
		inSpan bool
		curr   Arrival
	)
	for i, v := range p.Samples[start:] {
		a := Arrival{
			TimeMS: float64(i) * p.Interval / MS,
			Linear: v,
			DB:     LinearToDB(v/peak, -120),
		}
		if a.DB >= baseline+thresholdDB {
			if !inSpan || a.DB > curr.DB {
				curr = a
			}
			inSpan = true
			continue
		}
		if inSpan {
			maxima = append(maxima, curr)
			inSpan = false
		}
	}
	if inSpan {
		maxima = append(maxima, curr)
	}
	return maxima
}

// WriteTo writes the recording as an impulse response text file with a metadata header,
// the data following a "* Data start" line.
func (p *Probe) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	peak, _ := p.Peak()
	if peak < 0 {
		peak = 0
	}
	var n int64
	write := func(format string, args ...any) error {
		c, err := fmt.Fprintf(bw, format, args...)
		n += int64(c)
		return err
	}
	if err := write("* Impulse response recorded at %s (%d, %d)\n", p.Name, p.X, p.Y); err != nil {
		return n, err
	}
	if err := write("%d // Peak index\n", peak); err != nil {
		return n, err
	}
	if err := write("%d // Response length\n", len(p.Samples)); err != nil {
		return n, err
	}
	if err := write("%g // Sample interval (seconds)\n", p.Interval); err != nil {
		return n, err
	}
	if err := write("* Data start\n"); err != nil {
		return n, err
	}
	for _, v := range p.Samples {
		if err := write("%.9e\n", v); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// ReadProbe parses a recording written by WriteTo, or any impulse response file using the same
// metadata lines. Name and position are taken from the header when present.
func ReadProbe(r io.Reader) (*Probe, error) {
	p := &Probe{}
	scanner := bufio.NewScanner(r)
	peakIndex := -1
	foundDataStart := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "* Impulse response recorded at "):
			name := strings.TrimPrefix(line, "* Impulse response recorded at ")
			if i := strings.LastIndex(name, " ("); i >= 0 {
				fmt.Sscanf(name[i:], " (%d, %d)", &p.X, &p.Y)
				name = name[:i]
			}
			p.Name = name
		case strings.Contains(line, "// Peak index"):
			peakIndex, _ = strconv.Atoi(strings.Fields(line)[0])
		case strings.Contains(line, "// Sample interval (seconds)"):
			p.Interval, _ = strconv.ParseFloat(strings.Fields(line)[0], 64)
		case line == "* Data start":
			foundDataStart = true
		}
		if foundDataStart {
			break
		}
	}
	if !foundDataStart {
		return nil, fmt.Errorf("* Data start not found")
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		p.Samples = append(p.Samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if peakIndex < 0 || p.Interval == 0 {
		return nil, fmt.Errorf("metadata missing or malformed")
	}
	return p, nil
}
