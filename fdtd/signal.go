package fdtd

import (
	"fmt"
	"math"
	"sort"
	"strings"

	lin "github.com/sgreben/piecewiselinear"
)

// SignalKind selects the waveform a source emits.
type SignalKind int

const (
	// Gaussian pulse centred three widths after the trigger
	SignalImpulse SignalKind = iota
	// Hann-windowed sine lasting a whole number of cycles
	SignalBurst
	// Continuous sine
	SignalSine
	// Sine shaped by a piecewise-linear envelope
	SignalShaped
)

var signalNames = map[SignalKind]string{
	SignalImpulse: "impulse",
	SignalBurst:   "burst",
	SignalSine:    "sine",
	SignalShaped:  "shaped",
}

func (k SignalKind) String() string {
	if name, ok := signalNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SignalKind(%d)", int(k))
}

// ParseSignalKind is the inverse of SignalKind.String.
func ParseSignalKind(s string) (SignalKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range signalNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown signal type %q", s)
}

const (
	minFrequency = 1.0
	// An impulse counts as decayed once it falls below this fraction of its amplitude.
	impulseFloor = 1e-6
)

// Signal generates the time-domain samples of a source.
type Signal struct {
	Kind      SignalKind
	Frequency float64 // Hz
	Amplitude float64
	// Length of a burst, in cycles
	Cycles float64
	// Envelope for SignalShaped: time in milliseconds to linear gain
	Envelope map[float64]float64

	env    *lin.Function
	envEnd float64
}

// NewSignal returns a signal of the given kind. Bursts default to three cycles.
func NewSignal(kind SignalKind, frequency, amplitude float64) Signal {
	return Signal{
		Kind:      kind,
		Frequency: frequency,
		Amplitude: amplitude,
		Cycles:    3,
	}
}

// WithEnvelope returns a copy of s using the given envelope (milliseconds to gain).
func (s Signal) WithEnvelope(env map[float64]float64) Signal {
	s.Envelope = env
	s.env, s.envEnd = buildEnvelope(env)
	return s
}

func (s Signal) frequency() float64 {
	return math.Max(s.Frequency, minFrequency)
}

// buildEnvelope converts breakpoints in milliseconds to a function of seconds.
func buildEnvelope(points map[float64]float64) (*lin.Function, float64) {
	if len(points) == 0 {
		return nil, 0
	}
	xs := make([]float64, 0, len(points))
	for ms := range points {
		xs = append(xs, ms)
	}
	sort.Float64s(xs)
	ys := make([]float64, len(xs))
	for i, ms := range xs {
		ys[i] = points[ms]
		xs[i] = ms / 1000
	}
	return &lin.Function{X: xs, Y: ys}, xs[len(xs)-1]
}

// envelope returns the cached envelope, building it when Envelope was set directly.
func (s Signal) envelope() (*lin.Function, float64) {
	if s.env != nil {
		return s.env, s.envEnd
	}
	return buildEnvelope(s.Envelope)
}

// Span returns how long the signal lasts after a trigger, or +Inf for continuous signals.
func (s Signal) Span() float64 {
	f := s.frequency()
	switch s.Kind {
	case SignalImpulse:
		sigma := 1 / (math.Pi * f)
		// exp(-x^2) drops below impulseFloor at x = sqrt(-ln(impulseFloor))
		return sigma * (3 + math.Sqrt(-math.Log(impulseFloor)))
	case SignalBurst:
		return math.Max(s.Cycles, 0) / f
	case SignalShaped:
		if _, end := s.envelope(); end > 0 {
			return end
		}
		return 0
	}
	return math.Inf(1)
}

// Sample evaluates the signal t seconds after the trigger. done reports that the signal has
// run its course and the source should deactivate.
func (s Signal) Sample(t float64) (value float64, done bool) {
	f := s.frequency()
	switch s.Kind {
	case SignalImpulse:
		if s.Amplitude == 0 {
			return 0, true
		}
		sigma := 1 / (math.Pi * f)
		t0 := 3 * sigma
		u := (t - t0) / sigma
		value = s.Amplitude * math.Exp(-u*u)
		if t > t0 && math.Abs(value) < impulseFloor*math.Abs(s.Amplitude) {
			return 0, true
		}
		return value, false

	case SignalBurst:
		span := math.Max(s.Cycles, 0) / f
		if t >= span {
			return 0, true
		}
		window := 0.5 * (1 - math.Cos(2*math.Pi*t/span))
		return s.Amplitude * window * math.Sin(2*math.Pi*f*t), false

	case SignalShaped:
		env, end := s.envelope()
		if env == nil || t > end {
			return 0, true
		}
		gain := env.Y[0]
		if t >= env.X[0] {
			gain = env.At(t)
		}
		return s.Amplitude * gain * math.Sin(2*math.Pi*f*t), false
	}
	return s.Amplitude * math.Sin(2*math.Pi*f*t), false
}
