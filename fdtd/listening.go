package fdtd

import (
	"math"
)

// Distance of the listening position behind the tip of an equilateral triangle, in meters.
// Value from Rod Gervais' book Home Recording Studio: Build It Like The Pros
const ListenDistIntoTriangle = 0.38

// ListeningTriangle places a stereo pair and a listening position in the plane, measured in
// meters from a reference point on the front wall. The front wall runs along y and the
// listener faces -x.
type ListeningTriangle struct {
	// A point on the front wall
	ReferenceX, ReferenceY float64
	// Distance of the sources from the front wall
	DistFromFront float64
	// Distance of the sources from the center line
	DistFromCenter float64
}

func (t ListeningTriangle) LeftSource() (float64, float64) {
	return t.ReferenceX + t.DistFromFront, t.ReferenceY - t.DistFromCenter
}

func (t ListeningTriangle) RightSource() (float64, float64) {
	return t.ReferenceX + t.DistFromFront, t.ReferenceY + t.DistFromCenter
}

func (t ListeningTriangle) ListenPosition() (float64, float64) {
	return t.ReferenceX + t.DistFromFront + t.DistFromCenter*math.Sqrt(3) + ListenDistIntoTriangle, t.ReferenceY
}

// ListenDistance is the distance from either source to the listening position.
func (t ListeningTriangle) ListenDistance() float64 {
	lx, ly := t.LeftSource()
	px, py := t.ListenPosition()
	return math.Hypot(px-lx, py-ly)
}

// Place adds both sources and a "listener" probe to the simulation. Positions in meters are
// converted with the simulation's cell size. It returns false if any position is unusable;
// sources added before the failure are kept.
func (t ListeningTriangle) Place(s *Simulation, sig Signal) bool {
	dx := s.Clock().Dx
	cell := func(x, y float64) (int, int) {
		return int(math.Round(x / dx)), int(math.Round(y / dx))
	}

	lx, ly := cell(t.LeftSource())
	rx, ry := cell(t.RightSource())
	px, py := cell(t.ListenPosition())

	for _, pos := range [][2]int{{lx, ly}, {rx, ry}} {
		i, ok := s.AddSource(pos[0], pos[1])
		if !ok {
			return false
		}
		s.Sources()[i].SetSignal(sig)
	}
	_, ok := s.AddProbe("listener", px, py)
	return ok
}
