package fdtd

import (
	"fmt"
	"math"

	"github.com/hpinc/go3mf"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3MF coordinates are in millimeters.
const meshScale = 1000

// Segment is a wall segment in meters, in the XY plane.
type Segment struct {
	A, B r3.Vec
}

// FloorPlan is a set of wall segments and the position of grid cell (0, 0) in meters.
type FloorPlan struct {
	Segments []Segment
	Origin   r3.Vec
}

// Plane is an infinite plane through Point.
type Plane struct {
	Point  r3.Vec
	Normal r3.Vec
}

// HorizontalPlane returns the plane z = height.
func HorizontalPlane(height float64) Plane {
	return Plane{Point: r3.Vec{Z: height}, Normal: r3.Vec{Z: 1}}
}

func (p Plane) intersectSegment(v0, v1 r3.Vec) (r3.Vec, bool) {
	u := r3.Sub(v1, v0)
	w := r3.Sub(v0, p.Point)
	d := r3.Dot(p.Normal, u)
	if d > -1e-9 && d < 1e-9 {
		return r3.Vec{}, false
	}
	t := -r3.Dot(p.Normal, w) / d
	if t < 0 || t > 1 {
		return r3.Vec{}, false
	}
	return r3.Add(v0, r3.Scale(t, u)), true
}

// IntersectTriangle returns the segment where the plane cuts the triangle.
func (p Plane) IntersectTriangle(v1, v2, v3 r3.Vec) (Segment, bool) {
	var hits []r3.Vec
	for _, edge := range [3][2]r3.Vec{{v1, v2}, {v2, v3}, {v3, v1}} {
		if v, ok := p.intersectSegment(edge[0], edge[1]); ok {
			hits = append(hits, v)
		}
	}
	if len(hits) < 2 {
		return Segment{}, false
	}
	a, b := hits[0], hits[1]
	if a == b && len(hits) == 3 {
		b = hits[2]
	}
	if a == b {
		return Segment{}, false
	}
	return Segment{A: a, B: b}, true
}

// SliceTriangles cuts every triangle with the plane.
func (p Plane) SliceTriangles(tris [][3]r3.Vec) []Segment {
	var segs []Segment
	for _, t := range tris {
		if s, ok := p.IntersectTriangle(t[0], t[1], t[2]); ok {
			segs = append(segs, s)
		}
	}
	return segs
}

// LoadFloorPlan reads a 3MF room model and slices it at sliceHeight meters above the floor.
func LoadFloorPlan(path string, sliceHeight float64) (FloorPlan, error) {
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return FloorPlan{}, fmt.Errorf("opening floor plan: %w", err)
	}
	defer r.Close()

	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return FloorPlan{}, fmt.Errorf("decoding floor plan: %w", err)
	}

	var tris [][3]r3.Vec
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		verts := obj.Mesh.Vertices.Vertex
		for _, t := range obj.Mesh.Triangles.Triangle {
			tris = append(tris, [3]r3.Vec{
				meshVec(verts[t.V1]),
				meshVec(verts[t.V2]),
				meshVec(verts[t.V3]),
			})
		}
	}

	plan := FloorPlan{Segments: HorizontalPlane(sliceHeight).SliceTriangles(tris)}
	if len(plan.Segments) == 0 {
		return plan, fmt.Errorf("no walls at height %.2fm in %s", sliceHeight, path)
	}
	plan.Origin = plan.min()
	return plan, nil
}

func meshVec(p go3mf.Point3D) r3.Vec {
	return r3.Vec{
		X: float64(p.X()) / meshScale,
		Y: float64(p.Y()) / meshScale,
		Z: float64(p.Z()) / meshScale,
	}
}

func (fp FloorPlan) min() r3.Vec {
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1)}
	for _, s := range fp.Segments {
		lo.X = math.Min(lo.X, math.Min(s.A.X, s.B.X))
		lo.Y = math.Min(lo.Y, math.Min(s.A.Y, s.B.Y))
	}
	return lo
}

// Rasterize stamps every floor plan segment into the grid as a 1-cell wall, with cellSize
// meters per cell.
func (g *Geometry) Rasterize(fp FloorPlan, cellSize float64) {
	if cellSize <= 0 {
		return
	}
	toCell := func(v r3.Vec) (int, int) {
		d := r3.Sub(v, fp.Origin)
		return int(math.Floor(d.X / cellSize)), int(math.Floor(d.Y / cellSize))
	}
	for _, s := range fp.Segments {
		x0, y0 := toCell(s.A)
		x1, y1 := toCell(s.B)
		g.line(x0, y0, x1, y1, Wall)
	}
	g.notify()
}

// line classifies the cells of a Bresenham line without notifying listeners.
func (g *Geometry) line(x0, y0, x1, y1 int, c Cell) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if g.InBounds(x0, y0) {
			g.cells[x0+y0*g.cols] = c
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}
