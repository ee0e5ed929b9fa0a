package csg

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the tolerance for classifying a point against a plane. Points
// closer than Epsilon to a plane are treated as lying on it.
const Epsilon = 1e-5

// Side is the result of classifying a vertex or polygon against a plane.
type Side int

const (
	Coplanar Side = iota // on the plane within Epsilon
	Front                // on the side the normal points to
	Back                 // behind the plane
	Spanning             // polygon with vertices on both sides
)

func (s Side) String() string {
	switch s {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Plane is the set of points p with Normal·p = W. Normal is unit length for
// planes derived from well-formed polygons.
type Plane struct {
	Normal v3.Vec  `json:"normal"`
	W      float64 `json:"w"`
}

// PlaneFromPoints returns the plane through a, b and c, oriented so that the
// triangle a, b, c is counter-clockwise when seen from the front.
func PlaneFromPoints(a, b, c v3.Vec) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, W: n.Dot(a)}
}

// Flip reverses the orientation of the plane in place.
func (p *Plane) Flip() {
	p.Normal = p.Normal.Neg()
	p.W = -p.W
}

// Distance returns the signed distance of q from the plane.
func (p Plane) Distance(q v3.Vec) float64 {
	return p.Normal.Dot(q) - p.W
}

// ClassifyVertex reports which side of the plane v is on. Only a distance
// strictly greater than Epsilon counts as Front, and strictly less than
// -Epsilon as Back.
func (p Plane) ClassifyVertex(v Vertex) Side {
	d := p.Distance(v.Pos)
	switch {
	case d < -Epsilon:
		return Back
	case d > Epsilon:
		return Front
	default:
		return Coplanar
	}
}

// ClassifySide reports whether poly lies in front of, behind, on, or across
// the plane.
func (p Plane) ClassifySide(poly *Polygon) Side {
	front, back := 0, 0
	for _, v := range poly.Vertices {
		switch p.ClassifyVertex(v) {
		case Front:
			front++
		case Back:
			back++
		}
	}
	switch {
	case front > 0 && back == 0:
		return Front
	case front == 0 && back > 0:
		return Back
	case front == 0 && back == 0:
		return Coplanar
	default:
		return Spanning
	}
}

// SplitPolygon routes poly relative to the plane. Coplanar polygons go to
// coplanarFront when they face the same way as the plane and to coplanarBack
// otherwise. Polygons entirely on one side go whole to front or back.
// Spanning polygons are cut along the plane and each piece with at least
// three vertices is appended to front or back with a fresh plane. The same
// slice may be passed for several buckets.
func (p Plane) SplitPolygon(poly *Polygon, coplanarFront, coplanarBack, front, back *[]*Polygon) {
	switch p.ClassifySide(poly) {
	case Coplanar:
		if p.Normal.Dot(poly.Plane.Normal) > 0 {
			*coplanarFront = append(*coplanarFront, poly)
		} else {
			*coplanarBack = append(*coplanarBack, poly)
		}
	case Front:
		*front = append(*front, poly)
	case Back:
		*back = append(*back, poly)
	case Spanning:
		f, b := p.cut(poly)
		if len(f) >= 3 {
			*front = append(*front, NewPolygon(f...))
		}
		if len(b) >= 3 {
			*back = append(*back, NewPolygon(b...))
		}
	}
}

// cut walks the edges of a spanning polygon and returns the vertex loops of
// its front and back pieces. A coplanar vertex belongs to both loops; a cut
// vertex is inserted only on edges whose endpoints are strictly on opposite
// sides.
func (p Plane) cut(poly *Polygon) (front, back []Vertex) {
	n := len(poly.Vertices)
	front = make([]Vertex, 0, n+1)
	back = make([]Vertex, 0, n+1)
	for i := 0; i < n; i++ {
		vi := poly.Vertices[i]
		vj := poly.Vertices[(i+1)%n]
		si := p.ClassifyVertex(vi)
		sj := p.ClassifyVertex(vj)

		if si != Back {
			front = append(front, vi)
		}
		if si != Front {
			back = append(back, vi)
		}
		if (si == Front && sj == Back) || (si == Back && sj == Front) {
			t := (p.W - p.Normal.Dot(vi.Pos)) / p.Normal.Dot(vj.Pos.Sub(vi.Pos))
			v := vi.Interpolate(vj, t)
			front = append(front, v)
			back = append(back, v)
		}
	}
	return front, back
}
