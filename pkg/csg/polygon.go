package csg

// Polygon is a convex, planar, counter-clockwise loop of at least three
// vertices together with its supporting plane. Code that edits Vertices is
// responsible for calling CalculatePlane afterwards.
type Polygon struct {
	Vertices []Vertex `json:"vertices"`
	Plane    Plane    `json:"plane"`
}

// NewPolygon returns a polygon over vs with its plane derived from the first
// three vertices. The slice is retained.
func NewPolygon(vs ...Vertex) *Polygon {
	p := &Polygon{Vertices: vs}
	if len(vs) >= 3 {
		p.CalculatePlane()
	}
	return p
}

// CalculatePlane recomputes the plane from the first three vertices.
func (p *Polygon) CalculatePlane() *Polygon {
	p.Plane = PlaneFromPoints(p.Vertices[0].Pos, p.Vertices[1].Pos, p.Vertices[2].Pos)
	return p
}

// Clone returns a deep copy of p.
func (p *Polygon) Clone() *Polygon {
	vs := make([]Vertex, len(p.Vertices))
	copy(vs, p.Vertices)
	return &Polygon{Vertices: vs, Plane: p.Plane}
}

// Flip reverses the winding of p and negates its plane, turning the polygon
// to face the other way.
func (p *Polygon) Flip() *Polygon {
	p.Plane.Flip()
	for i, j := 0, len(p.Vertices)-1; i < j; i, j = i+1, j-1 {
		p.Vertices[i], p.Vertices[j] = p.Vertices[j], p.Vertices[i]
	}
	return p
}

// ClassifySide reports where other lies relative to the plane of p.
func (p *Polygon) ClassifySide(other *Polygon) Side {
	return p.Plane.ClassifySide(other)
}

// IsConvex reports whether polys bound a convex region: every polygon lies
// behind the plane of every other one.
func IsConvex(polys []*Polygon) bool {
	for i, a := range polys {
		for j, b := range polys {
			if i != j && a.ClassifySide(b) != Back {
				return false
			}
		}
	}
	return true
}

func clonePolygons(polys []*Polygon) []*Polygon {
	out := make([]*Polygon, len(polys))
	for i, p := range polys {
		out[i] = p.Clone()
	}
	return out
}
