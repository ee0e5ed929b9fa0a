package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidMesh is wrapped by every error returned from Mesh.Validate.
var ErrInvalidMesh = errors.New("csg: invalid mesh")

// Mesh is a triangle mesh with flat attribute arrays: 3 floats per position,
// 3 per normal, 2 per uv. Normals and UVs are optional. When Indices is nil
// every three consecutive vertices form a triangle; otherwise every three
// indices do.
type Mesh struct {
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals,omitempty"`
	UVs       []float64 `json:"uvs,omitempty"`
	Indices   []uint32  `json:"indices,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Validate checks that the attribute arrays and indices are consistent.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidMesh, len(m.Positions))
	}
	n := m.VertexCount()
	if m.Normals != nil && len(m.Normals) != 3*n {
		return fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalidMesh, len(m.Normals), n)
	}
	if m.UVs != nil && len(m.UVs) != 2*n {
		return fmt.Errorf("%w: %d uv floats for %d vertices", ErrInvalidMesh, len(m.UVs), n)
	}
	if m.Indices == nil {
		if n%3 != 0 {
			return fmt.Errorf("%w: %d vertices do not form whole triangles", ErrInvalidMesh, n)
		}
		return nil
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices do not form whole triangles", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// vertex returns vertex i with absent or short attribute arrays read as zero.
func (m *Mesh) vertex(i int) Vertex {
	v := Vertex{Pos: v3.Vec{X: m.Positions[3*i], Y: m.Positions[3*i+1], Z: m.Positions[3*i+2]}}
	if len(m.Normals) >= 3*i+3 {
		v.Normal = v3.Vec{X: m.Normals[3*i], Y: m.Normals[3*i+1], Z: m.Normals[3*i+2]}
	}
	if len(m.UVs) >= 2*i+2 {
		v.UV = v2.Vec{X: m.UVs[2*i], Y: m.UVs[2*i+1]}
	}
	return v
}

// triangle returns the vertex indices of triangle t.
func (m *Mesh) triangle(t int) (int, int, int) {
	if m.Indices != nil {
		return int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])
	}
	return 3 * t, 3*t + 1, 3*t + 2
}

// Polygons converts the mesh to one polygon per triangle with every vertex
// transformed by matrix. Triangles with no area after the transform are
// skipped, since their plane is undefined.
func (m *Mesh) Polygons(matrix sdf.M44) []*Polygon {
	count := m.TriangleCount()
	polys := make([]*Polygon, 0, count)
	for t := 0; t < count; t++ {
		i, j, k := m.triangle(t)
		a, b, c := m.vertex(i), m.vertex(j), m.vertex(k)
		a.ApplyMatrix4(matrix)
		b.ApplyMatrix4(matrix)
		c.ApplyMatrix4(matrix)
		if b.Pos.Sub(a.Pos).Cross(c.Pos.Sub(a.Pos)).Length() < Epsilon*Epsilon {
			continue
		}
		polys = append(polys, NewPolygon(a, b, c))
	}
	return polys
}

// FromMesh imports m, expressed in the local space that matrix maps to the
// world, as a BSP.
func FromMesh(m *Mesh, matrix sdf.M44) *BSP {
	return NewBSP(m.Polygons(matrix), matrix)
}

// ToMesh exports the tree as a non-indexed triangle mesh in the local space
// of b's matrix. Polygons are fan-triangulated from their first vertex.
// Vertex normals shorter than Epsilon are replaced by the face normal. UVs
// are emitted only when some vertex carries a non-zero uv.
func (b *BSP) ToMesh() *Mesh {
	inv := b.Matrix.Inverse()
	polys := b.Tree.AllPolygons()

	out := &Mesh{}
	var uvs []float64
	hasUV := false
	emit := func(v Vertex, face v3.Vec) {
		p := inv.MulPosition(v.Pos)
		n := v.Normal
		if n.Length() < Epsilon {
			n = face
		}
		out.Positions = append(out.Positions, p.X, p.Y, p.Z)
		out.Normals = append(out.Normals, n.X, n.Y, n.Z)
		uvs = append(uvs, v.UV.X, v.UV.Y)
		if v.UV.X != 0 || v.UV.Y != 0 {
			hasUV = true
		}
	}

	for _, poly := range polys {
		vs := poly.Vertices
		for j := 2; j < len(vs); j++ {
			emit(vs[0], poly.Plane.Normal)
			emit(vs[j-1], poly.Plane.Normal)
			emit(vs[j], poly.Plane.Normal)
		}
	}
	if hasUV {
		out.UVs = uvs
	}
	return out
}

// Input is one operand of Operate: a mesh and its local-to-world matrix.
type Input struct {
	Mesh   *Mesh
	Matrix sdf.M44
}

// Operate combines two meshes with op and returns the result in a's local
// space. Both meshes are validated first; the boolean itself cannot fail.
func Operate(a, b Input, op Op) (*Mesh, error) {
	if err := a.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("csg: left operand: %w", err)
	}
	if err := b.Mesh.Validate(); err != nil {
		return nil, fmt.Errorf("csg: right operand: %w", err)
	}
	r, err := FromMesh(a.Mesh, a.Matrix).Operate(op, FromMesh(b.Mesh, b.Matrix))
	if err != nil {
		return nil, err
	}
	return r.ToMesh(), nil
}

// Bounds returns the axis-aligned bounding box of the referenced vertices.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() sdf.Box3 {
	count := m.TriangleCount()
	if count == 0 {
		return sdf.Box3{}
	}
	inf := math.Inf(1)
	box := sdf.Box3{Min: v3.Vec{X: inf, Y: inf, Z: inf}, Max: v3.Vec{X: -inf, Y: -inf, Z: -inf}}
	for t := 0; t < count; t++ {
		i, j, k := m.triangle(t)
		for _, idx := range [3]int{i, j, k} {
			p := m.vertex(idx).Pos
			box.Min = box.Min.Min(p)
			box.Max = box.Max.Max(p)
		}
	}
	return box
}

// Volume returns the signed volume enclosed by the mesh. It is positive for
// a closed surface wound counter-clockwise when seen from outside.
func (m *Mesh) Volume() float64 {
	vol := 0.0
	for t := 0; t < m.TriangleCount(); t++ {
		i, j, k := m.triangle(t)
		a, b, c := m.vertex(i).Pos, m.vertex(j).Pos, m.vertex(k).Pos
		vol += a.Dot(b.Cross(c))
	}
	return vol / 6
}

// rayDir is deliberately off-axis so that rays from typical sample points do
// not graze edges of axis-aligned geometry.
var rayDir = v3.Vec{X: 0.3589, Y: 0.7432, Z: 0.5651}.Normalize()

// Contains reports whether p is inside the closed surface, by counting ray
// crossings. The result is unreliable for points on the surface.
func (m *Mesh) Contains(p v3.Vec) bool {
	hits := 0
	for t := 0; t < m.TriangleCount(); t++ {
		i, j, k := m.triangle(t)
		if rayHitsTriangle(p, rayDir, m.vertex(i).Pos, m.vertex(j).Pos, m.vertex(k).Pos) {
			hits++
		}
	}
	return hits%2 == 1
}

// rayHitsTriangle is the Möller–Trumbore test for a ray starting at o.
func rayHitsTriangle(o, d, a, b, c v3.Vec) bool {
	const eps = 1e-12
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	h := d.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < eps {
		return false
	}
	f := 1 / det
	s := o.Sub(a)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return false
	}
	q := s.Cross(e1)
	v := f * d.Dot(q)
	if v < 0 || u+v > 1 {
		return false
	}
	return f*e2.Dot(q) > eps
}
