package csg

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is a polygon corner: a position plus the surface attributes that are
// interpolated when a polygon is cut. Vertices are plain values; assigning
// one copies it.
type Vertex struct {
	Pos    v3.Vec `json:"pos"`
	Normal v3.Vec `json:"normal"`
	UV     v2.Vec `json:"uv"`
}

// NewVertex returns a vertex at (x, y, z) with the given attributes.
func NewVertex(x, y, z float64, normal v3.Vec, uv v2.Vec) Vertex {
	return Vertex{Pos: v3.Vec{X: x, Y: y, Z: z}, Normal: normal, UV: uv}
}

// Clone returns a copy of v.
func (v Vertex) Clone() Vertex {
	return v
}

// Add adds the position of o to v in place.
func (v *Vertex) Add(o Vertex) *Vertex {
	v.Pos = v.Pos.Add(o.Pos)
	return v
}

// Subtract subtracts the position of o from v in place.
func (v *Vertex) Subtract(o Vertex) *Vertex {
	v.Pos = v.Pos.Sub(o.Pos)
	return v
}

// MultiplyScalar scales the position of v in place.
func (v *Vertex) MultiplyScalar(k float64) *Vertex {
	v.Pos = v.Pos.MulScalar(k)
	return v
}

// Cross replaces the position of v with v × o.
func (v *Vertex) Cross(o Vertex) *Vertex {
	v.Pos = v.Pos.Cross(o.Pos)
	return v
}

// Normalize scales the position of v to unit length in place. A zero-length
// position yields NaN components.
func (v *Vertex) Normalize() *Vertex {
	v.Pos = v.Pos.Normalize()
	return v
}

// Dot returns the dot product of the positions of v and o.
func (v Vertex) Dot(o Vertex) float64 {
	return v.Pos.Dot(o.Pos)
}

// Lerp moves v toward o by t in place. Position, normal and uv are blended
// independently. t is not clamped.
func (v *Vertex) Lerp(o Vertex, t float64) *Vertex {
	v.Pos = v.Pos.Add(o.Pos.Sub(v.Pos).MulScalar(t))
	v.Normal = v.Normal.Add(o.Normal.Sub(v.Normal).MulScalar(t))
	v.UV = v.UV.Add(o.UV.Sub(v.UV).MulScalar(t))
	return v
}

// Interpolate returns a new vertex between v and o at parameter t.
func (v Vertex) Interpolate(o Vertex, t float64) Vertex {
	c := v.Clone()
	c.Lerp(o, t)
	return c
}

// ApplyMatrix4 transforms the position of v as an affine point. The normal
// is left untouched.
func (v *Vertex) ApplyMatrix4(m sdf.M44) *Vertex {
	v.Pos = m.MulPosition(v.Pos)
	return v
}
