package kernel

import (
	"fmt"

	"github.com/chazu/lignin-csg/pkg/csg"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, uvs has 2 floats per vertex when
// present, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`      // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`       // [nx0,ny0,nz0, ...]
	UVs      []float32 `json:"uvs,omitempty"` // [u0,v0, u1,v1, ...]
	Indices  []uint32  `json:"indices"`       // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"`      // which scene root this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangles expands the indexed mesh into sdfx triangles.
func (m *Mesh) Triangles() []*sdf.Triangle3 {
	vertex := func(i uint32) v3.Vec {
		return v3.Vec{
			X: float64(m.Vertices[3*i]),
			Y: float64(m.Vertices[3*i+1]),
			Z: float64(m.Vertices[3*i+2]),
		}
	}
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		tri := &sdf.Triangle3{
			vertex(m.Indices[3*t]),
			vertex(m.Indices[3*t+1]),
			vertex(m.Indices[3*t+2]),
		}
		tris = append(tris, tri)
	}
	return tris
}

// SaveSTL writes the mesh to path as binary STL.
func (m *Mesh) SaveSTL(path string) error {
	if m.IsEmpty() {
		return fmt.Errorf("kernel: save %s: mesh %q is empty", path, m.PartName)
	}
	if err := render.SaveSTL(path, m.Triangles()); err != nil {
		return fmt.Errorf("kernel: save %s: %w", path, err)
	}
	return nil
}

// Contains reports whether the point lies inside the closed surface of m,
// by ray parity. Kernels without a native point query use it.
func (m *Mesh) Contains(x, y, z float64) bool {
	cm := &csg.Mesh{
		Positions: make([]float64, len(m.Vertices)),
		Indices:   m.Indices,
	}
	for i, f := range m.Vertices {
		cm.Positions[i] = float64(f)
	}
	return cm.Contains(v3.Vec{X: x, Y: y, Z: z})
}
