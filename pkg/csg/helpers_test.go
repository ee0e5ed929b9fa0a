package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cubeMesh returns an axis-aligned box from lo to hi as 12 outward-facing
// triangles with per-face normals and uvs.
func cubeMesh(lo, hi v3.Vec) *Mesh {
	x0, y0, z0 := lo.X, lo.Y, lo.Z
	x1, y1, z1 := hi.X, hi.Y, hi.Z
	faces := []struct {
		n       v3.Vec
		corners [4][3]float64
	}{
		{v3.Vec{X: -1}, [4][3]float64{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}},
		{v3.Vec{X: 1}, [4][3]float64{{x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}, {x1, y0, z1}}},
		{v3.Vec{Y: -1}, [4][3]float64{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}},
		{v3.Vec{Y: 1}, [4][3]float64{{x0, y1, z0}, {x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}}},
		{v3.Vec{Z: -1}, [4][3]float64{{x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}, {x1, y0, z0}}},
		{v3.Vec{Z: 1}, [4][3]float64{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}},
	}
	uv := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &Mesh{}
	for _, f := range faces {
		base := uint32(m.VertexCount())
		for i, c := range f.corners {
			m.Positions = append(m.Positions, c[0], c[1], c[2])
			m.Normals = append(m.Normals, f.n.X, f.n.Y, f.n.Z)
			m.UVs = append(m.UVs, uv[i][0], uv[i][1])
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

func unitCube() *Mesh {
	return cubeMesh(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
}

func vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// vtx returns a vertex at (x, y, z) with no normal or uv.
func vtx(x, y, z float64) Vertex {
	return Vertex{Pos: vec(x, y, z)}
}
