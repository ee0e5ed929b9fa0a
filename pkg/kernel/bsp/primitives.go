package bsp

import (
	"math"

	"github.com/chazu/lignin-csg/pkg/csg"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// meshBuilder accumulates an indexed csg.Mesh.
type meshBuilder struct {
	m csg.Mesh
}

func (b *meshBuilder) vertex(p, n v3.Vec, u, v float64) uint32 {
	i := uint32(len(b.m.Positions) / 3)
	b.m.Positions = append(b.m.Positions, p.X, p.Y, p.Z)
	b.m.Normals = append(b.m.Normals, n.X, n.Y, n.Z)
	b.m.UVs = append(b.m.UVs, u, v)
	return i
}

func (b *meshBuilder) triangle(i, j, k uint32) {
	b.m.Indices = append(b.m.Indices, i, j, k)
}

func (b *meshBuilder) mesh() *csg.Mesh {
	m := b.m
	return &m
}

// boxMesh returns the axis-aligned box from lo to hi, two triangles per
// face, wound counter-clockwise seen from outside.
func boxMesh(lo, hi v3.Vec) *csg.Mesh {
	x0, y0, z0 := lo.X, lo.Y, lo.Z
	x1, y1, z1 := hi.X, hi.Y, hi.Z
	faces := []struct {
		n       v3.Vec
		corners [4]v3.Vec
	}{
		{v3.Vec{X: -1}, [4]v3.Vec{{X: x0, Y: y0, Z: z0}, {X: x0, Y: y0, Z: z1}, {X: x0, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z0}}},
		{v3.Vec{X: 1}, [4]v3.Vec{{X: x1, Y: y0, Z: z0}, {X: x1, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z1}, {X: x1, Y: y0, Z: z1}}},
		{v3.Vec{Y: -1}, [4]v3.Vec{{X: x0, Y: y0, Z: z0}, {X: x1, Y: y0, Z: z0}, {X: x1, Y: y0, Z: z1}, {X: x0, Y: y0, Z: z1}}},
		{v3.Vec{Y: 1}, [4]v3.Vec{{X: x0, Y: y1, Z: z0}, {X: x0, Y: y1, Z: z1}, {X: x1, Y: y1, Z: z1}, {X: x1, Y: y1, Z: z0}}},
		{v3.Vec{Z: -1}, [4]v3.Vec{{X: x0, Y: y0, Z: z0}, {X: x0, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z0}, {X: x1, Y: y0, Z: z0}}},
		{v3.Vec{Z: 1}, [4]v3.Vec{{X: x0, Y: y0, Z: z1}, {X: x1, Y: y0, Z: z1}, {X: x1, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z1}}},
	}
	uv := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	var b meshBuilder
	for _, f := range faces {
		var idx [4]uint32
		for i, c := range f.corners {
			idx[i] = b.vertex(c, f.n, uv[i][0], uv[i][1])
		}
		b.triangle(idx[0], idx[1], idx[2])
		b.triangle(idx[0], idx[2], idx[3])
	}
	return b.mesh()
}

// cylinderMesh returns a closed prism approximating a cylinder centred on
// the origin along Z.
func cylinderMesh(height, radius float64, segments int) *csg.Mesh {
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	ring := func(i int) (float64, float64) {
		a := 2 * math.Pi * float64(i%segments) / float64(segments)
		return math.Cos(a), math.Sin(a)
	}

	var b meshBuilder

	// Sides carry radial normals.
	for i := 0; i < segments; i++ {
		c0, s0 := ring(i)
		c1, s1 := ring(i + 1)
		u0 := float64(i) / float64(segments)
		u1 := float64(i+1) / float64(segments)
		n0 := v3.Vec{X: c0, Y: s0}
		n1 := v3.Vec{X: c1, Y: s1}
		p0 := b.vertex(v3.Vec{X: radius * c0, Y: radius * s0, Z: -h}, n0, u0, 0)
		p1 := b.vertex(v3.Vec{X: radius * c1, Y: radius * s1, Z: -h}, n1, u1, 0)
		p2 := b.vertex(v3.Vec{X: radius * c1, Y: radius * s1, Z: h}, n1, u1, 1)
		p3 := b.vertex(v3.Vec{X: radius * c0, Y: radius * s0, Z: h}, n0, u0, 1)
		b.triangle(p0, p1, p2)
		b.triangle(p0, p2, p3)
	}

	// Caps are fans around a centre vertex.
	for _, z := range []float64{h, -h} {
		n := v3.Vec{Z: 1}
		if z < 0 {
			n = v3.Vec{Z: -1}
		}
		centre := b.vertex(v3.Vec{Z: z}, n, 0.5, 0.5)
		for i := 0; i < segments; i++ {
			c0, s0 := ring(i)
			c1, s1 := ring(i + 1)
			r0 := b.vertex(v3.Vec{X: radius * c0, Y: radius * s0, Z: z}, n, 0.5+c0/2, 0.5+s0/2)
			r1 := b.vertex(v3.Vec{X: radius * c1, Y: radius * s1, Z: z}, n, 0.5+c1/2, 0.5+s1/2)
			if z > 0 {
				b.triangle(centre, r0, r1)
			} else {
				b.triangle(centre, r1, r0)
			}
		}
	}
	return b.mesh()
}

// sphereMesh returns a UV sphere centred on the origin with its poles on Z.
func sphereMesh(radius float64, segments, rings int) *csg.Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var b meshBuilder
	grid := make([][]uint32, rings+1)
	for j := 0; j <= rings; j++ {
		theta := math.Pi * float64(j) / float64(rings)
		grid[j] = make([]uint32, segments+1)
		for i := 0; i <= segments; i++ {
			phi := 2 * math.Pi * float64(i) / float64(segments)
			n := v3.Vec{
				X: math.Sin(theta) * math.Cos(phi),
				Y: math.Sin(theta) * math.Sin(phi),
				Z: math.Cos(theta),
			}
			u := float64(i) / float64(segments)
			v := 1 - float64(j)/float64(rings)
			grid[j][i] = b.vertex(n.MulScalar(radius), n, u, v)
		}
	}

	for j := 0; j < rings; j++ {
		for i := 0; i < segments; i++ {
			a, bl, br, d := grid[j][i], grid[j+1][i], grid[j+1][i+1], grid[j][i+1]
			if j != rings-1 {
				b.triangle(a, bl, br)
			}
			if j != 0 {
				b.triangle(a, br, d)
			}
		}
	}
	return b.mesh()
}
