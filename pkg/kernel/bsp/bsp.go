// Package bsp implements the kernel.Kernel interface on top of the
// BSP-tree mesh booleans in package csg.
//
// A solid is a triangle mesh in its own local space plus the matrix that
// places it in the world. Transforms only compose the matrix; booleans
// partition both operands in world space and re-export the result into
// the left operand's local space.
package bsp

import (
	"math"
	"sync"

	"github.com/chazu/lignin-csg/pkg/csg"
	"github.com/chazu/lignin-csg/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*BSPKernel)(nil)

// bspSolid is an immutable mesh plus its local-to-world matrix.
type bspSolid struct {
	mesh   *csg.Mesh
	matrix sdf.M44

	once sync.Once
	tree *csg.BSP
}

func newSolid(m *csg.Mesh, matrix sdf.M44) *bspSolid {
	return &bspSolid{mesh: m, matrix: matrix}
}

// BSP returns the solid's tree, building it on first use.
func (s *bspSolid) BSP() *csg.BSP {
	s.once.Do(func() {
		s.tree = csg.FromMesh(s.mesh, s.matrix)
	})
	return s.tree
}

// BoundingBox returns the world-space bounds of the solid's vertices.
func (s *bspSolid) BoundingBox() (min, max [3]float64) {
	n := s.mesh.VertexCount()
	if n == 0 {
		return min, max
	}
	inf := math.Inf(1)
	lo := v3.Vec{X: inf, Y: inf, Z: inf}
	hi := v3.Vec{X: -inf, Y: -inf, Z: -inf}
	for i := 0; i < n; i++ {
		p := s.matrix.MulPosition(position(s.mesh, i))
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return [3]float64{lo.X, lo.Y, lo.Z}, [3]float64{hi.X, hi.Y, hi.Z}
}

func position(m *csg.Mesh, i int) v3.Vec {
	return v3.Vec{X: m.Positions[3*i], Y: m.Positions[3*i+1], Z: m.Positions[3*i+2]}
}

// BSPKernel implements kernel.Kernel with BSP-tree booleans.
type BSPKernel struct{}

// New returns a new BSPKernel.
func New() *BSPKernel {
	return &BSPKernel{}
}

// unwrap extracts the underlying bspSolid from a kernel.Solid.
func unwrap(s kernel.Solid) *bspSolid {
	return s.(*bspSolid)
}

// Box creates a box with the given dimensions and its minimum corner at the
// origin.
func (k *BSPKernel) Box(x, y, z float64) kernel.Solid {
	return newSolid(boxMesh(v3.Vec{}, v3.Vec{X: x, Y: y, Z: z}), sdf.Identity3d())
}

// Cylinder creates a cylinder with the given height and radius, centred on
// the origin along Z, approximated by segments side faces.
func (k *BSPKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return newSolid(cylinderMesh(height, radius, segments), sdf.Identity3d())
}

// Sphere creates a UV sphere centred on the origin.
func (k *BSPKernel) Sphere(radius float64, segments, rings int) kernel.Solid {
	return newSolid(sphereMesh(radius, segments, rings), sdf.Identity3d())
}

func (k *BSPKernel) boolean(op csg.Op, a, b kernel.Solid) kernel.Solid {
	sa := unwrap(a)
	r, err := sa.BSP().Operate(op, unwrap(b).BSP())
	if err != nil {
		// op is always one of the three constants above.
		panic(err)
	}
	return newSolid(r.ToMesh(), sa.matrix)
}

// Union returns the union of two solids.
func (k *BSPKernel) Union(a, b kernel.Solid) kernel.Solid {
	return k.boolean(csg.Union, a, b)
}

// Difference returns the difference a - b.
func (k *BSPKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return k.boolean(csg.Subtract, a, b)
}

// Intersection returns the intersection of two solids.
func (k *BSPKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return k.boolean(csg.Intersect, a, b)
}

// transform returns s placed by m applied after its current matrix.
func transform(s kernel.Solid, m sdf.M44) kernel.Solid {
	ss := unwrap(s)
	return newSolid(ss.mesh, m.Mul(ss.matrix))
}

// Translate moves a solid by (x, y, z).
func (k *BSPKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *BSPKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return transform(s, m)
}

// Scale scales a solid about the origin.
func (k *BSPKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return transform(s, sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z}))
}

// Contains reports whether the world-space point is inside s.
func (k *BSPKernel) Contains(s kernel.Solid, x, y, z float64) bool {
	ss := unwrap(s)
	local := ss.matrix.Inverse().MulPosition(v3.Vec{X: x, Y: y, Z: z})
	return ss.mesh.Contains(local)
}

// ToMesh returns the solid as a world-space triangle mesh with flat face
// normals.
func (k *BSPKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ss := unwrap(s)
	src := ss.mesh

	numTri := src.TriangleCount()
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)
	var uvs []float32
	if src.UVs != nil {
		uvs = make([]float32, 0, numVerts*2)
	}

	for t := 0; t < numTri; t++ {
		corners := triangle(src, t)
		var tri sdf.Triangle3
		for j, i := range corners {
			tri[j] = ss.matrix.MulPosition(position(src, i))
		}
		n := faceNormal(&tri)

		for j, i := range corners {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
			indices = append(indices, uint32(t*3+j))
			if uvs != nil {
				uvs = append(uvs, float32(src.UVs[2*i]), float32(src.UVs[2*i+1]))
			}
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		UVs:      uvs,
		Indices:  indices,
	}, nil
}

// triangle returns the vertex indices of triangle t of m.
func triangle(m *csg.Mesh, t int) [3]int {
	if m.Indices != nil {
		return [3]int{int(m.Indices[3*t]), int(m.Indices[3*t+1]), int(m.Indices[3*t+2])}
	}
	return [3]int{3 * t, 3*t + 1, 3*t + 2}
}

// faceNormal is tri.Normal() with zero-area triangles mapped to the zero
// vector instead of NaN.
func faceNormal(tri *sdf.Triangle3) v3.Vec {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	if e1.Cross(e2).Length() == 0 {
		return v3.Vec{}
	}
	return tri.Normal()
}
