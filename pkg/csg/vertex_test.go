package csg

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-9

func TestVertexArithmetic(t *testing.T) {
	v := vtx(1, 2, 3)
	v.Add(vtx(1, 1, 1)).Subtract(vtx(0, 1, 2)).MultiplyScalar(2)
	assert.Equal(t, vec(4, 4, 4), v.Pos)

	x := vtx(1, 0, 0)
	x.Cross(vtx(0, 1, 0))
	assert.Equal(t, vec(0, 0, 1), x.Pos)

	assert.Equal(t, 32.0, vtx(1, 2, 3).Dot(vtx(4, 5, 6)))

	n := vtx(3, 0, 4)
	n.Normalize()
	assert.InDelta(t, 0.6, n.Pos.X, tol)
	assert.InDelta(t, 0.8, n.Pos.Z, tol)
}

func TestVertexNormalizeZeroIsNaN(t *testing.T) {
	v := vtx(0, 0, 0)
	v.Normalize()
	assert.True(t, math.IsNaN(v.Pos.X))
}

func TestVertexInterpolate(t *testing.T) {
	a := Vertex{Pos: vec(0, 0, 0), Normal: vec(0, 0, 1), UV: v2.Vec{X: 0, Y: 0}}
	b := Vertex{Pos: vec(2, 4, 6), Normal: vec(0, 1, 0), UV: v2.Vec{X: 1, Y: 0.5}}

	m := a.Interpolate(b, 0.25)
	assert.Equal(t, vec(0.5, 1, 1.5), m.Pos)
	assert.Equal(t, vec(0, 0.25, 0.75), m.Normal)
	assert.Equal(t, v2.Vec{X: 0.25, Y: 0.125}, m.UV)

	// Interpolate must not touch the receiver.
	assert.Equal(t, vec(0, 0, 0), a.Pos)

	// t outside [0,1] extrapolates.
	e := a.Interpolate(b, 2)
	assert.Equal(t, vec(4, 8, 12), e.Pos)
}

func TestVertexCloneIsIndependent(t *testing.T) {
	a := Vertex{Pos: vec(1, 1, 1), Normal: vec(0, 0, 1)}
	c := a.Clone()
	c.Add(vtx(1, 0, 0))
	c.Normal.X = 5
	assert.Equal(t, vec(1, 1, 1), a.Pos)
	assert.Equal(t, 0.0, a.Normal.X)
}

func TestVertexApplyMatrix4(t *testing.T) {
	v := Vertex{Pos: vec(1, 0, 0), Normal: vec(1, 0, 0)}
	m := sdf.Translate3d(vec(0, 0, 5)).Mul(sdf.RotateZ(math.Pi / 2))
	v.ApplyMatrix4(m)
	assert.InDelta(t, 0, v.Pos.X, tol)
	assert.InDelta(t, 1, v.Pos.Y, tol)
	assert.InDelta(t, 5, v.Pos.Z, tol)
	// Normals are not transformed.
	assert.Equal(t, vec(1, 0, 0), v.Normal)
}
