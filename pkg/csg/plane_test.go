package csg

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zPlane is z = 0 facing +z.
var zPlane = Plane{Normal: vec(0, 0, 1), W: 0}

// xPlane is x = 0 facing +x.
var xPlane = Plane{Normal: vec(1, 0, 0), W: 0}

func TestClassifyVertexBoundary(t *testing.T) {
	tests := []struct {
		name string
		z    float64
		want Side
	}{
		{"on plane", 0, Coplanar},
		{"half epsilon above", Epsilon / 2, Coplanar},
		{"exactly epsilon above", Epsilon, Coplanar},
		{"twice epsilon above", 2 * Epsilon, Front},
		{"half epsilon below", -Epsilon / 2, Coplanar},
		{"exactly epsilon below", -Epsilon, Coplanar},
		{"twice epsilon below", -2 * Epsilon, Back},
		{"far above", 10, Front},
		{"far below", -10, Back},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := zPlane.ClassifyVertex(vtx(0, 0, tt.z))
			assert.Equal(t, tt.want, got, "z=%g", tt.z)
		})
	}
}

func TestClassifySide(t *testing.T) {
	tests := []struct {
		name string
		poly *Polygon
		want Side
	}{
		{"front", NewPolygon(vtx(0, 0, 1), vtx(1, 0, 1), vtx(0, 1, 2)), Front},
		{"back", NewPolygon(vtx(0, 0, -1), vtx(1, 0, -1), vtx(0, 1, -2)), Back},
		{"coplanar", NewPolygon(vtx(0, 0, 0), vtx(1, 0, 0), vtx(0, 1, 0)), Coplanar},
		{"touching front", NewPolygon(vtx(0, 0, 0), vtx(1, 0, 1), vtx(0, 1, 1)), Front},
		{"touching back", NewPolygon(vtx(0, 0, 0), vtx(1, 0, -1), vtx(0, 1, 0)), Back},
		{"spanning", NewPolygon(vtx(0, 0, -1), vtx(1, 0, 1), vtx(0, 1, 1)), Spanning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, zPlane.ClassifySide(tt.poly))
		})
	}
}

func TestPlaneFromPoints(t *testing.T) {
	p := PlaneFromPoints(vec(0, 0, 2), vec(1, 0, 2), vec(0, 1, 2))
	assert.InDelta(t, 1, p.Normal.Z, tol)
	assert.InDelta(t, 2, p.W, tol)

	p.Flip()
	assert.InDelta(t, -1, p.Normal.Z, tol)
	assert.InDelta(t, -2, p.W, tol)
	assert.InDelta(t, 3, p.Distance(vec(5, 5, -1)), tol)
}

func TestSplitCoplanarRouting(t *testing.T) {
	same := NewPolygon(vtx(0, 0, 0), vtx(1, 0, 0), vtx(0, 1, 0))
	opposite := NewPolygon(vtx(0, 0, 0), vtx(0, 1, 0), vtx(1, 0, 0))

	var cf, cb, f, b []*Polygon
	zPlane.SplitPolygon(same, &cf, &cb, &f, &b)
	zPlane.SplitPolygon(opposite, &cf, &cb, &f, &b)

	require.Len(t, cf, 1)
	require.Len(t, cb, 1)
	assert.Same(t, same, cf[0])
	assert.Same(t, opposite, cb[0])
	assert.Empty(t, f)
	assert.Empty(t, b)
}

func TestSplitWholePolygons(t *testing.T) {
	front := NewPolygon(vtx(1, 0, 0), vtx(2, 0, 0), vtx(1, 1, 0))
	back := NewPolygon(vtx(-1, 0, 0), vtx(-1, 1, 0), vtx(-2, 0, 0))

	var cf, cb, f, b []*Polygon
	xPlane.SplitPolygon(front, &cf, &cb, &f, &b)
	xPlane.SplitPolygon(back, &cf, &cb, &f, &b)

	require.Len(t, f, 1)
	require.Len(t, b, 1)
	assert.Same(t, front, f[0])
	assert.Same(t, back, b[0])
}

func TestSplitSpanningTriangle(t *testing.T) {
	a := Vertex{Pos: vec(-1, 0, 0), UV: v2.Vec{X: 0, Y: 0}}
	bv := Vertex{Pos: vec(1, 0, 0), UV: v2.Vec{X: 1, Y: 0}}
	c := Vertex{Pos: vec(1, 1, 0), UV: v2.Vec{X: 1, Y: 1}}
	poly := NewPolygon(a, bv, c)

	var cf, cb, f, b []*Polygon
	xPlane.SplitPolygon(poly, &cf, &cb, &f, &b)

	require.Len(t, f, 1)
	require.Len(t, b, 1)
	assert.Empty(t, cf)
	assert.Empty(t, cb)

	fv := f[0].Vertices
	require.Len(t, fv, 4)
	assert.Equal(t, vec(0, 0, 0), fv[0].Pos)
	assert.Equal(t, vec(1, 0, 0), fv[1].Pos)
	assert.Equal(t, vec(1, 1, 0), fv[2].Pos)
	assert.InDelta(t, 0.5, fv[3].Pos.Y, tol)
	assert.InDelta(t, 0.5, fv[0].UV.X, tol)
	assert.InDelta(t, 0.5, fv[3].UV.Y, tol)

	bvs := b[0].Vertices
	require.Len(t, bvs, 3)
	assert.Equal(t, vec(-1, 0, 0), bvs[0].Pos)

	// Both pieces keep the orientation of the original.
	assert.InDelta(t, 1, f[0].Plane.Normal.Z, tol)
	assert.InDelta(t, 1, b[0].Plane.Normal.Z, tol)
}

func TestSplitWithCoplanarVertex(t *testing.T) {
	// One vertex on the plane, one behind, one in front.
	poly := NewPolygon(vtx(0, 1, 0), vtx(-1, -1, 0), vtx(1, -1, 0))

	var cf, cb, f, b []*Polygon
	xPlane.SplitPolygon(poly, &cf, &cb, &f, &b)

	require.Len(t, f, 1)
	require.Len(t, b, 1)

	// The on-plane vertex is shared, and only the single crossing edge
	// contributes a cut vertex.
	require.Len(t, f[0].Vertices, 3)
	require.Len(t, b[0].Vertices, 3)
	assert.Equal(t, vec(0, 1, 0), f[0].Vertices[0].Pos)
	assert.Equal(t, vec(0, 1, 0), b[0].Vertices[0].Pos)
	assert.InDelta(t, 0, f[0].Vertices[1].Pos.X, tol)
	assert.InDelta(t, -1, f[0].Vertices[1].Pos.Y, tol)
}

func TestSplitPiecesCoverOriginalArea(t *testing.T) {
	poly := NewPolygon(vtx(-2, 0, 0), vtx(3, 0, 0), vtx(3, 2, 0), vtx(-2, 2, 0))
	var cf, cb, f, b []*Polygon
	xPlane.SplitPolygon(poly, &cf, &cb, &f, &b)
	require.Len(t, f, 1)
	require.Len(t, b, 1)
	assert.InDelta(t, 10, polygonArea(poly), tol)
	assert.InDelta(t, 6, polygonArea(f[0]), tol)
	assert.InDelta(t, 4, polygonArea(b[0]), tol)
}

func polygonArea(p *Polygon) float64 {
	area := 0.0
	vs := p.Vertices
	for i := 2; i < len(vs); i++ {
		area += vs[i-1].Pos.Sub(vs[0].Pos).Cross(vs[i].Pos.Sub(vs[0].Pos)).Length() / 2
	}
	return area
}

func TestSideString(t *testing.T) {
	assert.Equal(t, "spanning", Spanning.String())
	assert.Equal(t, "Side(9)", Side(9).String())
}
