package csg

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnknownOp is returned for an operator outside Union, Subtract and
// Intersect.
var ErrUnknownOp = errors.New("csg: unknown boolean operator")

// Op selects a boolean operator.
type Op int

const (
	Union Op = iota
	Subtract
	Intersect
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Subtract:
		return "subtract"
	case Intersect:
		return "intersect"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp converts an operator name to an Op. The synonyms "difference" and
// "intersection" are accepted.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "union":
		return Union, nil
	case "subtract", "difference":
		return Subtract, nil
	case "intersect", "intersection":
		return Intersect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
}

// BSP is a solid boundary in partitioned form, tagged with the world
// transform its source geometry was imported under. Polygons in Tree are in
// world space; Matrix maps the source mesh's local space there.
type BSP struct {
	Tree   *Node
	Matrix sdf.M44
}

// NewBSP builds a tree over polys, which must already be in world space.
func NewBSP(polys []*Polygon, matrix sdf.M44) *BSP {
	return &BSP{Tree: NewNode(polys), Matrix: matrix}
}

// Clone returns a deep copy of b.
func (b *BSP) Clone() *BSP {
	return &BSP{Tree: b.Tree.Clone(), Matrix: b.Matrix}
}

// Polygons returns every polygon of the tree.
func (b *BSP) Polygons() []*Polygon {
	return b.Tree.AllPolygons()
}

// IsEmpty reports whether b has no boundary polygons and so encloses no
// volume.
func (b *BSP) IsEmpty() bool {
	return b.Tree.PolygonCount() == 0
}

// empty returns an empty solid carrying b's matrix.
func (b *BSP) empty() *BSP {
	return &BSP{Tree: NewNode(nil), Matrix: b.Matrix}
}

// A tree without polygons is an empty solid. The recipes below would treat
// it as clipping nothing, so empty operands are resolved before any tree
// work: ∅ ∪ x = x, x − ∅ = x, ∅ − x = ∅ and x ∩ ∅ = ∅ ∩ x = ∅.

// Union returns b ∪ other. Neither operand is modified; the result carries
// b's matrix.
func (b *BSP) Union(other *BSP) *BSP {
	switch {
	case other.IsEmpty():
		return b.Clone()
	case b.IsEmpty():
		return &BSP{Tree: other.Tree.Clone(), Matrix: b.Matrix}
	}
	a, o := b.Tree.Clone(), other.Tree.Clone()
	a.ClipTo(o)
	o.ClipTo(a)
	o.Invert()
	o.ClipTo(a)
	o.Invert()
	a.Build(o.AllPolygons())
	return &BSP{Tree: a, Matrix: b.Matrix}
}

// Subtract returns b − other. Neither operand is modified; the result
// carries b's matrix.
func (b *BSP) Subtract(other *BSP) *BSP {
	switch {
	case b.IsEmpty():
		return b.empty()
	case other.IsEmpty():
		return b.Clone()
	}
	a, o := b.Tree.Clone(), other.Tree.Clone()
	a.Invert()
	a.ClipTo(o)
	o.ClipTo(a)
	o.Invert()
	o.ClipTo(a)
	o.Invert()
	a.Build(o.AllPolygons())
	a.Invert()
	return &BSP{Tree: a, Matrix: b.Matrix}
}

// Intersect returns b ∩ other. Neither operand is modified; the result
// carries b's matrix.
func (b *BSP) Intersect(other *BSP) *BSP {
	if b.IsEmpty() || other.IsEmpty() {
		return b.empty()
	}
	a, o := b.Tree.Clone(), other.Tree.Clone()
	a.Invert()
	o.ClipTo(a)
	o.Invert()
	a.ClipTo(o)
	o.ClipTo(a)
	a.Build(o.AllPolygons())
	a.Invert()
	return &BSP{Tree: a, Matrix: b.Matrix}
}

// Operate applies op with b as the left operand.
func (b *BSP) Operate(op Op, other *BSP) (*BSP, error) {
	switch op {
	case Union:
		return b.Union(other), nil
	case Subtract:
		return b.Subtract(other), nil
	case Intersect:
		return b.Intersect(other), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownOp, op)
}

// Step is one operator application in a Chain.
type Step struct {
	Op      Op
	Operand *BSP
}

// Chain folds steps over b from left to right, so that
// Chain(a, {Union, b}, {Subtract, c}) is (a ∪ b) − c. Each intermediate
// result is re-partitioned from its polygons before the next step.
// A result tree still carries dividers from both operands, some of which
// no longer hold any polygon, and clipping against those classifies space
// by faces that were cut away.
func Chain(b *BSP, steps ...Step) (*BSP, error) {
	x := b
	for i, s := range steps {
		if i > 0 {
			x = x.Rebuild()
		}
		next, err := x.Operate(s.Op, s.Operand)
		if err != nil {
			return nil, fmt.Errorf("csg: step %d: %w", i, err)
		}
		x = next
	}
	return x, nil
}

// Rebuild returns a fresh tree over copies of b's polygons with the same
// matrix.
func (b *BSP) Rebuild() *BSP {
	return NewBSP(clonePolygons(b.Tree.AllPolygons()), b.Matrix)
}

// Pose is the decomposition of a BSP's matrix into translation, per-axis
// scale and XYZ Euler angles in radians.
type Pose struct {
	Translation v3.Vec
	Scale       v3.Vec
	Rotation    v3.Vec
}

// Pose decomposes b's matrix. The matrix is assumed to be a rotation and a
// positive scale followed by a translation.
func (b *BSP) Pose() Pose {
	m := b.Matrix
	t := m.MulPosition(v3.Vec{})
	c0 := m.MulPosition(v3.Vec{X: 1}).Sub(t)
	c1 := m.MulPosition(v3.Vec{Y: 1}).Sub(t)
	c2 := m.MulPosition(v3.Vec{Z: 1}).Sub(t)
	scale := v3.Vec{X: c0.Length(), Y: c1.Length(), Z: c2.Length()}
	c0 = c0.MulScalar(1 / scale.X)
	c1 = c1.MulScalar(1 / scale.Y)
	c2 = c2.MulScalar(1 / scale.Z)

	var r v3.Vec
	r.Y = math.Asin(math.Max(-1, math.Min(1, c2.X)))
	if math.Abs(c2.X) < 0.9999999 {
		r.X = math.Atan2(-c2.Y, c2.Z)
		r.Z = math.Atan2(-c1.X, c0.X)
	} else {
		r.X = math.Atan2(c1.Z, c1.Y)
	}
	return Pose{Translation: t, Scale: scale, Rotation: r}
}
