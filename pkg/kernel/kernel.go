// Package kernel defines the abstract geometry kernel interface.
// Implementations (bsp, sdfx) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction lets the
// tessellator and CLI swap backends without changing the rest of the
// system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box in world space.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
//
// Solids are values: every operation returns a new Solid and leaves its
// inputs untouched.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin; Cylinder is
	// centred on the origin along Z; Sphere is centred on the origin.
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64, segments, rings int) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z
	Scale(s Solid, x, y, z float64) Solid

	// Contains reports whether the world-space point is inside s.
	Contains(s Solid, x, y, z float64) bool

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
