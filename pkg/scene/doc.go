// Package scene defines the CSG scene graph produced by evaluating a
// script. A scene is an immutable DAG of primitives, transforms, boolean
// operations and groups; each output root becomes one mesh.
package scene
