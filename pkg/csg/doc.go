// Package csg implements constructive solid geometry on polygon soups using
// binary space partitioning trees.
//
// A closed triangle mesh is imported with FromMesh into a BSP: one polygon
// per triangle, each vertex pre-transformed into world space. Two BSPs are
// combined with Union, Subtract or Intersect, each a fixed sequence of the
// tree primitives Invert, ClipTo and Build applied to deep copies of the
// operands. The result is exported with ToMesh, which fan-triangulates every
// polygon back into the left operand's local space.
//
// Geometry operations never fail. Degenerate input degrades the output
// (cracks, flipped faces) instead of raising an error; callers that need
// robustness validate their meshes with Mesh.Validate first.
package csg
