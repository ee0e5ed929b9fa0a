// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per output root.
package tessellate

import (
	"fmt"
	"log/slog"

	"github.com/chazu/lignin-csg/pkg/csg"
	"github.com/chazu/lignin-csg/pkg/kernel"
	"github.com/chazu/lignin-csg/pkg/scene"
)

// Options configures a tessellation run. The zero value is valid.
type Options struct {
	// Cache memoises solids across runs. Nil disables cross-run reuse;
	// shared nodes are still built once per run.
	Cache *Cache

	// Logger receives per-root progress. Nil discards.
	Logger *slog.Logger
}

// Tessellate builds every root of s with k and returns one mesh per root,
// in root order. The tessellator is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	return TessellateWith(s, k, Options{})
}

// TessellateWith is Tessellate with explicit options.
func TessellateWith(s *scene.Scene, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	b := &builder{
		s:        s,
		k:        k,
		cache:    opts.Cache,
		log:      log,
		hashes:   s.Hashes(),
		kernel:   fmt.Sprintf("%T", k),
		built:    make(map[scene.NodeID]kernel.Solid),
		visiting: make(map[scene.NodeID]bool),
	}

	meshes := make([]*kernel.Mesh, 0, len(s.Roots))
	for _, rootID := range s.Roots {
		root := s.Get(rootID)
		if root == nil {
			return nil, fmt.Errorf("tessellate: root %s does not exist", rootID.Short())
		}

		solid, err := b.build(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: root %q: %w", root.Label(), err)
		}

		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for root %q: %w", root.Label(), err)
		}
		mesh.PartName = root.Label()

		if mesh.IsEmpty() {
			log.Warn("root produced an empty mesh", "root", mesh.PartName)
		} else {
			log.Info("tessellated root",
				"root", mesh.PartName,
				"vertices", mesh.VertexCount(),
				"triangles", mesh.TriangleCount())
		}
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}

// builder holds the state of a single tessellation run.
type builder struct {
	s      *scene.Scene
	k      kernel.Kernel
	cache  *Cache
	log    *slog.Logger
	hashes map[scene.NodeID]scene.ContentHash
	kernel string

	built    map[scene.NodeID]kernel.Solid
	visiting map[scene.NodeID]bool
}

// build returns the world-space solid for n, building children first.
func (b *builder) build(n *scene.Node) (kernel.Solid, error) {
	if solid, ok := b.built[n.ID]; ok {
		return solid, nil
	}
	if b.visiting[n.ID] {
		return nil, fmt.Errorf("cycle at node %q", n.Label())
	}

	key := cacheKey{kernel: b.kernel, hash: b.hashes[n.ID]}
	if solid, ok := b.cache.get(key); ok {
		b.log.Debug("solid cache hit", "node", n.Label(), "hash", key.hash.Short())
		b.built[n.ID] = solid
		return solid, nil
	}

	b.visiting[n.ID] = true
	solid, err := b.buildNode(n)
	delete(b.visiting, n.ID)
	if err != nil {
		return nil, err
	}

	b.built[n.ID] = solid
	b.cache.put(key, solid)
	return solid, nil
}

func (b *builder) buildNode(n *scene.Node) (kernel.Solid, error) {
	switch n.Kind {
	case scene.NodePrimitive:
		return b.primitive(n)
	case scene.NodeTransform:
		return b.transform(n)
	case scene.NodeBoolean:
		return b.boolean(n)
	case scene.NodeGroup:
		return b.group(n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// primitive creates geometry for a primitive node. Unset resolutions fall
// back to the scene defaults.
func (b *builder) primitive(n *scene.Node) (kernel.Solid, error) {
	segments := func(v int) int {
		if v > 0 {
			return v
		}
		return b.s.Defaults.Segments
	}
	rings := func(v int) int {
		if v > 0 {
			return v
		}
		return b.s.Defaults.Rings
	}

	switch d := n.Data.(type) {
	case scene.BoxData:
		return b.k.Box(d.Size.X, d.Size.Y, d.Size.Z), nil
	case scene.CylinderData:
		return b.k.Cylinder(d.Height, d.Radius, segments(d.Segments)), nil
	case scene.SphereData:
		return b.k.Sphere(d.Radius, segments(d.Segments), rings(d.Rings)), nil
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// transform places its single child: scale, then rotation, then translation.
func (b *builder) transform(n *scene.Node) (kernel.Solid, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := b.s.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(children))
	}

	solid, err := b.build(children[0])
	if err != nil {
		return nil, err
	}

	if td.Scale != nil && *td.Scale != (scene.Vec3{X: 1, Y: 1, Z: 1}) {
		solid = b.k.Scale(solid, td.Scale.X, td.Scale.Y, td.Scale.Z)
	}
	if td.Rotation != nil && !td.Rotation.IsZero() {
		solid = b.k.Rotate(solid, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
	}
	if td.Translation != nil && !td.Translation.IsZero() {
		solid = b.k.Translate(solid, td.Translation.X, td.Translation.Y, td.Translation.Z)
	}
	return solid, nil
}

// boolean folds its operands left to right.
func (b *builder) boolean(n *scene.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(scene.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var combine func(a, c kernel.Solid) kernel.Solid
	switch bd.Op {
	case csg.Union:
		combine = b.k.Union
	case csg.Subtract:
		combine = b.k.Difference
	case csg.Intersect:
		combine = b.k.Intersection
	default:
		return nil, fmt.Errorf("boolean node %s: %w: %s", n.ID.Short(), csg.ErrUnknownOp, bd.Op)
	}

	children := b.s.Children(n)
	if len(children) < 2 {
		return nil, fmt.Errorf("boolean node %s has %d operands, want at least 2", n.ID.Short(), len(children))
	}
	return b.fold(children, combine)
}

// group builds the union of its members.
func (b *builder) group(n *scene.Node) (kernel.Solid, error) {
	children := b.s.Children(n)
	if len(children) == 0 {
		return nil, fmt.Errorf("group %q is empty", n.Label())
	}
	return b.fold(children, b.k.Union)
}

func (b *builder) fold(children []*scene.Node, combine func(a, c kernel.Solid) kernel.Solid) (kernel.Solid, error) {
	acc, err := b.build(children[0])
	if err != nil {
		return nil, err
	}
	for _, c := range children[1:] {
		solid, err := b.build(c)
		if err != nil {
			return nil, err
		}
		acc = combine(acc, solid)
	}
	return acc, nil
}
