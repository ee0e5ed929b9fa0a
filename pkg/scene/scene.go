package scene

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Default tessellation resolution for curved primitives.
const (
	DefaultSegments = 32
	DefaultRings    = 16
)

// Defaults contains scene-wide default settings.
type Defaults struct {
	Segments int `json:"segments"` // cylinder and sphere segments around Z
	Rings    int `json:"rings"`    // sphere rings from pole to pole
}

// Scene is the top-level immutable data structure produced by evaluation.
// It is never mutated in place after evaluation; each evaluation produces a
// new scene.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Defaults  Defaults          `json:"defaults"`
	Version   uint64            `json:"version"`
}

// New creates an empty Scene with default settings.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Defaults: Defaults{
			Segments: DefaultSegments,
			Rings:    DefaultRings,
		},
	}
}

// AddNode adds a node to the scene. It does not check for duplicates.
func (s *Scene) AddNode(n *Node) {
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// SetName assigns name to the node with the given ID.
func (s *Scene) SetName(id NodeID, name string) error {
	n := s.Nodes[id]
	if n == nil {
		return fmt.Errorf("scene: no node %s", id.Short())
	}
	if other, ok := s.NameIndex[name]; ok && other != id {
		return fmt.Errorf("scene: name %q already assigned to node %s", name, other.Short())
	}
	if n.Name != "" && n.Name != name {
		return fmt.Errorf("scene: node %s is already named %q", id.Short(), n.Name)
	}
	n.Name = name
	s.NameIndex[name] = id
	return nil
}

// AddRoot registers a node ID as a root of the scene. Adding the same root
// twice is a no-op.
func (s *Scene) AddRoot(id NodeID) {
	for _, r := range s.Roots {
		if r == id {
			return
		}
	}
	s.Roots = append(s.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Children returns the child nodes of the given node, skipping dangling
// references.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}

// Hashes returns the content hash of every node: its kind, data and the
// scene defaults, followed by the hashes of its children in order. Nodes on
// a cycle or with dangling children still get a hash, but it is only
// meaningful for valid scenes.
func (s *Scene) Hashes() map[NodeID]ContentHash {
	hashes := make(map[NodeID]ContentHash, len(s.Nodes))
	visiting := make(map[NodeID]bool)

	var hash func(id NodeID) ContentHash
	hash = func(id NodeID) ContentHash {
		if h, ok := hashes[id]; ok {
			return h
		}
		n := s.Nodes[id]
		if n == nil || visiting[id] {
			return ContentHash{}
		}
		visiting[id] = true
		defer delete(visiting, id)

		w := sha256.New()
		data, err := json.Marshal(n.Data)
		if err != nil {
			// Node data is plain structs of numbers.
			panic(fmt.Sprintf("scene: encode %s data: %v", id.Short(), err))
		}
		// Defaults stand in for zero resolutions, so they are part of the content.
		fmt.Fprintf(w, "%s|%T|%s|%d/%d|%d", n.Kind, n.Data, data, s.Defaults.Segments, s.Defaults.Rings, len(n.Children))
		for _, c := range n.Children {
			ch := hash(c)
			w.Write(ch[:])
		}
		var h ContentHash
		copy(h[:], w.Sum(nil))
		hashes[id] = h
		return h
	}

	for id := range s.Nodes {
		hash(id)
	}
	return hashes
}
