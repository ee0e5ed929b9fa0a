package csg

// Node is a BSP tree node. Polygons holds the polygons lying on the node's
// dividing plane; Front and Back partition the rest of space. A node without
// a divider is an empty leaf. Every node exclusively owns its polygons and
// children, so trees never share structure.
type Node struct {
	divider  *Plane
	Polygons []*Polygon
	Front    *Node
	Back     *Node
}

// NewNode builds a tree from polys. An empty list yields an empty leaf.
func NewNode(polys []*Polygon) *Node {
	n := &Node{}
	n.Build(polys)
	return n
}

// Divider returns the dividing plane of n, or false for an empty leaf.
func (n *Node) Divider() (Plane, bool) {
	if n.divider == nil {
		return Plane{}, false
	}
	return *n.divider, true
}

// Build inserts polys into the tree. A node without a divider adopts the
// plane of the first polygon. Polygons on the divider are kept at this node;
// the rest are pushed into the front and back subtrees, which are created on
// demand. Calling Build again extends the existing partition.
func (n *Node) Build(polys []*Polygon) {
	if len(polys) == 0 {
		return
	}
	if n.divider == nil {
		d := polys[0].Plane
		n.divider = &d
	}

	var front, back []*Polygon
	for _, p := range polys {
		n.divider.SplitPolygon(p, &n.Polygons, &n.Polygons, &front, &back)
	}

	if len(front) > 0 {
		if n.Front == nil {
			n.Front = &Node{}
		}
		n.Front.Build(front)
	}
	if len(back) > 0 {
		if n.Back == nil {
			n.Back = &Node{}
		}
		n.Back.Build(back)
	}
}

// Clone returns a deep copy of the tree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Polygons: clonePolygons(n.Polygons),
		Front:    n.Front.Clone(),
		Back:     n.Back.Clone(),
	}
	if n.divider != nil {
		d := *n.divider
		c.divider = &d
	}
	return c
}

// Invert swaps solid and empty space: every polygon and divider is flipped
// and the front and back subtrees trade places.
func (n *Node) Invert() {
	for _, p := range n.Polygons {
		p.Flip()
	}
	if n.divider != nil {
		n.divider.Flip()
	}
	if n.Front != nil {
		n.Front.Invert()
	}
	if n.Back != nil {
		n.Back.Invert()
	}
	n.Front, n.Back = n.Back, n.Front
}

// ClipPolygons removes the parts of polys that lie inside the solid
// represented by n and returns what remains. Coplanar pieces follow their
// facing direction. Anything that ends up behind a node without a back
// child is inside the solid and is dropped.
func (n *Node) ClipPolygons(polys []*Polygon) []*Polygon {
	if n.divider == nil {
		out := make([]*Polygon, len(polys))
		copy(out, polys)
		return out
	}

	var front, back []*Polygon
	for _, p := range polys {
		n.divider.SplitPolygon(p, &front, &back, &front, &back)
	}

	if n.Front != nil {
		front = n.Front.ClipPolygons(front)
	}
	if n.Back != nil {
		back = n.Back.ClipPolygons(back)
	} else {
		back = nil
	}
	return append(front, back...)
}

// ClipTo removes from every node of n the polygons that lie inside other.
func (n *Node) ClipTo(other *Node) {
	n.Polygons = other.ClipPolygons(n.Polygons)
	if n.Front != nil {
		n.Front.ClipTo(other)
	}
	if n.Back != nil {
		n.Back.ClipTo(other)
	}
}

// AllPolygons returns every polygon in the tree, node first, then the front
// subtree, then the back subtree.
func (n *Node) AllPolygons() []*Polygon {
	polys := make([]*Polygon, 0, len(n.Polygons))
	polys = append(polys, n.Polygons...)
	if n.Front != nil {
		polys = append(polys, n.Front.AllPolygons()...)
	}
	if n.Back != nil {
		polys = append(polys, n.Back.AllPolygons()...)
	}
	return polys
}

// PolygonCount returns the number of polygons stored in the tree.
func (n *Node) PolygonCount() int {
	count := len(n.Polygons)
	if n.Front != nil {
		count += n.Front.PolygonCount()
	}
	if n.Back != nil {
		count += n.Back.PolygonCount()
	}
	return count
}

// Depth returns the number of levels in the tree; an empty leaf has depth 0.
func (n *Node) Depth() int {
	if n.divider == nil {
		return 0
	}
	d := 0
	if n.Front != nil {
		d = n.Front.Depth()
	}
	if n.Back != nil {
		if b := n.Back.Depth(); b > d {
			d = b
		}
	}
	return d + 1
}
