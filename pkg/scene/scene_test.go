package scene

import (
	"encoding/json"
	"testing"

	"github.com/chazu/lignin-csg/pkg/csg"
)

func TestNewScene(t *testing.T) {
	s := New()
	if s.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if s.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if s.Defaults.Segments != DefaultSegments {
		t.Errorf("default segments = %d, want %d", s.Defaults.Segments, DefaultSegments)
	}
	if s.Defaults.Rings != DefaultRings {
		t.Errorf("default rings = %d, want %d", s.Defaults.Rings, DefaultRings)
	}
	if s.NodeCount() != 0 {
		t.Errorf("empty scene should have 0 nodes, got %d", s.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	s := New()

	id := NewNodeID("box/plate")
	s.AddNode(&Node{
		ID:   id,
		Kind: NodePrimitive,
		Name: "plate",
		Data: BoxData{Size: Vec3{100, 50, 5}},
	})
	s.AddRoot(id)
	s.AddRoot(id)

	if s.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", s.NodeCount())
	}

	found := s.Lookup("plate")
	if found == nil {
		t.Fatal("Lookup('plate') returned nil")
	}
	if found.ID != id {
		t.Errorf("lookup returned wrong node")
	}
	if must := s.MustLookup("plate"); must.ID != id {
		t.Errorf("MustLookup returned wrong node")
	}
	if s.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}
	if got := s.Get(id); got == nil || got.Name != "plate" {
		t.Errorf("Get by ID failed")
	}
	if len(s.Roots) != 1 || s.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", s.Roots, id.Short())
	}
}

func TestMustLookupPanics(t *testing.T) {
	s := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	s.MustLookup("missing")
}

func TestSetName(t *testing.T) {
	s := New()
	a := NewNodeID("box/a")
	b := NewNodeID("box/b")
	s.AddNode(&Node{ID: a, Kind: NodePrimitive, Data: BoxData{Size: Vec3{1, 1, 1}}})
	s.AddNode(&Node{ID: b, Kind: NodePrimitive, Data: BoxData{Size: Vec3{1, 1, 1}}})

	if err := s.SetName(a, "left"); err != nil {
		t.Fatalf("SetName(a, left) error = %v", err)
	}
	if s.Lookup("left") == nil || s.Get(a).Name != "left" {
		t.Error("SetName did not register the name")
	}
	// Renaming to the same name is allowed.
	if err := s.SetName(a, "left"); err != nil {
		t.Errorf("SetName(a, left) again error = %v", err)
	}
	if err := s.SetName(b, "left"); err == nil {
		t.Error("SetName(b, left) should fail: name taken")
	}
	if err := s.SetName(a, "right"); err == nil {
		t.Error("SetName(a, right) should fail: already named")
	}
	if err := s.SetName(NewNodeID("missing"), "x"); err == nil {
		t.Error("SetName on a missing node should fail")
	}
}

func TestChildren(t *testing.T) {
	s := New()

	childID := NewNodeID("box/shelf")
	parentID := NewNodeID("group/rack")
	s.AddNode(&Node{
		ID: childID, Kind: NodePrimitive, Name: "shelf",
		Data: BoxData{Size: Vec3{600, 300, 19}},
	})
	s.AddNode(&Node{
		ID: parentID, Kind: NodeGroup, Name: "rack",
		Children: []NodeID{childID, NewNodeID("dangling")},
		Data:     GroupData{},
	})

	children := s.Children(s.Get(parentID))
	if len(children) != 1 {
		t.Fatalf("Children count = %d, want 1", len(children))
	}
	if children[0].Name != "shelf" {
		t.Errorf("child name = %q, want %q", children[0].Name, "shelf")
	}
}

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("box/front")
	b := NewNodeID("box/front")
	if a != b {
		t.Error("same path should produce same NodeID")
	}
	if c := NewNodeID("box/back"); a == c {
		t.Error("different paths should produce different NodeIDs")
	}
}

func TestNodeIDZero(t *testing.T) {
	var id NodeID
	if !id.IsZero() {
		t.Error("zero-value NodeID should be zero")
	}
	if NewNodeID("something").IsZero() {
		t.Error("non-zero NodeID should not be zero")
	}
}

func TestNodeIDText(t *testing.T) {
	id := NewNodeID("sphere/ball")
	if len(id.Short()) != 8 {
		t.Errorf("Short() len = %d, want 8", len(id.Short()))
	}
	if len(id.String()) != 64 {
		t.Errorf("String() len = %d, want 64", len(id.String()))
	}

	b, err := json.Marshal(map[string]NodeID{"id": id})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]NodeID
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["id"] != id {
		t.Errorf("round trip = %s, want %s", back["id"].Short(), id.Short())
	}

	var bad NodeID
	if err := bad.UnmarshalText([]byte("abc")); err == nil {
		t.Error("UnmarshalText should reject short input")
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	if sum := a.Add(Vec3{4, 5, 6}); sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5, 7, 9)", sum)
	}
	if a.IsZero() || !(Vec3{}).IsZero() {
		t.Error("IsZero mismatch")
	}
	if v := a.V3(); v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("V3 = %v", v)
	}
}

func TestNodeDataInterface(t *testing.T) {
	var _ NodeData = BoxData{}
	var _ NodeData = CylinderData{}
	var _ NodeData = SphereData{}
	var _ NodeData = TransformData{}
	var _ NodeData = BooleanData{}
	var _ NodeData = GroupData{}
}

func TestStringers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{NodePrimitive.String(), "primitive"},
		{NodeBoolean.String(), "boolean"},
		{NodeKind(42).String(), "unknown"},
		{SeverityWarning.String(), "warning"},
		{ValidationSeverity(7).String(), "ValidationSeverity(7)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	id := NewNodeID("box/x")
	if got := (&Node{ID: id}).Label(); got != id.Short() {
		t.Errorf("Label() = %q, want short id", got)
	}
	if got := (&Node{ID: id, Name: "x"}).Label(); got != "x" {
		t.Errorf("Label() = %q, want %q", got, "x")
	}
}

// twoBoxUnion builds union(box a, place(box b)) as a root, with the given
// names and box sizes.
func twoBoxUnion(prefix string, sizeA, sizeB Vec3) *Scene {
	s := New()
	a := NewNodeID(prefix + "/a")
	b := NewNodeID(prefix + "/b")
	p := NewNodeID(prefix + "/place")
	u := NewNodeID(prefix + "/union")
	at := Vec3{0.5, 0.5, 0.5}
	s.AddNode(&Node{ID: a, Kind: NodePrimitive, Name: prefix + "-a", Data: BoxData{Size: sizeA}})
	s.AddNode(&Node{ID: b, Kind: NodePrimitive, Data: BoxData{Size: sizeB}})
	s.AddNode(&Node{ID: p, Kind: NodeTransform, Children: []NodeID{b}, Data: TransformData{Translation: &at}})
	s.AddNode(&Node{ID: u, Kind: NodeBoolean, Children: []NodeID{a, p}, Data: BooleanData{Op: csg.Union}})
	s.AddRoot(u)
	return s
}

func TestHashesIgnoreNamesAndIDs(t *testing.T) {
	one := twoBoxUnion("one", Vec3{1, 1, 1}, Vec3{1, 1, 1})
	two := twoBoxUnion("two", Vec3{1, 1, 1}, Vec3{1, 1, 1})

	h1 := one.Hashes()[one.Roots[0]]
	h2 := two.Hashes()[two.Roots[0]]
	if h1 != h2 {
		t.Errorf("equal content hashed differently: %s vs %s", h1.Short(), h2.Short())
	}
	if len(one.Hashes()) != one.NodeCount() {
		t.Errorf("Hashes() returned %d entries, want %d", len(one.Hashes()), one.NodeCount())
	}
}

func TestHashesTrackContent(t *testing.T) {
	base := twoBoxUnion("s", Vec3{1, 1, 1}, Vec3{1, 1, 1})
	bigger := twoBoxUnion("s", Vec3{1, 1, 1}, Vec3{2, 1, 1})

	hb := base.Hashes()
	hg := bigger.Hashes()
	if hb[base.Roots[0]] == hg[bigger.Roots[0]] {
		t.Error("changing a leaf should change the root hash")
	}
	a := NewNodeID("s/a")
	if hb[a] != hg[a] {
		t.Error("unchanged sibling should keep its hash")
	}

	// Operand order matters.
	swapped := twoBoxUnion("s", Vec3{1, 1, 1}, Vec3{1, 1, 1})
	root := swapped.Get(swapped.Roots[0])
	root.Children[0], root.Children[1] = root.Children[1], root.Children[0]
	if swapped.Hashes()[root.ID] == hb[base.Roots[0]] {
		t.Error("reordering operands should change the hash")
	}

	// Defaults stand in for zero resolutions.
	coarse := New()
	coarse.Defaults.Segments = 8
	fine := New()
	cyl := &Node{ID: NewNodeID("c"), Kind: NodePrimitive, Data: CylinderData{Height: 1, Radius: 1}}
	coarse.AddNode(cyl)
	fine.AddNode(cyl)
	if coarse.Hashes()[cyl.ID] == fine.Hashes()[cyl.ID] {
		t.Error("changing defaults should change the hash of default-resolution primitives")
	}
}

func TestHashesSurviveCycles(t *testing.T) {
	s := New()
	a := NewNodeID("a")
	b := NewNodeID("b")
	s.AddNode(&Node{ID: a, Kind: NodeGroup, Children: []NodeID{b}, Data: GroupData{}})
	s.AddNode(&Node{ID: b, Kind: NodeGroup, Children: []NodeID{a}, Data: GroupData{}})
	if got := len(s.Hashes()); got != 2 {
		t.Errorf("Hashes() on a cycle returned %d entries, want 2", got)
	}
}
