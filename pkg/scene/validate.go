package scene

import (
	"fmt"

	"github.com/chazu/lignin-csg/pkg/csg"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Errors returns only the error-severity findings of errs.
func Errors(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// Validate runs all structural validation checks on the scene and returns
// the findings. A result with no error-severity entries means the scene can
// be tessellated. Validate never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateKinds(s)...)
	errs = append(errs, validateDimensions(s)...)
	return errs
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
// If we encounter a gray node during traversal, we have found a cycle.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	// Start DFS from every node to catch disconnected components.
	for id := range s.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every child reference points to a node
// that exists.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that every NameIndex entry points to an existing node
// carrying that name and that no two nodes share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		n, ok := s.Nodes[id]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if n.Name != name {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("name index entry %q does not match node name %q", name, n.Name),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root references an existing node, warns
// when there are no roots, and warns about orphan nodes (nodes unreachable
// from any root).
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(s.Nodes) == 0 {
		return errs
	}
	if len(s.Roots) == 0 {
		errs = append(errs, ValidationError{
			Message:  "scene has nodes but no output roots",
			Severity: SeverityWarning,
		})
	}

	// BFS from all roots through Children edges.
	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(s.Roots))
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := s.Nodes[current]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range s.Nodes {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", node.Label()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateKinds checks that each node's data matches its kind and that it
// has the number of children its kind requires.
func validateKinds(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range s.Nodes {
		switch n.Kind {
		case NodePrimitive:
			switch n.Data.(type) {
			case BoxData, CylinderData, SphereData:
			default:
				bad(n, "primitive has unsupported data type %T", n.Data)
			}
			if len(n.Children) != 0 {
				bad(n, "primitive has %d children, want none", len(n.Children))
			}

		case NodeTransform:
			if _, ok := n.Data.(TransformData); !ok {
				bad(n, "transform has unexpected data type %T", n.Data)
			}
			if len(n.Children) != 1 {
				bad(n, "transform has %d children, want 1", len(n.Children))
			}

		case NodeBoolean:
			d, ok := n.Data.(BooleanData)
			if !ok {
				bad(n, "boolean has unexpected data type %T", n.Data)
				break
			}
			switch d.Op {
			case csg.Union, csg.Subtract, csg.Intersect:
			default:
				bad(n, "boolean has unknown operation %s", d.Op)
			}
			if len(n.Children) < 2 {
				bad(n, "%s needs at least 2 operands, got %d", d.Op, len(n.Children))
			}

		case NodeGroup:
			if _, ok := n.Data.(GroupData); !ok {
				bad(n, "group has unexpected data type %T", n.Data)
			}
			if len(n.Children) == 0 {
				errs = append(errs, ValidationError{
					NodeID:   n.ID,
					Message:  fmt.Sprintf("group %q is empty", n.Label()),
					Severity: SeverityWarning,
				})
			}

		default:
			bad(n, "unknown node kind %d", int(n.Kind))
		}
	}
	return errs
}

// validateDimensions checks that primitive dimensions are positive, that
// explicit resolutions are large enough to close the surface, and that
// transform scales are invertible.
func validateDimensions(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(n *Node, format string, args ...any) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range s.Nodes {
		switch d := n.Data.(type) {
		case BoxData:
			if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
				bad(n, "box size (%g, %g, %g) must be positive", d.Size.X, d.Size.Y, d.Size.Z)
			}
		case CylinderData:
			if d.Height <= 0 || d.Radius <= 0 {
				bad(n, "cylinder height %g and radius %g must be positive", d.Height, d.Radius)
			}
			if d.Segments != 0 && d.Segments < 3 {
				bad(n, "cylinder segments %d must be at least 3", d.Segments)
			}
		case SphereData:
			if d.Radius <= 0 {
				bad(n, "sphere radius %g must be positive", d.Radius)
			}
			if d.Segments != 0 && d.Segments < 3 {
				bad(n, "sphere segments %d must be at least 3", d.Segments)
			}
			if d.Rings != 0 && d.Rings < 2 {
				bad(n, "sphere rings %d must be at least 2", d.Rings)
			}
		case TransformData:
			if d.Scale != nil && (d.Scale.X == 0 || d.Scale.Y == 0 || d.Scale.Z == 0) {
				bad(n, "transform scale (%g, %g, %g) is singular", d.Scale.X, d.Scale.Y, d.Scale.Z)
			}
		}
	}
	return errs
}
