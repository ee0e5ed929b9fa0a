package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier for scene nodes: the sha256 of
// the node's construction path.
type NodeID [32]byte

// ZeroID is the unset NodeID.
var ZeroID NodeID

// NewNodeID derives a NodeID from a path such as "box/_anon_3".
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// String returns the full hex encoding.
func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 8 hex characters, for logs and messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:4])
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(b []byte) error {
	if len(b) != 2*len(id) {
		return fmt.Errorf("scene: node id %q: want %d hex characters", b, 2*len(id))
	}
	_, err := hex.Decode(id[:], b)
	if err != nil {
		return fmt.Errorf("scene: node id %q: %w", b, err)
	}
	return nil
}

// ContentHash identifies a subtree by what it builds: node kinds, data and
// child hashes, but not names or IDs. Equal hashes produce equal solids.
type ContentHash [32]byte

// Short returns the first 8 hex characters.
func (h ContentHash) Short() string {
	return hex.EncodeToString(h[:4])
}
