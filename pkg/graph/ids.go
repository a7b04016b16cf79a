package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier: the SHA-256 of the node path.
type NodeID [32]byte

// ZeroID is the unset NodeID.
var ZeroID NodeID

// NewNodeID derives the ID of the node living at path, e.g. "polygon/plate".
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

func (id NodeID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first eight hex digits, enough for messages.
func (id NodeID) Short() string { return id.String()[:8] }

func (id NodeID) IsZero() bool { return id == ZeroID }

// MarshalText lets NodeID serve as a JSON map key.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NodeID) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("graph: bad node id %q: %w", text, err)
	}
	if len(b) != len(id) {
		return fmt.Errorf("graph: node id %q has %d bytes, want %d", text, len(b), len(id))
	}
	copy(id[:], b)
	return nil
}

// ContentHash fingerprints a node's kind, children and payload.
type ContentHash [32]byte

// HashContent computes the content hash of n.
func HashContent(n *Node) ContentHash {
	h := sha256.New()
	fmt.Fprintf(h, "%d|", n.Kind)
	for _, c := range n.Children {
		h.Write(c[:])
	}
	fmt.Fprintf(h, "|%#v", n.Data)
	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

func (c ContentHash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(c[:])), nil
}

// SourceRef locates the script expression a node came from.
type SourceRef struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
}

// Vec2 is a point or displacement in the plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
