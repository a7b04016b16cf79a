package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodePolygon   NodeKind = iota // polygon from a vertex loop
	NodeBox                       // axis-aligned box
	NodeTransform                 // affine placement of one child
	NodeBoolean                   // set operation over children
	NodeGroup                     // scene grouping named regions
)

func (k NodeKind) String() string {
	switch k {
	case NodePolygon:
		return "polygon"
	case NodeBox:
		return "box"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether nodes of kind k carry their own geometry.
func (k NodeKind) IsPrimitive() bool {
	return k == NodePolygon || k == NodeBox
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// DisplayName returns the node name, or its short ID when unnamed.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}
