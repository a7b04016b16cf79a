package graph

import "fmt"

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PolygonData is a polygon given by its boundary vertices. A
// counter-clockwise loop encloses a bounded region.
type PolygonData struct {
	Thickness float64 `json:"thickness"` // snapping distance for nearly collinear vertices
	Vertices  []Vec2  `json:"vertices"`
}

func (PolygonData) nodeData() {}

// SignedArea returns the shoelace area of the vertex loop, positive for a
// counter-clockwise loop.
func (d PolygonData) SignedArea() float64 {
	n := len(d.Vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i, p := range d.Vertices {
		q := d.Vertices[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// BoxData is the axis-aligned box [XMin, XMax] x [YMin, YMax].
type BoxData struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

func (BoxData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its single child. The child is scaled first, then
// rotated around the origin, then translated.
type TransformData struct {
	Translation *Vec2   `json:"translation,omitempty"`
	Rotation    float64 `json:"rotation,omitempty"` // degrees, counter-clockwise
	Scale       *Vec2   `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BoolOp enumerates the set operations.
type BoolOp int

const (
	OpUnion        BoolOp = iota // children folded with union
	OpIntersection               // children folded with intersection
	OpDifference                 // first child minus second
	OpXor                        // symmetric difference of two children
	OpComplement                 // complement of the single child
)

func (op BoolOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	case OpXor:
		return "xor"
	case OpComplement:
		return "complement"
	default:
		return fmt.Sprintf("BoolOp(%d)", int(op))
	}
}

// Arity returns the allowed operand counts. hi < 0 means unbounded.
func (op BoolOp) Arity() (lo, hi int) {
	switch op {
	case OpUnion, OpIntersection:
		return 2, -1
	case OpDifference, OpXor:
		return 2, 2
	case OpComplement:
		return 1, 1
	default:
		return 0, 0
	}
}

// Accepts reports whether op can take n operands.
func (op BoolOp) Accepts(n int) bool {
	lo, hi := op.Arity()
	return lo > 0 && n >= lo && (hi < 0 || n <= hi)
}

// ArityText describes the allowed operand counts, e.g. "want exactly 2".
func (op BoolOp) ArityText() string {
	lo, hi := op.Arity()
	switch {
	case hi < 0:
		return fmt.Sprintf("want at least %d", lo)
	case lo == hi:
		return fmt.Sprintf("want exactly %d", lo)
	default:
		return fmt.Sprintf("want %d to %d", lo, hi)
	}
}

// BooleanData selects the set operation of a boolean node.
type BooleanData struct {
	Op BoolOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a scene. Each child of a root group is reported as
// a separate named region; a group used as an operand is the union of its
// children.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
