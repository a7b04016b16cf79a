package bsp

import "math"

// DefaultTolerance is the distance below which a point is considered to
// lie on a cut hyperplane.
const DefaultTolerance = 1e-10

// Attribute is the payload carried by a tree node. Leaves carry a Flag,
// boundary-annotated internal nodes carry a *BoundaryAttribute.
type Attribute interface {
	attribute() // marker method restricting implementations to this package
}

// Flag marks a leaf cell as inside (true) or outside (false) the region.
type Flag bool

func (Flag) attribute() {}

// BoundaryAttribute records which parts of an internal node's cut belong
// to the region boundary. PlusOutside is the part with the outside of the
// region on the plus side of the cut, PlusInside the part with the inside
// on the plus side. Either may be nil.
type BoundaryAttribute[P any] struct {
	PlusOutside SubHyperplane[P]
	PlusInside  SubHyperplane[P]
}

func (*BoundaryAttribute[P]) attribute() {}

// Node is a node of a BSP tree. A node is either a leaf (no cut) or an
// internal node with a cut and exactly two children.
type Node[P any] struct {
	cut    SubHyperplane[P]
	plus   *Node[P]
	minus  *Node[P]
	parent *Node[P] // non-owning back-reference, nil at the root
	attr   Attribute
}

// NewLeaf returns a leaf node carrying attr.
func NewLeaf[P any](attr Attribute) *Node[P] {
	return &Node[P]{attr: attr}
}

// NewInternal returns an internal node with the given cut and children.
// The children are re-parented to the new node.
func NewInternal[P any](cut SubHyperplane[P], plus, minus *Node[P], attr Attribute) *Node[P] {
	n := &Node[P]{cut: cut, plus: plus, minus: minus, attr: attr}
	plus.parent = n
	minus.parent = n
	return n
}

func (n *Node[P]) Cut() SubHyperplane[P] { return n.cut }
func (n *Node[P]) Plus() *Node[P]        { return n.plus }
func (n *Node[P]) Minus() *Node[P]       { return n.minus }
func (n *Node[P]) Parent() *Node[P]      { return n.parent }
func (n *Node[P]) Attribute() Attribute  { return n.attr }

// SetAttribute replaces the node payload.
func (n *Node[P]) SetAttribute(a Attribute) { n.attr = a }

// IsLeaf reports whether the node has no cut.
func (n *Node[P]) IsLeaf() bool { return n.cut == nil }

// IsInside reports whether n is a leaf flagged as inside.
func (n *Node[P]) IsInside() bool {
	f, ok := n.attr.(Flag)
	return ok && n.cut == nil && bool(f)
}

// IsEmpty reports whether no leaf below n is inside.
func (n *Node[P]) IsEmpty() bool {
	if n.cut == nil {
		return !n.IsInside()
	}
	return n.minus.IsEmpty() && n.plus.IsEmpty()
}

// InsertCut installs h, restricted to the node's cell, as the node's cut.
// It returns false and leaves the node a leaf when the restriction is
// empty. On success both children are fresh leaves with no attribute;
// the caller assigns them. Any previous subtrees are discarded.
func (n *Node[P]) InsertCut(h Hyperplane[P]) bool {
	if n.cut != nil {
		n.plus.parent = nil
		n.minus.parent = nil
	}
	chopped := n.fitToCell(h.WholeHyperplane())
	if chopped == nil || chopped.IsEmpty() {
		n.cut = nil
		n.plus = nil
		n.minus = nil
		return false
	}
	n.cut = chopped
	n.plus = &Node[P]{parent: n}
	n.minus = &Node[P]{parent: n}
	return true
}

// fitToCell restricts sub to the cell of n by splitting it with every
// ancestor cut.
func (n *Node[P]) fitToCell(sub SubHyperplane[P]) SubHyperplane[P] {
	s := sub
	for t := n; t.parent != nil && s != nil; t = t.parent {
		plus, minus := s.Split(t.parent.cut.Hyperplane())
		if t == t.parent.plus {
			s = plus
		} else {
			s = minus
		}
	}
	return s
}

// Cell descends to the leaf containing p. When p lies within tolerance of
// a cut hyperplane the internal node owning that cut is returned instead.
func (n *Node[P]) Cell(p P, tolerance float64) *Node[P] {
	if n.cut == nil {
		return n
	}
	offset := n.cut.Hyperplane().Offset(p)
	if math.Abs(offset) < tolerance {
		return n
	}
	if offset <= 0 {
		return n.minus.Cell(p, tolerance)
	}
	return n.plus.Cell(p, tolerance)
}

// Classify locates p in the subtree rooted at n. A point lying on a cut
// whose two sides disagree is on the boundary.
func (n *Node[P]) Classify(p P, tolerance float64) Location {
	cell := n.Cell(p, tolerance)
	if cell.cut == nil {
		if cell.IsInside() {
			return Inside
		}
		return Outside
	}
	minusLoc := cell.minus.Classify(p, tolerance)
	plusLoc := cell.plus.Classify(p, tolerance)
	if minusLoc == plusLoc {
		return minusLoc
	}
	return Boundary
}

// Visitor walks a tree. VisitOrder is asked at every internal node.
type Visitor[P any] interface {
	VisitOrder(n *Node[P]) Order
	VisitInternalNode(n *Node[P])
	VisitLeafNode(n *Node[P])
}

// Visit walks the subtree rooted at n.
func (n *Node[P]) Visit(v Visitor[P]) {
	if n.cut == nil {
		v.VisitLeafNode(n)
		return
	}
	switch v.VisitOrder(n) {
	case PlusMinusSub:
		n.plus.Visit(v)
		n.minus.Visit(v)
		v.VisitInternalNode(n)
	case PlusSubMinus:
		n.plus.Visit(v)
		v.VisitInternalNode(n)
		n.minus.Visit(v)
	case MinusPlusSub:
		n.minus.Visit(v)
		n.plus.Visit(v)
		v.VisitInternalNode(n)
	case MinusSubPlus:
		n.minus.Visit(v)
		v.VisitInternalNode(n)
		n.plus.Visit(v)
	case SubPlusMinus:
		v.VisitInternalNode(n)
		n.plus.Visit(v)
		n.minus.Visit(v)
	case SubMinusPlus:
		v.VisitInternalNode(n)
		n.minus.Visit(v)
		n.plus.Visit(v)
	default:
		panic(internalError("unknown visit order %d", v.VisitOrder(n)))
	}
}

// CopySelf returns a structural deep copy of the subtree rooted at n.
// Cuts are copied, attributes are shared.
func (n *Node[P]) CopySelf() *Node[P] {
	if n.cut == nil {
		return NewLeaf[P](n.attr)
	}
	return NewInternal(n.cut.CopySelf(), n.plus.CopySelf(), n.minus.CopySelf(), n.attr)
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func (n *Node[P]) Depth() int {
	if n.cut == nil {
		return 1
	}
	return 1 + max(n.plus.Depth(), n.minus.Depth())
}

// LeafCount returns the number of leaves below n.
func (n *Node[P]) LeafCount() int {
	if n.cut == nil {
		return 1
	}
	return n.plus.LeafCount() + n.minus.LeafCount()
}
