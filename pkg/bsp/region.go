package bsp

import (
	"sort"
	"sync"
)

// Region is a subset of space represented by a BSP tree. A region is
// immutable once built: its size, barycenter and boundary annotation are
// computed on first use and cached, so it can be shared between
// goroutines. The boundary annotation lives on a private copy of the
// tree; the tree returned by Tree(false) is never written to.
type Region[P any] struct {
	tree      *Node[P]
	geometry  Geometry[P]
	tolerance float64

	boundaryOnce sync.Once
	annotated    *Node[P]
	boundaryErr  error

	propsOnce  sync.Once
	size       float64
	barycenter P
}

// NewRegion wraps tree. A nil tree stands for the whole space.
func NewRegion[P any](tree *Node[P], geometry Geometry[P]) *Region[P] {
	return NewRegionWithTolerance(tree, geometry, DefaultTolerance)
}

// NewRegionWithTolerance wraps tree, classifying points closer than
// tolerance to a cut as lying on it. Tolerances below DefaultTolerance
// are raised to it.
func NewRegionWithTolerance[P any](tree *Node[P], geometry Geometry[P], tolerance float64) *Region[P] {
	if tree == nil {
		tree = NewLeaf[P](Flag(true))
	}
	if !(tolerance >= DefaultTolerance) {
		tolerance = DefaultTolerance
	}
	return &Region[P]{tree: tree, geometry: geometry, tolerance: tolerance}
}

// NewRegionFromHyperplanes builds the convex region lying on the minus
// side of every hyperplane. Hyperplanes that do not cut the remaining
// cell are skipped. With no hyperplanes the region is the whole space.
func NewRegionFromHyperplanes[P any](geometry Geometry[P], hyperplanes ...Hyperplane[P]) *Region[P] {
	tree := NewLeaf[P](Flag(true))
	node := tree
	for i, h := range hyperplanes {
		if !node.InsertCut(h) {
			log.Debugf("hyperplane %d does not cut the current cell, skipped", i)
			continue
		}
		node.attr = nil
		node.plus.attr = Flag(false)
		node = node.minus
		node.attr = Flag(true)
	}
	return NewRegion(tree, geometry)
}

// NewRegionFromBoundary builds a region from an unordered collection of
// boundary pieces. The inside of the region must lie on the minus side of
// every piece. An empty boundary yields the whole space.
func NewRegionFromBoundary[P any](geometry Geometry[P], boundary []SubHyperplane[P]) *Region[P] {
	if len(boundary) == 0 {
		return NewRegion(NewLeaf[P](Flag(true)), geometry)
	}

	ordered := make([]SubHyperplane[P], len(boundary))
	copy(ordered, boundary)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Size() > ordered[j].Size()
	})

	tree := &Node[P]{}
	insertCuts(tree, ordered)
	tree.Visit(leafFlagger[P]{})
	return NewRegion(tree, geometry)
}

func insertCuts[P any](node *Node[P], boundary []SubHyperplane[P]) {
	var inserted Hyperplane[P]
	i := 0
	for inserted == nil && i < len(boundary) {
		h := boundary[i].Hyperplane()
		i++
		if node.InsertCut(h.CopySelf()) {
			inserted = h
		}
	}
	if inserted == nil || i == len(boundary) {
		return
	}

	var plusList, minusList []SubHyperplane[P]
	for _, other := range boundary[i:] {
		switch other.Side(inserted) {
		case SidePlus:
			plusList = append(plusList, other)
		case SideMinus:
			minusList = append(minusList, other)
		case SideBoth:
			plus, minus := other.Split(inserted)
			if plus != nil {
				plusList = append(plusList, plus)
			}
			if minus != nil {
				minusList = append(minusList, minus)
			}
		default:
			// pieces lying on the cut hyperplane are already represented
		}
	}

	insertCuts(node.plus, plusList)
	insertCuts(node.minus, minusList)
}

// leafFlagger marks minus children (and a lone root) inside and plus
// children outside.
type leafFlagger[P any] struct{}

func (leafFlagger[P]) VisitOrder(*Node[P]) Order  { return PlusSubMinus }
func (leafFlagger[P]) VisitInternalNode(*Node[P]) {}
func (leafFlagger[P]) VisitLeafNode(n *Node[P]) {
	n.attr = Flag(n.parent == nil || n == n.parent.minus)
}

// BuildNew wraps tree in a region of the same geometry as r.
func (r *Region[P]) BuildNew(tree *Node[P]) *Region[P] {
	return NewRegionWithTolerance(tree, r.geometry, r.tolerance)
}

// CopySelf returns a region backed by a deep copy of r's tree.
func (r *Region[P]) CopySelf() *Region[P] {
	return r.BuildNew(r.tree.CopySelf())
}

// Tolerance returns the distance under which points are considered to lie
// on a cut.
func (r *Region[P]) Tolerance() float64 { return r.tolerance }

// Tree returns the underlying tree. With includeBoundary set, it returns
// an annotated copy in which every internal node carries a
// *BoundaryAttribute; the copy is built once and must not be modified.
// Annotating a tree that was not built consistently panics with an error
// wrapping ErrInternal.
func (r *Region[P]) Tree(includeBoundary bool) *Node[P] {
	if !includeBoundary || r.tree.cut == nil {
		return r.tree
	}
	r.boundaryOnce.Do(func() {
		defer func() {
			if v := recover(); v != nil {
				r.annotated, r.boundaryErr = nil, Recovered(v)
			}
		}()
		annotated := r.tree.CopySelf()
		annotated.Visit(boundaryBuilder[P]{})
		r.annotated = annotated
	})
	if r.boundaryErr != nil {
		panic(r.boundaryErr)
	}
	return r.annotated
}

// IsEmpty reports whether the region contains no point.
func (r *Region[P]) IsEmpty() bool {
	return r.tree.IsEmpty()
}

// IsFull reports whether the region is the whole space.
func (r *Region[P]) IsFull() bool {
	return r.tree.cut == nil && r.tree.IsInside()
}

// Contains reports whether other is a subset of r.
func (r *Region[P]) Contains(other *Region[P]) bool {
	return Difference(other, r).IsEmpty()
}

// CheckPoint classifies p against the region.
func (r *Region[P]) CheckPoint(p P) Location {
	return r.tree.Classify(p, r.tolerance)
}

// Size returns the region size (length, area...). It is +Inf for
// unbounded regions.
func (r *Region[P]) Size() float64 {
	r.computeProperties()
	return r.size
}

// Barycenter returns the region barycenter.
func (r *Region[P]) Barycenter() P {
	r.computeProperties()
	return r.barycenter
}

func (r *Region[P]) computeProperties() {
	r.propsOnce.Do(func() {
		r.size, r.barycenter = r.geometry.Properties(r)
	})
}

// BoundarySize returns the size of the region boundary.
func (r *Region[P]) BoundarySize() float64 {
	v := &boundarySizer[P]{}
	r.Tree(true).Visit(v)
	return v.size
}

type boundarySizer[P any] struct {
	size float64
}

func (v *boundarySizer[P]) VisitOrder(*Node[P]) Order { return MinusSubPlus }
func (v *boundarySizer[P]) VisitLeafNode(*Node[P])    {}
func (v *boundarySizer[P]) VisitInternalNode(n *Node[P]) {
	attr, ok := n.attr.(*BoundaryAttribute[P])
	if !ok {
		return
	}
	if attr.PlusOutside != nil {
		v.size += attr.PlusOutside.Size()
	}
	if attr.PlusInside != nil {
		v.size += attr.PlusInside.Size()
	}
}

// Side classifies the whole region relative to h.
func (r *Region[P]) Side(h Hyperplane[P]) Side {
	var s sides
	recurseSides(r.tree, h.WholeHyperplane(), &s)
	switch {
	case s.plus && s.minus:
		return SideBoth
	case s.plus:
		return SidePlus
	case s.minus:
		return SideMinus
	default:
		return SideHyper
	}
}

type sides struct {
	plus, minus bool
}

func (s *sides) done() bool { return s.plus && s.minus }

func recurseSides[P any](node *Node[P], sub SubHyperplane[P], s *sides) {
	if node.cut == nil {
		if node.IsInside() {
			// an inside cell extends across the query hyperplane
			s.plus = true
			s.minus = true
		}
		return
	}

	h := node.cut.Hyperplane()
	switch sub.Side(h) {
	case SidePlus:
		if !node.minus.IsEmpty() {
			if node.cut.Side(sub.Hyperplane()) == SidePlus {
				s.plus = true
			} else {
				s.minus = true
			}
		}
		if !s.done() {
			recurseSides(node.plus, sub, s)
		}
	case SideMinus:
		if !node.plus.IsEmpty() {
			if node.cut.Side(sub.Hyperplane()) == SidePlus {
				s.plus = true
			} else {
				s.minus = true
			}
		}
		if !s.done() {
			recurseSides(node.minus, sub, s)
		}
	case SideBoth:
		plus, minus := sub.Split(h)
		if plus != nil {
			recurseSides(node.plus, plus, s)
		}
		if minus != nil && !s.done() {
			recurseSides(node.minus, minus, s)
		}
	default:
		plusFound := node.plus.cut != nil || node.plus.IsInside()
		minusFound := node.minus.cut != nil || node.minus.IsInside()
		if !h.SameOrientationAs(sub.Hyperplane()) {
			plusFound, minusFound = minusFound, plusFound
		}
		s.plus = s.plus || plusFound
		s.minus = s.minus || minusFound
	}
}

// Intersection returns the part of sub lying inside the region, or nil.
func (r *Region[P]) Intersection(sub SubHyperplane[P]) SubHyperplane[P] {
	return recurseIntersection(r.tree, sub)
}

func recurseIntersection[P any](node *Node[P], sub SubHyperplane[P]) SubHyperplane[P] {
	if sub == nil {
		return nil
	}
	if node.cut == nil {
		if node.IsInside() {
			return sub.CopySelf()
		}
		return nil
	}

	h := node.cut.Hyperplane()
	switch sub.Side(h) {
	case SidePlus:
		return recurseIntersection(node.plus, sub)
	case SideMinus:
		return recurseIntersection(node.minus, sub)
	case SideBoth:
		plusSub, minusSub := sub.Split(h)
		plus := recurseIntersection(node.plus, plusSub)
		minus := recurseIntersection(node.minus, minusSub)
		switch {
		case plus == nil:
			return minus
		case minus == nil:
			return plus
		default:
			return plus.Reunite(minus)
		}
	default:
		return recurseIntersection(node.plus, recurseIntersection(node.minus, sub))
	}
}

// Transform returns the image of the region under t. Leaves keep their
// flags; cuts and boundary pieces are mapped.
func (r *Region[P]) Transform(t Transform[P]) *Region[P] {
	return r.BuildNew(recurseTransform(r.tree, t))
}

func recurseTransform[P any](node *Node[P], t Transform[P]) *Node[P] {
	if node.cut == nil {
		return NewLeaf[P](node.attr)
	}
	var attr Attribute
	if ba, ok := node.attr.(*BoundaryAttribute[P]); ok {
		tba := &BoundaryAttribute[P]{}
		if ba.PlusOutside != nil {
			tba.PlusOutside = t.ApplySub(ba.PlusOutside)
		}
		if ba.PlusInside != nil {
			tba.PlusInside = t.ApplySub(ba.PlusInside)
		}
		attr = tba
	}
	return NewInternal(t.ApplySub(node.cut), recurseTransform(node.plus, t), recurseTransform(node.minus, t), attr)
}
