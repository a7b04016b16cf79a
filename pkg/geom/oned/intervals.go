// Package oned implements the BSP region algebra on the real line:
// oriented points as hyperplanes and interval sets as regions. Interval
// sets are also the sub-space regions that bound planar sub-lines.
package oned

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
)

// minSize is the smallest size for which a barycenter can be computed by
// division.
const minSize = 0x1p-1022

// Interval is a closed interval of the real line. Inf or Sup may be
// infinite.
type Interval struct {
	Inf float64
	Sup float64
}

// Size returns the interval length.
func (i Interval) Size() float64 { return i.Sup - i.Inf }

// Barycenter returns the interval midpoint.
func (i Interval) Barycenter() float64 { return 0.5 * (i.Inf + i.Sup) }

// IntervalsSet is a region of the real line.
type IntervalsSet struct {
	*bsp.Region[float64]
}

type geometry struct{}

// Geometry is the bsp.Geometry of interval sets.
var Geometry bsp.Geometry[float64] = geometry{}

// NewIntervalsSet returns the interval [lower, upper]. Either bound may be
// infinite. An inverted interval yields the empty set.
func NewIntervalsSet(lower, upper float64) *IntervalsSet {
	if lower > upper {
		return NewIntervalsSetFromTree(bsp.NewLeaf[float64](bsp.Flag(false)))
	}
	return NewIntervalsSetFromTree(buildTree(lower, upper))
}

// WholeLine returns the interval set covering the real line.
func WholeLine() *IntervalsSet {
	return NewIntervalsSetFromTree(bsp.NewLeaf[float64](bsp.Flag(true)))
}

// NewIntervalsSetFromTree wraps a tree built elsewhere.
func NewIntervalsSetFromTree(tree *bsp.Node[float64]) *IntervalsSet {
	return &IntervalsSet{Region: bsp.NewRegion(tree, Geometry)}
}

// NewIntervalsSetFromBoundary builds an interval set from its boundary
// points. The inside lies on the minus side of every point.
func NewIntervalsSetFromBoundary(boundary []bsp.SubHyperplane[float64]) *IntervalsSet {
	return &IntervalsSet{Region: bsp.NewRegionFromBoundary(Geometry, boundary)}
}

// AsIntervalsSet wraps a region produced by the generic algebra.
func AsIntervalsSet(r *bsp.Region[float64]) *IntervalsSet {
	return &IntervalsSet{Region: r}
}

func buildTree(lower, upper float64) *bsp.Node[float64] {
	inside := func() *bsp.Node[float64] { return bsp.NewLeaf[float64](bsp.Flag(true)) }
	outside := func() *bsp.Node[float64] { return bsp.NewLeaf[float64](bsp.Flag(false)) }

	if math.IsInf(lower, -1) {
		if math.IsInf(upper, 1) {
			return inside()
		}
		upperCut := NewOrientedPoint(upper, true).WholeHyperplane()
		return bsp.NewInternal(upperCut, outside(), inside(), nil)
	}
	lowerCut := NewOrientedPoint(lower, false).WholeHyperplane()
	if math.IsInf(upper, 1) {
		return bsp.NewInternal(lowerCut, outside(), inside(), nil)
	}
	upperCut := NewOrientedPoint(upper, true).WholeHyperplane()
	return bsp.NewInternal(lowerCut, outside(), bsp.NewInternal(upperCut, outside(), inside(), nil), nil)
}

// Intervals returns the disjoint intervals of the set in increasing
// order. Adjacent intervals are merged.
func (s *IntervalsSet) Intervals() []Interval {
	return intervals(s.Tree(false), s.Tolerance())
}

func intervals(tree *bsp.Node[float64], tolerance float64) []Interval {
	var list []Interval
	recurseList(tree, &list, math.Inf(-1), math.Inf(1), tolerance)
	return list
}

func recurseList(node *bsp.Node[float64], list *[]Interval, lower, upper, tolerance float64) {
	if node.IsLeaf() {
		if node.IsInside() {
			*list = append(*list, Interval{Inf: lower, Sup: upper})
		}
		return
	}

	op := node.Cut().Hyperplane().(*OrientedPoint)
	x := op.location
	low, high := node.Minus(), node.Plus()
	if !op.direct {
		low, high = high, low
	}

	recurseList(low, list, lower, x, tolerance)
	if len(*list) > 0 && low.Classify(x, tolerance) == bsp.Inside && high.Classify(x, tolerance) == bsp.Inside {
		// the last interval continues in the high subtree
		last := len(*list) - 1
		x = (*list)[last].Inf
		*list = (*list)[:last]
	}
	recurseList(high, list, x, upper, tolerance)
}

// Inf returns the lowest value of the set, -Inf if it is unbounded below.
func (s *IntervalsSet) Inf() float64 {
	node := s.Tree(false)
	inf := math.Inf(1)
	for !node.IsLeaf() {
		op := node.Cut().Hyperplane().(*OrientedPoint)
		inf = op.location
		if op.direct {
			node = node.Minus()
		} else {
			node = node.Plus()
		}
	}
	if node.IsInside() {
		return math.Inf(-1)
	}
	return inf
}

// Sup returns the highest value of the set, +Inf if it is unbounded above.
func (s *IntervalsSet) Sup() float64 {
	node := s.Tree(false)
	sup := math.Inf(-1)
	for !node.IsLeaf() {
		op := node.Cut().Hyperplane().(*OrientedPoint)
		sup = op.location
		if op.direct {
			node = node.Plus()
		} else {
			node = node.Minus()
		}
	}
	if node.IsInside() {
		return math.Inf(1)
	}
	return sup
}

func (geometry) Properties(r *bsp.Region[float64]) (float64, float64) {
	tree := r.Tree(false)
	if tree.IsLeaf() {
		if tree.IsInside() {
			return math.Inf(1), math.NaN()
		}
		return 0, math.NaN()
	}

	var size, sum float64
	for _, iv := range intervals(tree, r.Tolerance()) {
		size += iv.Size()
		sum += iv.Size() * iv.Barycenter()
	}
	switch {
	case math.IsInf(size, 0):
		return size, math.NaN()
	case size >= minSize:
		return size, sum / size
	default:
		return size, tree.Cut().Hyperplane().(*OrientedPoint).location
	}
}

// Union returns a ∪ b.
func Union(a, b *IntervalsSet) *IntervalsSet {
	return AsIntervalsSet(bsp.Union(a.Region, b.Region))
}

// Intersection returns a ∩ b.
func Intersection(a, b *IntervalsSet) *IntervalsSet {
	return AsIntervalsSet(bsp.Intersection(a.Region, b.Region))
}

// Difference returns a \ b.
func Difference(a, b *IntervalsSet) *IntervalsSet {
	return AsIntervalsSet(bsp.Difference(a.Region, b.Region))
}
