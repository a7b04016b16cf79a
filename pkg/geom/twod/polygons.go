// Package twod implements the BSP region algebra in the plane. Lines are
// the hyperplanes, sub-lines bounded by 1-D interval sets are the
// sub-hyperplanes and polygon sets are the regions. A polygon set can be
// built from vertex loops and can rebuild those loops from its tree.
package twod

import (
	"math"
	"sync"

	"github.com/chazu/bspregion/pkg/bsp"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// DefaultThickness is the hyperplane thickness used when none is given.
const DefaultThickness = 1e-10

// PolygonsSet is a region of the plane.
type PolygonsSet struct {
	*bsp.Region[v2.Vec]

	loopsOnce sync.Once
	loops     []Loop
	loopsErr  error

	propsOnce  sync.Once
	size       float64
	barycenter v2.Vec
}

type geometry struct{}

// Geometry is the bsp.Geometry of polygon sets.
var Geometry bsp.Geometry[v2.Vec] = geometry{}

// NewPolygonsSet builds the polygon whose boundary runs through vertices.
// The interior must be on the left of the boundary, which means a
// counter-clockwise vertex order for a bounded polygon. Vertices closer
// than thickness to a line are snapped onto it, and points within
// thickness of the boundary classify as bsp.Boundary. An empty vertex
// list yields the empty set.
func NewPolygonsSet(thickness float64, vertices ...v2.Vec) (*PolygonsSet, error) {
	if thickness < 0 || math.IsNaN(thickness) || math.IsInf(thickness, 0) {
		return nil, errors.Wrapf(bsp.ErrInvalidArgument, "thickness %v", thickness)
	}
	for i, p := range vertices {
		if !finite(p) {
			return nil, errors.Wrapf(bsp.ErrInvalidArgument, "vertex %d (%g, %g)", i, p.X, p.Y)
		}
	}
	tree := verticesToTree(thickness, vertices)
	return &PolygonsSet{Region: bsp.NewRegionWithTolerance(tree, Geometry, thickness)}, nil
}

// NewPolygonsSetFromTree wraps a tree built elsewhere.
func NewPolygonsSetFromTree(tree *bsp.Node[v2.Vec]) *PolygonsSet {
	return &PolygonsSet{Region: bsp.NewRegion(tree, Geometry)}
}

// NewPolygonsSetFromBoundary builds a polygon set from unordered boundary
// pieces, each having the interior on its minus side.
func NewPolygonsSetFromBoundary(boundary []bsp.SubHyperplane[v2.Vec]) *PolygonsSet {
	return &PolygonsSet{Region: bsp.NewRegionFromBoundary(Geometry, boundary)}
}

// AsPolygonsSet wraps a region produced by the generic algebra.
func AsPolygonsSet(r *bsp.Region[v2.Vec]) *PolygonsSet {
	return &PolygonsSet{Region: r}
}

// WholePlane returns the polygon set covering the plane.
func WholePlane() *PolygonsSet {
	return NewPolygonsSetFromTree(bsp.NewLeaf[v2.Vec](bsp.Flag(true)))
}

// Empty returns the empty polygon set.
func Empty() *PolygonsSet {
	return NewPolygonsSetFromTree(bsp.NewLeaf[v2.Vec](bsp.Flag(false)))
}

// BoxBoundary returns the four lines bounding a box in counter-clockwise
// order, or nil when the box is thinner than tolerance.
func BoxBoundary(xMin, xMax, yMin, yMax, tolerance float64) []*Line {
	if xMin >= xMax-tolerance || yMin >= yMax-tolerance {
		return nil
	}
	minMin := v2.Vec{X: xMin, Y: yMin}
	minMax := v2.Vec{X: xMin, Y: yMax}
	maxMin := v2.Vec{X: xMax, Y: yMin}
	maxMax := v2.Vec{X: xMax, Y: yMax}
	return []*Line{
		lineThrough(minMin, maxMin),
		lineThrough(maxMin, maxMax),
		lineThrough(maxMax, minMax),
		lineThrough(minMax, minMin),
	}
}

// NewBox returns the axis-aligned box [xMin, xMax] × [yMin, yMax]. A box
// thinner than DefaultThickness is empty.
func NewBox(xMin, xMax, yMin, yMax float64) (*PolygonsSet, error) {
	for _, v := range []float64{xMin, xMax, yMin, yMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(bsp.ErrInvalidArgument, "box bound %v", v)
		}
	}
	if xMin > xMax || yMin > yMax {
		return nil, errors.Wrapf(bsp.ErrInvalidArgument, "inverted box [%g, %g] x [%g, %g]", xMin, xMax, yMin, yMax)
	}

	lines := BoxBoundary(xMin, xMax, yMin, yMax, DefaultThickness)
	if lines == nil {
		return Empty(), nil
	}
	hyperplanes := make([]bsp.Hyperplane[v2.Vec], len(lines))
	for i, l := range lines {
		hyperplanes[i] = l
	}
	return &PolygonsSet{Region: bsp.NewRegionFromHyperplanes(Geometry, hyperplanes...)}, nil
}

// Vertices returns the boundary loops of the set. Open loops come first.
// The loops are computed once; an error means the tree was not built
// consistently and wraps bsp.ErrInternal.
func (ps *PolygonsSet) Vertices() ([]Loop, error) {
	loops, err := ps.boundary()
	if err != nil {
		return nil, err
	}
	out := make([]Loop, len(loops))
	for i, l := range loops {
		out[i] = Loop{Open: l.Open, Points: append([]v2.Vec(nil), l.Points...)}
	}
	return out, nil
}

// boundary returns the cached loops. Callers must not modify them.
func (ps *PolygonsSet) boundary() ([]Loop, error) {
	ps.loopsOnce.Do(func() {
		ps.loops, ps.loopsErr = extractLoops(ps.Region)
		if ps.loopsErr != nil {
			log.Warningf("boundary extraction failed: %v", ps.loopsErr)
		}
	})
	return ps.loops, ps.loopsErr
}

// Size returns the area of the set, computed from the same loops as
// Vertices.
func (ps *PolygonsSet) Size() float64 {
	ps.computeProperties()
	return ps.size
}

// Barycenter returns the barycenter of the set.
func (ps *PolygonsSet) Barycenter() v2.Vec {
	ps.computeProperties()
	return ps.barycenter
}

func (ps *PolygonsSet) computeProperties() {
	ps.propsOnce.Do(func() {
		loops, err := ps.boundary()
		ps.size, ps.barycenter = loopProperties(ps.Region, loops, err)
	})
}

// CopySelf returns a polygon set backed by a deep copy of the tree.
func (ps *PolygonsSet) CopySelf() *PolygonsSet {
	return AsPolygonsSet(ps.Region.CopySelf())
}

// Transform returns the image of the set under t.
func (ps *PolygonsSet) Transform(t *AffineTransform) *PolygonsSet {
	return AsPolygonsSet(ps.Region.Transform(t))
}

// Contains reports whether other is a subset of ps.
func (ps *PolygonsSet) Contains(other *PolygonsSet) bool {
	return ps.Region.Contains(other.Region)
}

func (geometry) Properties(r *bsp.Region[v2.Vec]) (float64, v2.Vec) {
	loops, err := extractLoops(r)
	return loopProperties(r, loops, err)
}

// loopProperties computes the area and barycenter of r from its boundary
// loops using the shoelace formula.
func loopProperties(r *bsp.Region[v2.Vec], loops []Loop, err error) (float64, v2.Vec) {
	nan := v2.Vec{X: math.NaN(), Y: math.NaN()}
	if err != nil {
		log.Warningf("size of inconsistent region is undefined: %v", err)
		return math.NaN(), nan
	}

	if len(loops) == 0 {
		tree := r.Tree(false)
		if tree.IsLeaf() && tree.IsInside() {
			return math.Inf(1), nan
		}
		return 0, v2.Vec{}
	}

	var sum, sumX, sumY float64
	for _, loop := range loops {
		if loop.Open {
			return math.Inf(1), nan
		}
		last := loop.Points[len(loop.Points)-1]
		x1, y1 := last.X, last.Y
		for _, p := range loop.Points {
			x0, y0 := x1, y1
			x1, y1 = p.X, p.Y
			factor := x0*y1 - y0*x1
			sum += factor
			sumX += factor * (x0 + x1)
			sumY += factor * (y0 + y1)
		}
	}

	if sum < 0 {
		// the boundary encloses the outside: the set is unbounded
		return math.Inf(1), nan
	}
	if sum == 0 {
		return 0, v2.Vec{}
	}
	return sum / 2, v2.Vec{X: sumX / (3 * sum), Y: sumY / (3 * sum)}
}

// Union returns a ∪ b.
func Union(a, b *PolygonsSet) *PolygonsSet {
	return AsPolygonsSet(bsp.Union(a.Region, b.Region))
}

// Intersection returns a ∩ b.
func Intersection(a, b *PolygonsSet) *PolygonsSet {
	return AsPolygonsSet(bsp.Intersection(a.Region, b.Region))
}

// Difference returns a \ b.
func Difference(a, b *PolygonsSet) *PolygonsSet {
	return AsPolygonsSet(bsp.Difference(a.Region, b.Region))
}

// Xor returns the symmetric difference of a and b.
func Xor(a, b *PolygonsSet) *PolygonsSet {
	return AsPolygonsSet(bsp.Xor(a.Region, b.Region))
}

// Complement returns the complement of ps.
func Complement(ps *PolygonsSet) *PolygonsSet {
	return AsPolygonsSet(bsp.Complement(ps.Region))
}
