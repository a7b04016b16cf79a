package oned

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/pkg/errors"
)

var _ bsp.Transform[float64] = AffineMap{}

// AffineMap is the transform x ↦ Scale·x + Offset of the real line. A
// negative scale reverses the orientation of every oriented point.
type AffineMap struct {
	Scale  float64
	Offset float64
}

// NewAffineMap validates and returns an affine map.
func NewAffineMap(scale, offset float64) (AffineMap, error) {
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return AffineMap{}, errors.Wrapf(bsp.ErrInvalidArgument, "affine map scale %v", scale)
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return AffineMap{}, errors.Wrapf(bsp.ErrInvalidArgument, "affine map offset %v", offset)
	}
	return AffineMap{Scale: scale, Offset: offset}, nil
}

func (m AffineMap) Apply(x float64) float64 {
	return m.Scale*x + m.Offset
}

func (m AffineMap) ApplySub(sub bsp.SubHyperplane[float64]) bsp.SubHyperplane[float64] {
	op := sub.Hyperplane().(*OrientedPoint)
	return NewOrientedPoint(m.Apply(op.location), op.direct != (m.Scale < 0)).WholeHyperplane()
}

// Transform returns the image of s under m.
func (s *IntervalsSet) Transform(m AffineMap) *IntervalsSet {
	return AsIntervalsSet(s.Region.Transform(m))
}
