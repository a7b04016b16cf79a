package oned

import (
	"github.com/chazu/bspregion/pkg/bsp"
)

// Compile-time interface checks.
var (
	_ bsp.Hyperplane[float64]    = (*OrientedPoint)(nil)
	_ bsp.SubHyperplane[float64] = (*SubOrientedPoint)(nil)
)

// OrientedPoint is the hyperplane of the real line: a location and a
// direction. For a direct point the plus side holds the abscissas greater
// than the location.
type OrientedPoint struct {
	location float64
	direct   bool
}

// NewOrientedPoint returns the oriented point at location.
func NewOrientedPoint(location float64, direct bool) *OrientedPoint {
	return &OrientedPoint{location: location, direct: direct}
}

func (p *OrientedPoint) Location() float64 { return p.location }
func (p *OrientedPoint) IsDirect() bool    { return p.direct }

// Offset returns the signed distance of x to the point.
func (p *OrientedPoint) Offset(x float64) float64 {
	d := x - p.location
	if p.direct {
		return d
	}
	return -d
}

func (p *OrientedPoint) SameOrientationAs(other bsp.Hyperplane[float64]) bool {
	return p.direct == other.(*OrientedPoint).direct
}

func (p *OrientedPoint) WholeHyperplane() bsp.SubHyperplane[float64] {
	return &SubOrientedPoint{point: p}
}

func (p *OrientedPoint) WholeSpace() *bsp.Region[float64] {
	return WholeLine().Region
}

func (p *OrientedPoint) CopySelf() bsp.Hyperplane[float64] {
	return &OrientedPoint{location: p.location, direct: p.direct}
}

// Revert returns the same point with the opposite orientation.
func (p *OrientedPoint) Revert() *OrientedPoint {
	return &OrientedPoint{location: p.location, direct: !p.direct}
}

// SubOrientedPoint is the only non-empty sub-hyperplane of an oriented
// point: the point itself.
type SubOrientedPoint struct {
	point *OrientedPoint
}

func (s *SubOrientedPoint) Hyperplane() bsp.Hyperplane[float64] { return s.point }

func (s *SubOrientedPoint) CopySelf() bsp.SubHyperplane[float64] {
	return &SubOrientedPoint{point: s.point.CopySelf().(*OrientedPoint)}
}

func (s *SubOrientedPoint) IsEmpty() bool { return false }
func (s *SubOrientedPoint) Size() float64 { return 0 }

func (s *SubOrientedPoint) Side(h bsp.Hyperplane[float64]) bsp.Side {
	offset := h.Offset(s.point.location)
	switch {
	case offset < -bsp.DefaultTolerance:
		return bsp.SideMinus
	case offset > bsp.DefaultTolerance:
		return bsp.SidePlus
	default:
		return bsp.SideHyper
	}
}

func (s *SubOrientedPoint) Split(h bsp.Hyperplane[float64]) (plus, minus bsp.SubHyperplane[float64]) {
	switch s.Side(h) {
	case bsp.SidePlus:
		return s, nil
	case bsp.SideMinus:
		return nil, s
	default:
		return nil, nil
	}
}

func (s *SubOrientedPoint) Reunite(bsp.SubHyperplane[float64]) bsp.SubHyperplane[float64] {
	return s.CopySelf()
}
