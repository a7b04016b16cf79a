package twod

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/chazu/bspregion/pkg/geom/oned"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

var _ bsp.Hyperplane[v2.Vec] = (*Line)(nil)

// Line is an oriented line of the plane. Its direction is (cos, sin) and
// the plus side is on the right of the direction, so a counter-clockwise
// boundary has the region interior on the minus side.
type Line struct {
	angle        float64
	cos          float64
	sin          float64
	originOffset float64
}

// NewLine returns the line going from p1 to p2.
func NewLine(p1, p2 v2.Vec) (*Line, error) {
	if !finite(p1) || !finite(p2) {
		return nil, errors.Wrapf(bsp.ErrInvalidArgument, "line through (%g, %g) and (%g, %g)", p1.X, p1.Y, p2.X, p2.Y)
	}
	if p2.Sub(p1).Length() == 0 {
		return nil, errors.Wrapf(bsp.ErrInvalidArgument, "line through coincident points (%g, %g)", p1.X, p1.Y)
	}
	return lineThrough(p1, p2), nil
}

// lineThrough builds the line from p1 to p2, which must be distinct.
func lineThrough(p1, p2 v2.Vec) *Line {
	delta := p2.Sub(p1)
	d := delta.Length()
	angle := math.Pi + math.Atan2(-delta.Y, -delta.X)
	return &Line{
		angle:        angle,
		cos:          math.Cos(angle),
		sin:          math.Sin(angle),
		originOffset: (p2.X*p1.Y - p1.X*p2.Y) / d,
	}
}

// NewLineAt returns the line through p with the given direction angle in
// radians.
func NewLineAt(p v2.Vec, angle float64) *Line {
	a := normalizeAngle(angle)
	cos, sin := math.Cos(a), math.Sin(a)
	return &Line{
		angle:        a,
		cos:          cos,
		sin:          sin,
		originOffset: cos*p.Y - sin*p.X,
	}
}

// normalizeAngle maps a into [0, 2π).
func normalizeAngle(a float64) float64 {
	return a - 2*math.Pi*math.Floor(a/(2*math.Pi))
}

func finite(p v2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (l *Line) Angle() float64        { return l.angle }
func (l *Line) OriginOffset() float64 { return l.originOffset }

// Direction returns the unit direction vector.
func (l *Line) Direction() v2.Vec { return v2.Vec{X: l.cos, Y: l.sin} }

// Offset returns the signed distance of p to the line, positive on the
// plus side.
func (l *Line) Offset(p v2.Vec) float64 {
	return l.sin*p.X - l.cos*p.Y + l.originOffset
}

// LineOffset returns the offset of a parallel line relative to l.
func (l *Line) LineOffset(other *Line) float64 {
	if l.cos*other.cos+l.sin*other.sin > 0 {
		return l.originOffset - other.originOffset
	}
	return l.originOffset + other.originOffset
}

// ToSubSpace returns the abscissa of the projection of p on the line.
func (l *Line) ToSubSpace(p v2.Vec) float64 {
	return l.cos*p.X + l.sin*p.Y
}

// ToSpace returns the point of the line at abscissa a.
func (l *Line) ToSpace(a float64) v2.Vec {
	return v2.Vec{
		X: a*l.cos - l.originOffset*l.sin,
		Y: a*l.sin + l.originOffset*l.cos,
	}
}

// PointAt returns the point at abscissa a and signed offset from the line.
func (l *Line) PointAt(a, offset float64) v2.Vec {
	d := offset - l.originOffset
	return v2.Vec{X: a*l.cos + d*l.sin, Y: a*l.sin - d*l.cos}
}

// Contains reports whether p lies on the line.
func (l *Line) Contains(p v2.Vec) bool {
	return math.Abs(l.Offset(p)) < bsp.DefaultTolerance
}

// IsParallelTo reports whether both lines have the same or opposite
// direction.
func (l *Line) IsParallelTo(other *Line) bool {
	return math.Abs(l.sin*other.cos-l.cos*other.sin) < bsp.DefaultTolerance
}

// Intersection returns the crossing point of two lines. ok is false for
// parallel lines.
func (l *Line) Intersection(other *Line) (p v2.Vec, ok bool) {
	d := l.sin*other.cos - other.sin*l.cos
	if math.Abs(d) < bsp.DefaultTolerance {
		return v2.Vec{}, false
	}
	return v2.Vec{
		X: (l.cos*other.originOffset - other.cos*l.originOffset) / d,
		Y: (l.sin*other.originOffset - other.sin*l.originOffset) / d,
	}, true
}

// Reverse returns the same line with the opposite orientation.
func (l *Line) Reverse() *Line {
	angle := l.angle + math.Pi
	if l.angle >= math.Pi {
		angle = l.angle - math.Pi
	}
	return &Line{angle: angle, cos: -l.cos, sin: -l.sin, originOffset: -l.originOffset}
}

func (l *Line) SameOrientationAs(other bsp.Hyperplane[v2.Vec]) bool {
	o := other.(*Line)
	return l.sin*o.sin+l.cos*o.cos >= 0
}

func (l *Line) WholeHyperplane() bsp.SubHyperplane[v2.Vec] {
	return NewSubLine(l, oned.WholeLine())
}

func (l *Line) WholeSpace() *bsp.Region[v2.Vec] {
	return WholePlane().Region
}

func (l *Line) CopySelf() bsp.Hyperplane[v2.Vec] {
	c := *l
	return &c
}
