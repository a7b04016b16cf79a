package twod

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/chazu/bspregion/pkg/geom/oned"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

var _ bsp.Transform[v2.Vec] = (*AffineTransform)(nil)

// minDeterminant is the determinant magnitude under which a transform is
// considered singular.
const minDeterminant = 1e-20

// AffineTransform is an invertible affine map of the plane backed by an
// sdfx homogeneous matrix.
type AffineTransform struct {
	m sdf.M33

	// linear part [[a, b], [c, d]] and translation (tx, ty)
	a, b, c, d float64
	tx, ty     float64
}

// NewAffineTransform wraps m. It fails with ErrNonInvertibleTransform when
// the linear part of m is singular.
func NewAffineTransform(m sdf.M33) (*AffineTransform, error) {
	t := newAffine(m)
	det := t.Determinant()
	if math.IsNaN(det) || math.Abs(det) < minDeterminant {
		return nil, errors.Wrapf(ErrNonInvertibleTransform, "determinant %g", det)
	}
	return t, nil
}

func newAffine(m sdf.M33) *AffineTransform {
	o := m.MulPosition(v2.Vec{})
	ex := m.MulPosition(v2.Vec{X: 1})
	ey := m.MulPosition(v2.Vec{Y: 1})
	return &AffineTransform{
		m:  m,
		a:  ex.X - o.X,
		b:  ey.X - o.X,
		c:  ex.Y - o.Y,
		d:  ey.Y - o.Y,
		tx: o.X,
		ty: o.Y,
	}
}

// Identity returns the identity transform.
func Identity() *AffineTransform {
	return newAffine(sdf.Identity2d())
}

// Translation returns the translation by (dx, dy).
func Translation(dx, dy float64) *AffineTransform {
	return newAffine(sdf.Translate2d(v2.Vec{X: dx, Y: dy}))
}

// Rotation returns the rotation by angle radians around the origin.
func Rotation(angle float64) *AffineTransform {
	return newAffine(sdf.Rotate2d(angle))
}

// Scaling returns the scaling by (sx, sy). Negative factors mirror.
func Scaling(sx, sy float64) (*AffineTransform, error) {
	return NewAffineTransform(sdf.Scale2d(v2.Vec{X: sx, Y: sy}))
}

// Then returns the transform applying t first and next second.
func (t *AffineTransform) Then(next *AffineTransform) *AffineTransform {
	return newAffine(next.m.Mul(t.m))
}

// Matrix returns the underlying sdfx matrix.
func (t *AffineTransform) Matrix() sdf.M33 { return t.m }

// Determinant returns the determinant of the linear part.
func (t *AffineTransform) Determinant() float64 {
	return t.a*t.d - t.b*t.c
}

func (t *AffineTransform) linear(v v2.Vec) v2.Vec {
	return v2.Vec{X: t.a*v.X + t.b*v.Y, Y: t.c*v.X + t.d*v.Y}
}

// Apply maps a point.
func (t *AffineTransform) Apply(p v2.Vec) v2.Vec {
	return v2.Vec{X: t.a*p.X + t.b*p.Y + t.tx, Y: t.c*p.X + t.d*p.Y + t.ty}
}

// ApplyLine maps a line. The plus side of the image is the image of the
// plus side, mirrors included.
func (t *AffineTransform) ApplyLine(l *Line) *Line {
	dir := t.linear(l.Direction())
	if t.Determinant() < 0 {
		dir.X, dir.Y = -dir.X, -dir.Y
	}
	return NewLineAt(t.Apply(l.ToSpace(0)), math.Atan2(dir.Y, dir.X))
}

// ApplySub maps a sub-line, carrying its abscissa intervals over to the
// image line.
func (t *AffineTransform) ApplySub(sub bsp.SubHyperplane[v2.Vec]) bsp.SubHyperplane[v2.Vec] {
	sl := sub.(*SubLine)
	image := t.ApplyLine(sl.line)
	offset := image.ToSubSpace(t.Apply(sl.line.ToSpace(0)))
	scale := image.ToSubSpace(t.Apply(sl.line.ToSpace(1))) - offset
	return NewSubLine(image, sl.remaining.Transform(oned.AffineMap{Scale: scale, Offset: offset}))
}
