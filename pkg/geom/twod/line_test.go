package twod

import (
	"math"
	"testing"

	"github.com/chazu/bspregion/pkg/bsp"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }

func assertVec(t *testing.T, want, got v2.Vec, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-9, msgAndArgs...)
}

func TestNewLine(t *testing.T) {
	l, err := NewLine(vec(0, 0), vec(1, 0))
	require.NoError(t, err)
	assert.InDelta(t, 0, l.Angle(), 1e-15)
	assert.InDelta(t, -1, l.Offset(vec(0, 1)), 1e-12, "left of the direction is the minus side")
	assert.InDelta(t, 1, l.Offset(vec(5, -1)), 1e-12)
	assert.True(t, l.Contains(vec(42, 0)))

	diag, err := NewLine(vec(1, 0), vec(4, 4))
	require.NoError(t, err)
	assert.True(t, diag.Contains(vec(7, 8)))
	assert.InDelta(t, 5, diag.Offset(vec(5, -3)), 1e-12)
}

func TestNewLineErrors(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 v2.Vec
	}{
		{"coincident points", vec(1, 1), vec(1, 1)},
		{"nan", vec(math.NaN(), 0), vec(1, 0)},
		{"infinite", vec(0, 0), vec(math.Inf(1), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLine(tt.p1, tt.p2)
			assert.ErrorIs(t, err, bsp.ErrInvalidArgument)
		})
	}
}

func TestLineSubSpaceRoundTrip(t *testing.T) {
	l, err := NewLine(vec(1, 2), vec(4, 6))
	require.NoError(t, err)
	for _, p := range []v2.Vec{vec(1, 2), vec(4, 6), vec(-2, -2)} {
		assertVec(t, p, l.ToSpace(l.ToSubSpace(p)))
	}
	assert.InDelta(t, 5, l.ToSubSpace(vec(4, 6))-l.ToSubSpace(vec(1, 2)), 1e-12)
	assert.InDelta(t, 0.5, l.Offset(l.PointAt(3, 0.5)), 1e-12)
}

func TestNewLineAt(t *testing.T) {
	a := NewLineAt(vec(0, 2), 0)
	b, err := NewLine(vec(0, 2), vec(1, 2))
	require.NoError(t, err)
	assert.InDelta(t, b.OriginOffset(), a.OriginOffset(), 1e-12)

	c := NewLineAt(vec(0, 0), -math.Pi/2)
	assert.InDelta(t, 3*math.Pi/2, c.Angle(), 1e-12)
}

func TestLineIntersection(t *testing.T) {
	xAxis := NewLineAt(vec(0, 0), 0)
	diag := NewLineAt(vec(1, 1), math.Pi/4)

	p, ok := xAxis.Intersection(diag)
	require.True(t, ok)
	assertVec(t, vec(0, 0), p)

	_, ok = xAxis.Intersection(NewLineAt(vec(0, 3), math.Pi))
	assert.False(t, ok)
	assert.True(t, xAxis.IsParallelTo(NewLineAt(vec(0, 3), math.Pi)))
}

func TestLineOffset(t *testing.T) {
	l := NewLineAt(vec(0, 0), 0)
	same := NewLineAt(vec(0, 2), 0)
	opposite := NewLineAt(vec(0, 2), math.Pi)
	assert.InDelta(t, l.Offset(vec(0, 2)), l.LineOffset(same), 1e-12)
	assert.InDelta(t, l.Offset(vec(0, 2)), l.LineOffset(opposite), 1e-12)
}

func TestReverse(t *testing.T) {
	l := NewLineAt(vec(1, 1), math.Pi/3)
	r := l.Reverse()
	p := vec(3, -2)
	assert.InDelta(t, -l.Offset(p), r.Offset(p), 1e-12)
	assert.InDelta(t, l.Angle()+math.Pi, r.Angle(), 1e-12)
	assert.False(t, l.SameOrientationAs(r))
	assert.InDelta(t, l.Angle(), r.Reverse().Angle(), 1e-12)
}

func TestSubLineSplit(t *testing.T) {
	s, err := NewSegmentSubLine(vec(0, 0), vec(2, 0))
	require.NoError(t, err)
	assert.InDelta(t, 2, s.Size(), 1e-12)

	cut := NewLineAt(vec(1, 0), math.Pi/2) // plus side is x > 1
	assert.Equal(t, bsp.SideBoth, s.Side(cut))

	plus, minus := s.Split(cut)
	require.NotNil(t, plus)
	require.NotNil(t, minus)
	assert.InDelta(t, 1, plus.Size(), 1e-12)
	assert.InDelta(t, 1, minus.Size(), 1e-12)

	segs := plus.(*SubLine).Segments()
	require.Len(t, segs, 1)
	assertVec(t, vec(1, 0), segs[0].Start)
	assertVec(t, vec(2, 0), segs[0].End)

	whole := plus.Reunite(minus)
	assert.InDelta(t, 2, whole.Size(), 1e-12)
}

func TestSubLineOneSided(t *testing.T) {
	s, err := NewSegmentSubLine(vec(0, 0), vec(2, 0))
	require.NoError(t, err)

	far := NewLineAt(vec(5, 0), math.Pi/2)
	assert.Equal(t, bsp.SideMinus, s.Side(far))
	plus, minus := s.Split(far)
	assert.Nil(t, plus)
	require.NotNil(t, minus)
	assert.InDelta(t, 2, minus.Size(), 1e-12)

	below := NewLineAt(vec(0, -1), 0) // x axis is on its minus side
	assert.Equal(t, bsp.SideMinus, s.Side(below))
	assert.Equal(t, bsp.SideHyper, s.Side(NewLineAt(vec(7, 0), math.Pi)))
}

func TestSegmentDistance(t *testing.T) {
	s := Segment{Start: vec(0, 0), End: vec(2, 0)}
	assert.InDelta(t, 2, s.Length(), 1e-12)
	assert.InDelta(t, 1, s.Distance(vec(1, 1)), 1e-12)
	assert.InDelta(t, 1, s.Distance(vec(3, 0)), 1e-12)
	assert.InDelta(t, math.Sqrt2, s.Distance(vec(-1, -1)), 1e-12)

	diag := Segment{Start: vec(1, 1), End: vec(4, 5)}
	assert.InDelta(t, 5, diag.Length(), 1e-12)
	assert.InDelta(t, 5, diag.Distance(vec(7, 9)), 1e-12)

	point := Segment{Start: vec(1, 1), End: vec(1, 1)}
	assert.Equal(t, 0.0, point.Length())
	assert.InDelta(t, 5, point.Distance(vec(4, 5)), 1e-12)
}
