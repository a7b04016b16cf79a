package oned

import (
	"math"
	"testing"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntervalsSet(t *testing.T) {
	tests := []struct {
		name       string
		lower      float64
		upper      float64
		wantSize   float64
		wantInf    float64
		wantSup    float64
		wantLeaves int
	}{
		{"bounded", 2.3, 5.7, 3.4, 2.3, 5.7, 3},
		{"unbounded below", math.Inf(-1), 1, math.Inf(1), math.Inf(-1), 1, 2},
		{"unbounded above", -1, math.Inf(1), math.Inf(1), -1, math.Inf(1), 2},
		{"whole line", math.Inf(-1), math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewIntervalsSet(tt.lower, tt.upper)
			if math.IsInf(tt.wantSize, 1) {
				assert.True(t, math.IsInf(s.Size(), 1))
			} else {
				assert.InDelta(t, tt.wantSize, s.Size(), 1e-12)
			}
			assert.Equal(t, tt.wantInf, s.Inf())
			assert.Equal(t, tt.wantSup, s.Sup())
			assert.Equal(t, tt.wantLeaves, s.Tree(false).LeafCount())
		})
	}
}

func TestInvertedIntervalIsEmpty(t *testing.T) {
	s := NewIntervalsSet(3, 1)
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0.0, s.Size())
	assert.Empty(t, s.Intervals())
}

func TestBarycenter(t *testing.T) {
	s := NewIntervalsSet(2.3, 5.7)
	assert.InDelta(t, 4.0, s.Barycenter(), 1e-12)

	assert.True(t, math.IsNaN(WholeLine().Barycenter()))
}

func TestCheckPointAgainstBounds(t *testing.T) {
	s := NewIntervalsSet(2.3, 5.7)
	assert.Equal(t, bsp.Outside, s.CheckPoint(2.0))
	assert.Equal(t, bsp.Boundary, s.CheckPoint(2.3))
	assert.Equal(t, bsp.Inside, s.CheckPoint(3.0))
	assert.Equal(t, bsp.Boundary, s.CheckPoint(5.7))
	assert.Equal(t, bsp.Outside, s.CheckPoint(6.0))
}

func TestMultipleIntervals(t *testing.T) {
	s := Union(Union(NewIntervalsSet(-1, 0), NewIntervalsSet(2, 3)), NewIntervalsSet(6, 9))

	got := s.Intervals()
	require.Len(t, got, 3)
	assert.Equal(t, Interval{Inf: -1, Sup: 0}, got[0])
	assert.Equal(t, Interval{Inf: 2, Sup: 3}, got[1])
	assert.Equal(t, Interval{Inf: 6, Sup: 9}, got[2])

	assert.Equal(t, -1.0, s.Inf())
	assert.Equal(t, 9.0, s.Sup())
	assert.InDelta(t, 5.0, s.Size(), 1e-12)
	assert.Equal(t, bsp.Outside, s.CheckPoint(1))
	assert.Equal(t, bsp.Inside, s.CheckPoint(7))
}

func TestOverlappingUnionMerges(t *testing.T) {
	s := Union(NewIntervalsSet(0, 2), NewIntervalsSet(1, 3))
	assert.Equal(t, []Interval{{Inf: 0, Sup: 3}}, s.Intervals())
	assert.InDelta(t, 3.0, s.Size(), 1e-12)
	assert.InDelta(t, 1.5, s.Barycenter(), 1e-12)
}

func TestIntersectionAndDifference(t *testing.T) {
	a, b := NewIntervalsSet(0, 4), NewIntervalsSet(1, 2)

	assert.Equal(t, []Interval{{Inf: 1, Sup: 2}}, Intersection(a, b).Intervals())
	assert.Equal(t, []Interval{{Inf: 0, Sup: 1}, {Inf: 2, Sup: 4}}, Difference(a, b).Intervals())
	assert.True(t, Difference(b, a).IsEmpty())
}

func TestFromBoundary(t *testing.T) {
	s := NewIntervalsSetFromBoundary([]bsp.SubHyperplane[float64]{
		NewOrientedPoint(5, true).WholeHyperplane(),
		NewOrientedPoint(1, false).WholeHyperplane(),
	})
	assert.Equal(t, []Interval{{Inf: 1, Sup: 5}}, s.Intervals())
}

func TestOrientedPoint(t *testing.T) {
	p := NewOrientedPoint(2, true)
	assert.Equal(t, 1.0, p.Offset(3))
	assert.Equal(t, -1.0, p.Offset(1))

	r := p.Revert()
	assert.False(t, r.IsDirect())
	assert.Equal(t, -1.0, r.Offset(3))
	assert.False(t, p.SameOrientationAs(r))
	assert.True(t, p.WholeSpace().IsFull())

	sub := p.WholeHyperplane()
	assert.Equal(t, bsp.SidePlus, sub.Side(NewOrientedPoint(1, true)))
	assert.Equal(t, bsp.SideMinus, sub.Side(NewOrientedPoint(3, true)))
	assert.Equal(t, bsp.SideHyper, sub.Side(NewOrientedPoint(2, false)))

	plus, minus := sub.Split(NewOrientedPoint(1, true))
	assert.NotNil(t, plus)
	assert.Nil(t, minus)
}
