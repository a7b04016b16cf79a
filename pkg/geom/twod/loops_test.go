package twod

import (
	"math"
	"testing"

	"github.com/Workiva/go-datastructures/slice/skip"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segment(seq int64, start, end *v2.Vec) *comparableSegment {
	var line *Line
	if start != nil && end != nil {
		line = lineThrough(*start, *end)
	}
	return newComparableSegment(start, end, line, seq)
}

func ptr(x, y float64) *v2.Vec {
	p := vec(x, y)
	return &p
}

func skipList(segs ...*comparableSegment) *skip.SkipList {
	sl := skip.New(uint64(0))
	for _, s := range segs {
		sl.Insert(s)
	}
	return sl
}

func TestComparableSegmentOrder(t *testing.T) {
	unbounded := segment(0, nil, ptr(0, 0))
	a := segment(1, ptr(0, 0), ptr(1, 0))
	b := segment(2, ptr(0, 0), ptr(0, 1))
	c := segment(3, ptr(0, 1), ptr(1, 1))

	assert.Equal(t, -1, unbounded.Compare(a))
	assert.Equal(t, -1, a.Compare(b), "same start, ordered by sequence")
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	sl := skipList(c, a, unbounded, b)
	require.Equal(t, uint64(4), sl.Len())
	assert.Same(t, unbounded, sl.ByPosition(0))
	assert.Same(t, a, sl.ByPosition(1))
	assert.Same(t, c, sl.ByPosition(3))
}

func TestSearchKeyEnclosesSharedKeys(t *testing.T) {
	s := segment(7, ptr(1, 1), ptr(2, 2))
	lower := searchKey(vec(1, 1), 0, math.MinInt64)
	upper := searchKey(vec(1, 1), 0, math.MaxInt64)
	assert.Equal(t, 1, s.Compare(lower))
	assert.Equal(t, -1, s.Compare(upper))
}

func TestFollowClosedLoop(t *testing.T) {
	s1 := segment(0, ptr(0, 0), ptr(1, 0))
	s2 := segment(1, ptr(1, 0), ptr(1, 1))
	s3 := segment(2, ptr(1, 1), ptr(0, 0))
	sl := skipList(s1, s2, s3)

	chain := followLoop(s1, sl)
	require.Len(t, chain, 3)
	assert.Equal(t, uint64(0), sl.Len())

	loop := chainToLoop(chain)
	assert.False(t, loop.Open)
	assert.Equal(t, []v2.Vec{vec(0, 0), vec(1, 0), vec(1, 1)}, loop.Points)
}

func TestFollowLoopJoinsNearbyEnds(t *testing.T) {
	s1 := segment(0, ptr(0, 0), ptr(1, 0))
	s2 := segment(1, ptr(1+1e-12, 0), ptr(1, 1))
	s3 := segment(2, ptr(1, 1), ptr(0, 1e-12))
	sl := skipList(s1, s2, s3)

	assert.Len(t, followLoop(s1, sl), 3)
}

func TestFollowLoopDropsDegenerateLoops(t *testing.T) {
	t.Run("no continuation", func(t *testing.T) {
		s1 := segment(0, ptr(0, 0), ptr(1, 0))
		s2 := segment(1, ptr(5, 5), ptr(6, 6))
		sl := skipList(s1, s2)
		assert.Nil(t, followLoop(s1, sl))
		assert.Equal(t, uint64(1), sl.Len())
	})
	t.Run("infinitely thin", func(t *testing.T) {
		s1 := segment(0, ptr(0, 0), ptr(1, 0))
		s2 := segment(1, ptr(1, 0), ptr(0, 0))
		sl := skipList(s1, s2)
		assert.Nil(t, followLoop(s1, sl))
		assert.Equal(t, uint64(0), sl.Len())
	})
}

func TestFollowLoopInconsistentBoundary(t *testing.T) {
	s1 := segment(0, ptr(0, 0), ptr(1, 0))
	s2 := segment(1, ptr(1, 0), ptr(1, 1))
	s3 := segment(2, ptr(1, 1), nil)
	sl := skipList(s1, s2, s3)

	assert.Panics(t, func() { followLoop(s1, sl) })
}

func TestChainToOpenLoop(t *testing.T) {
	l := NewLineAt(vec(0, 0), 0)
	single := newComparableSegment(nil, nil, l, 0)
	loop := chainToLoop([]*comparableSegment{single})
	assert.True(t, loop.Open)
	require.Len(t, loop.Points, 2)
	assert.Equal(t, -math.MaxFloat32, loop.Points[0].X)
	assert.Equal(t, math.MaxFloat32, loop.Points[1].X)

	// far points are padded by at least one unit
	in := newComparableSegment(nil, ptr(10, 0), l, 0)
	out := newComparableSegment(ptr(10, 0), nil, NewLineAt(vec(10, 0), math.Pi/2), 1)
	loop = chainToLoop([]*comparableSegment{in, out})
	require.Len(t, loop.Points, 3)
	assertVec(t, vec(5, 0), loop.Points[0])
	assertVec(t, vec(10, 0), loop.Points[1])
	assertVec(t, vec(10, 1), loop.Points[2])
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []v2.Vec
		want []v2.Vec
	}{
		{"distinct", []v2.Vec{vec(0, 0), vec(1, 0), vec(0, 1)}, []v2.Vec{vec(0, 0), vec(1, 0), vec(0, 1)}},
		{"consecutive repeat", []v2.Vec{vec(0, 0), vec(0, 0), vec(1, 0)}, []v2.Vec{vec(0, 0), vec(1, 0)}},
		{"closing repeat", []v2.Vec{vec(0, 0), vec(1, 0), vec(0, 1), vec(0, 0)}, []v2.Vec{vec(0, 0), vec(1, 0), vec(0, 1)}},
		{"within thickness", []v2.Vec{vec(0, 0), vec(1e-12, 0), vec(1, 0)}, []v2.Vec{vec(0, 0), vec(1, 0)}},
		{"empty", nil, []v2.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupe(tt.in, DefaultThickness))
		})
	}
}
