package twod

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/chazu/bspregion/pkg/geom/oned"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

var _ bsp.SubHyperplane[v2.Vec] = (*SubLine)(nil)

// SubLine is a part of a line, described by the set of abscissas of the
// line it covers.
type SubLine struct {
	line      *Line
	remaining *oned.IntervalsSet
}

// NewSubLine returns the part of line covered by remaining.
func NewSubLine(line *Line, remaining *oned.IntervalsSet) *SubLine {
	return &SubLine{line: line, remaining: remaining}
}

// NewSegmentSubLine returns the sub-line joining start to end.
func NewSegmentSubLine(start, end v2.Vec) (*SubLine, error) {
	line, err := NewLine(start, end)
	if err != nil {
		return nil, err
	}
	return NewSubLine(line, oned.NewIntervalsSet(line.ToSubSpace(start), line.ToSubSpace(end))), nil
}

func (s *SubLine) Line() *Line                        { return s.line }
func (s *SubLine) Remaining() *oned.IntervalsSet      { return s.remaining }
func (s *SubLine) Hyperplane() bsp.Hyperplane[v2.Vec] { return s.line }
func (s *SubLine) IsEmpty() bool                      { return s.remaining.IsEmpty() }
func (s *SubLine) Size() float64                      { return s.remaining.Size() }

func (s *SubLine) CopySelf() bsp.SubHyperplane[v2.Vec] {
	return NewSubLine(s.line.CopySelf().(*Line), s.remaining)
}

// Segments returns the segments covered by the sub-line in increasing
// abscissa order. Unbounded ends have infinite coordinates.
func (s *SubLine) Segments() []Segment {
	ivs := s.remaining.Intervals()
	segments := make([]Segment, 0, len(ivs))
	for _, iv := range ivs {
		segments = append(segments, Segment{
			Start: s.line.ToSpace(iv.Inf),
			End:   s.line.ToSpace(iv.Sup),
			Line:  s.line,
		})
	}
	return segments
}

// crossing locates other on the sub-space of s. For parallel lines ok is
// false and global is the offset of s relative to other.
func (s *SubLine) crossing(other *Line) (x float64, direct bool, global float64, ok bool) {
	p, ok := s.line.Intersection(other)
	if !ok {
		return 0, false, other.LineOffset(s.line), false
	}
	direct = math.Sin(s.line.angle-other.angle) < 0
	return s.line.ToSubSpace(p), direct, 0, true
}

func parallelSide(global float64) bsp.Side {
	switch {
	case global < -bsp.DefaultTolerance:
		return bsp.SideMinus
	case global > bsp.DefaultTolerance:
		return bsp.SidePlus
	default:
		return bsp.SideHyper
	}
}

func (s *SubLine) Side(h bsp.Hyperplane[v2.Vec]) bsp.Side {
	x, direct, global, ok := s.crossing(h.(*Line))
	if !ok {
		return parallelSide(global)
	}
	return s.remaining.Side(oned.NewOrientedPoint(x, direct))
}

func (s *SubLine) Split(h bsp.Hyperplane[v2.Vec]) (plus, minus bsp.SubHyperplane[v2.Vec]) {
	x, direct, global, ok := s.crossing(h.(*Line))
	if !ok {
		switch parallelSide(global) {
		case bsp.SidePlus:
			return s, nil
		case bsp.SideMinus:
			return nil, s
		default:
			return nil, nil
		}
	}

	subPlus := oned.NewOrientedPoint(x, !direct).WholeHyperplane()
	subMinus := oned.NewOrientedPoint(x, direct).WholeHyperplane()
	splitTree := s.remaining.Tree(false).Split(subMinus)

	if !splitTree.Plus().IsEmpty() {
		tree := bsp.NewInternal(subPlus, bsp.NewLeaf[float64](bsp.Flag(false)), splitTree.Plus(), nil)
		plus = NewSubLine(s.line.CopySelf().(*Line), oned.NewIntervalsSetFromTree(tree))
	}
	if !splitTree.Minus().IsEmpty() {
		tree := bsp.NewInternal(subMinus, bsp.NewLeaf[float64](bsp.Flag(false)), splitTree.Minus(), nil)
		minus = NewSubLine(s.line.CopySelf().(*Line), oned.NewIntervalsSetFromTree(tree))
	}
	return plus, minus
}

func (s *SubLine) Reunite(other bsp.SubHyperplane[v2.Vec]) bsp.SubHyperplane[v2.Vec] {
	o := other.(*SubLine)
	return NewSubLine(s.line, oned.Union(s.remaining, o.remaining))
}

// Segment is a directed piece of a line.
type Segment struct {
	Start v2.Vec
	End   v2.Vec
	Line  *Line
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Length()
}

// Distance returns the distance from p to the segment.
func (s Segment) Distance(p v2.Vec) float64 {
	d := s.End.Sub(s.Start)
	q := p.Sub(s.Start)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return q.Length()
	}
	r := (q.X*d.X + q.Y*d.Y) / l2
	if r < 0 || r > 1 {
		return math.Min(q.Length(), p.Sub(s.End).Length())
	}
	return math.Abs(q.X*d.Y-q.Y*d.X) / math.Sqrt(l2)
}
