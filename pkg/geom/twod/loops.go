package twod

import (
	"math"

	"github.com/Workiva/go-datastructures/common"
	"github.com/Workiva/go-datastructures/slice/skip"
	"github.com/chazu/bspregion/pkg/bsp"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// loopTolerance is the distance under which two segment ends are joined.
const loopTolerance = 1e-10

// Loop is one connected piece of a polygon boundary. For a closed loop
// Points lists the vertices in boundary order. For an open loop the first
// and last points are artificial far points placed on the unbounded end
// lines, so the loop can still be drawn as a finite polyline.
type Loop struct {
	Open   bool
	Points []v2.Vec
}

// comparableSegment is a directed boundary piece ordered by its start
// point. Unbounded starts sort first; seq breaks ties so that distinct
// segments never compare equal.
type comparableSegment struct {
	start *v2.Vec
	end   *v2.Vec
	line  *Line
	keyX  float64
	keyY  float64
	seq   int64
}

var _ common.Comparator = (*comparableSegment)(nil)

func newComparableSegment(start, end *v2.Vec, line *Line, seq int64) *comparableSegment {
	s := &comparableSegment{start: start, end: end, line: line, seq: seq}
	if start == nil {
		s.keyX, s.keyY = math.Inf(-1), math.Inf(-1)
	} else {
		s.keyX, s.keyY = start.X, start.Y
	}
	return s
}

// searchKey returns a search key around p. Bounds use extreme sequence numbers
// so they enclose every segment sharing their key.
func searchKey(p v2.Vec, delta float64, seq int64) *comparableSegment {
	return &comparableSegment{keyX: p.X + delta, keyY: p.Y + delta, seq: seq}
}

func (s *comparableSegment) Compare(other common.Comparator) int {
	o := other.(*comparableSegment)
	switch {
	case s.keyX < o.keyX:
		return -1
	case s.keyX > o.keyX:
		return 1
	case s.keyY < o.keyY:
		return -1
	case s.keyY > o.keyY:
		return 1
	case s.seq < o.seq:
		return -1
	case s.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// segmentsBuilder collects the boundary pieces of an annotated tree.
// Outside-facing pieces keep the cut orientation; inside-facing pieces
// are reversed so that every segment has the region on its left.
type segmentsBuilder struct {
	sorted *skip.SkipList
	seq    int64
}

func newSegmentsBuilder() *segmentsBuilder {
	return &segmentsBuilder{sorted: skip.New(uint64(0))}
}

func (b *segmentsBuilder) VisitOrder(*bsp.Node[v2.Vec]) bsp.Order { return bsp.MinusSubPlus }
func (b *segmentsBuilder) VisitLeafNode(*bsp.Node[v2.Vec])        {}

func (b *segmentsBuilder) VisitInternalNode(n *bsp.Node[v2.Vec]) {
	attr, ok := n.Attribute().(*bsp.BoundaryAttribute[v2.Vec])
	if !ok {
		return
	}
	if attr.PlusOutside != nil {
		b.add(attr.PlusOutside, false)
	}
	if attr.PlusInside != nil {
		b.add(attr.PlusInside, true)
	}
}

func (b *segmentsBuilder) add(sub bsp.SubHyperplane[v2.Vec], reversed bool) {
	sl := sub.(*SubLine)
	line := sl.line
	for _, iv := range sl.remaining.Intervals() {
		start := pointAt(line, iv.Inf)
		end := pointAt(line, iv.Sup)
		if reversed {
			b.sorted.Insert(newComparableSegment(end, start, line.Reverse(), b.seq))
		} else {
			b.sorted.Insert(newComparableSegment(start, end, line, b.seq))
		}
		b.seq++
	}
}

func pointAt(l *Line, abscissa float64) *v2.Vec {
	if math.IsInf(abscissa, 0) {
		return nil
	}
	p := l.ToSpace(abscissa)
	return &p
}

func distance(a, b v2.Vec) float64 {
	return a.Sub(b).Length()
}

// extractLoops walks the boundary of r and stitches it into loops. A tree
// that was not built consistently yields an error wrapping bsp.ErrInternal.
func extractLoops(r *bsp.Region[v2.Vec]) (loops []Loop, err error) {
	defer func() {
		if v := recover(); v != nil {
			loops, err = nil, bsp.Recovered(v)
		}
	}()

	if r.Tree(false).IsLeaf() {
		return nil, nil
	}

	b := newSegmentsBuilder()
	r.Tree(true).Visit(b)

	// open loops start with an unbounded segment, which sorts first
	var chains [][]*comparableSegment
	for b.sorted.Len() > 0 {
		first := b.sorted.ByPosition(0).(*comparableSegment)
		if chain := followLoop(first, b.sorted); chain != nil {
			chains = append(chains, chain)
		}
	}

	loops = make([]Loop, 0, len(chains))
	for _, chain := range chains {
		loops = append(loops, chainToLoop(chain))
	}
	return loops, nil
}

// followLoop removes first from sorted and greedily appends the segment
// starting nearest to the current end until the loop closes or runs off
// to infinity. Degenerate loops are discarded and nil is returned.
func followLoop(first *comparableSegment, sorted *skip.SkipList) []*comparableSegment {
	loop := []*comparableSegment{first}
	sorted.Delete(first)

	open := first.start == nil
	end := first.end
	for end != nil && (open || distance(*first.start, *end) > loopTolerance) {
		lower := searchKey(*end, -loopTolerance, math.MinInt64)
		upper := searchKey(*end, loopTolerance, math.MaxInt64)

		var selected *comparableSegment
		selectedDistance := math.Inf(1)
		iter := sorted.Iter(lower)
		for iter.Next() {
			seg := iter.Value().(*comparableSegment)
			if seg.Compare(upper) > 0 {
				break
			}
			if seg.start == nil {
				continue
			}
			if d := distance(*end, *seg.start); d < selectedDistance {
				selected = seg
				selectedDistance = d
			}
		}

		if selectedDistance > loopTolerance {
			log.Debugf("dropping degenerate loop: no segment continues from (%g, %g)", end.X, end.Y)
			return nil
		}
		end = selected.end
		loop = append(loop, selected)
		sorted.Delete(selected)
	}

	if !open && len(loop) <= 2 {
		log.Debugf("dropping infinitely thin loop of %d segments", len(loop))
		return nil
	}
	if end == nil && !open {
		panic(errors.Wrap(bsp.ErrInternal, "closed boundary loop runs off to infinity"))
	}
	return loop
}

func chainToLoop(chain []*comparableSegment) Loop {
	first := chain[0]
	if first.start != nil {
		points := make([]v2.Vec, len(chain))
		for i, seg := range chain {
			points[i] = *seg.start
		}
		return Loop{Points: points}
	}

	if len(chain) == 1 {
		// a single infinite line
		return Loop{
			Open: true,
			Points: []v2.Vec{
				first.line.ToSpace(-math.MaxFloat32),
				first.line.ToSpace(math.MaxFloat32),
			},
		}
	}

	last := chain[len(chain)-1]
	points := make([]v2.Vec, 0, len(chain)+1)

	x := first.line.ToSubSpace(*first.end)
	x -= math.Max(1, math.Abs(x/2))
	points = append(points, first.line.ToSpace(x))
	for _, seg := range chain[:len(chain)-1] {
		points = append(points, *seg.end)
	}
	x = last.line.ToSubSpace(*last.start)
	x += math.Max(1, math.Abs(x/2))
	points = append(points, last.line.ToSpace(x))

	return Loop{Open: true, Points: points}
}
