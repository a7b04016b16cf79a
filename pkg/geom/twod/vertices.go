package twod

import (
	"math"

	"github.com/chazu/bspregion/pkg/bsp"
	v2 "github.com/deadsy/sdfx/vec/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

// vertex is a polygon vertex together with every line it has been bound
// to. Two vertices bound to the same line share it instead of building a
// new, slightly different one.
type vertex struct {
	location v2.Vec
	incoming *edge
	outgoing *edge
	lines    []*Line
	lineSet  mapset.Set[*Line]
}

func newVertex(location v2.Vec) *vertex {
	return &vertex{location: location, lineSet: mapset.NewSet[*Line]()}
}

func (v *vertex) bindWith(l *Line) {
	if v.lineSet.Contains(l) {
		return
	}
	v.lineSet.Add(l)
	v.lines = append(v.lines, l)
}

// sharedLineWith returns a line both vertices are bound to, or nil.
func (v *vertex) sharedLineWith(other *vertex) *Line {
	for _, l := range v.lines {
		if other.lineSet.Contains(l) {
			return l
		}
	}
	return nil
}

func (v *vertex) setIncoming(e *edge) {
	v.incoming = e
	v.bindWith(e.line)
}

func (v *vertex) setOutgoing(e *edge) {
	v.outgoing = e
	v.bindWith(e.line)
}

// edge joins two consecutive vertices. node is the tree node whose cut
// was built from the edge line, nil until the edge is inserted.
type edge struct {
	start *vertex
	end   *vertex
	line  *Line
	node  *bsp.Node[v2.Vec]
}

func newEdge(start, end *vertex, line *Line) *edge {
	e := &edge{start: start, end: end, line: line}
	start.setOutgoing(e)
	end.setIncoming(e)
	return e
}

// split cuts the edge where it crosses splitLine and returns the new
// vertex, whose incoming and outgoing edges are the two halves.
func (e *edge) split(splitLine *Line) *vertex {
	p, ok := e.line.Intersection(splitLine)
	if !ok {
		// nearly parallel: interpolate on the offsets instead
		s := splitLine.Offset(e.start.location)
		t := splitLine.Offset(e.end.location)
		r := s / (s - t)
		p = v2.Vec{
			X: e.start.location.X + r*(e.end.location.X-e.start.location.X),
			Y: e.start.location.Y + r*(e.end.location.Y-e.start.location.Y),
		}
	}
	sv := newVertex(p)
	sv.bindWith(splitLine)
	startHalf := newEdge(e.start, sv, e.line)
	endHalf := newEdge(sv, e.end, e.line)
	startHalf.node = e.node
	endHalf.node = e.node
	return sv
}

// dedupe drops vertices lying within thickness of their predecessor,
// including the closing pair.
func dedupe(points []v2.Vec, thickness float64) []v2.Vec {
	out := make([]v2.Vec, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && closeTo(out[len(out)-1], p, thickness) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && closeTo(out[len(out)-1], out[0], thickness) {
		out = out[:len(out)-1]
	}
	return out
}

func closeTo(a, b v2.Vec, thickness float64) bool {
	return a.Sub(b).Length() <= thickness
}

// verticesToTree builds the tree of the polygon whose boundary runs
// through points. Polygons with fewer than three distinct vertices
// enclose nothing.
func verticesToTree(thickness float64, points []v2.Vec) *bsp.Node[v2.Vec] {
	points = dedupe(points, thickness)
	n := len(points)
	if n < 3 {
		if n > 0 {
			log.Debugf("polygon with %d distinct vertices is empty", n)
		}
		return bsp.NewLeaf[v2.Vec](bsp.Flag(false))
	}

	vertices := make([]*vertex, n)
	for i, p := range points {
		vertices[i] = newVertex(p)
	}

	edges := make([]*edge, 0, n)
	for i := 0; i < n; i++ {
		start := vertices[i]
		end := vertices[(i+1)%n]

		line := start.sharedLineWith(end)
		if line == nil {
			line = lineThrough(start.location, end.location)
		}
		edges = append(edges, newEdge(start, end, line))

		for _, v := range vertices {
			if v != start && v != end && math.Abs(line.Offset(v.location)) <= thickness {
				v.bindWith(line)
			}
		}
	}

	tree := &bsp.Node[v2.Vec]{}
	insertEdges(thickness, tree, edges)
	return tree
}

func offsetSide(offset, thickness float64) bsp.Side {
	switch {
	case math.Abs(offset) <= thickness:
		return bsp.SideHyper
	case offset < 0:
		return bsp.SideMinus
	default:
		return bsp.SidePlus
	}
}

func insertEdges(thickness float64, node *bsp.Node[v2.Vec], edges []*edge) {
	var inserted *edge
	for _, e := range edges {
		if e.node != nil {
			continue
		}
		if node.InsertCut(e.line) {
			e.node = node
			inserted = e
			break
		}
	}

	if inserted == nil {
		parent := node.Parent()
		node.SetAttribute(bsp.Flag(parent == nil || node == parent.Minus()))
		return
	}

	var plusList, minusList []*edge
	for _, e := range edges {
		if e == inserted {
			continue
		}
		startSide := offsetSide(inserted.line.Offset(e.start.location), thickness)
		endSide := offsetSide(inserted.line.Offset(e.end.location), thickness)
		switch startSide {
		case bsp.SidePlus:
			if endSide == bsp.SideMinus {
				sv := e.split(inserted.line)
				minusList = append(minusList, sv.outgoing)
				plusList = append(plusList, sv.incoming)
			} else {
				plusList = append(plusList, e)
			}
		case bsp.SideMinus:
			if endSide == bsp.SidePlus {
				sv := e.split(inserted.line)
				minusList = append(minusList, sv.incoming)
				plusList = append(plusList, sv.outgoing)
			} else {
				minusList = append(minusList, e)
			}
		default:
			switch endSide {
			case bsp.SidePlus:
				plusList = append(plusList, e)
			case bsp.SideMinus:
				minusList = append(minusList, e)
			default:
				// the edge lies in the thickness band and is absorbed by the cut
			}
		}
	}

	if len(plusList) > 0 {
		insertEdges(thickness, node.Plus(), plusList)
	} else {
		node.Plus().SetAttribute(bsp.Flag(false))
	}
	if len(minusList) > 0 {
		insertEdges(thickness, node.Minus(), minusList)
	} else {
		node.Minus().SetAttribute(bsp.Flag(true))
	}
}
