// Package tessellate walks a design graph, evaluates it into planar
// regions and extrudes those regions into triangle meshes using a
// geometry kernel. One region, and one mesh, is produced per scene entry.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/bspregion/pkg/geom/twod"
	"github.com/chazu/bspregion/pkg/graph"
	"github.com/chazu/bspregion/pkg/kernel"
	v2 "github.com/deadsy/sdfx/vec/v2"
	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("tessellate")

// ErrUnbounded reports a region that extends to infinity and so has no
// finite profile to extrude.
var ErrUnbounded = errors.New("tessellate: region is unbounded")

// NamedRegion is one entry of a scene, evaluated.
type NamedRegion struct {
	Name  string // node name, or short ID when unnamed
	Scene string // name of the root scene, empty for bare roots
	Set   *twod.PolygonsSet
}

// evaluator turns nodes into polygon sets. Results are memoized so a
// subgraph shared by several parents is built once; set operations leave
// their operands intact, so sharing is safe.
type evaluator struct {
	g      *graph.DesignGraph
	memo   map[graph.NodeID]*twod.PolygonsSet
	active map[graph.NodeID]bool
}

func newEvaluator(g *graph.DesignGraph) *evaluator {
	return &evaluator{
		g:      g,
		memo:   make(map[graph.NodeID]*twod.PolygonsSet),
		active: make(map[graph.NodeID]bool),
	}
}

// Regions evaluates every root of the graph. A root scene contributes one
// region per child; any other root contributes itself. The graph is
// read-only and never mutated.
func Regions(g *graph.DesignGraph) ([]NamedRegion, error) {
	if g == nil {
		return nil, nil
	}

	ev := newEvaluator(g)
	var regions []NamedRegion
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}

		if root.Kind != graph.NodeGroup {
			set, err := ev.eval(root)
			if err != nil {
				return nil, fmt.Errorf("tessellate: error evaluating root %s: %w", rootID.Short(), err)
			}
			regions = append(regions, NamedRegion{Name: root.DisplayName(), Set: set})
			continue
		}

		for _, child := range g.Children(root) {
			set, err := ev.eval(child)
			if err != nil {
				return nil, fmt.Errorf("tessellate: error evaluating %s in scene %s: %w",
					child.DisplayName(), root.DisplayName(), err)
			}
			regions = append(regions, NamedRegion{Name: child.DisplayName(), Scene: root.DisplayName(), Set: set})
		}
	}

	log.Debugf("evaluated %d regions from %d roots", len(regions), len(g.Roots))
	return regions, nil
}

// Evaluate returns the region of a single node.
func Evaluate(g *graph.DesignGraph, id graph.NodeID) (*twod.PolygonsSet, error) {
	n := g.Get(id)
	if n == nil {
		return nil, fmt.Errorf("tessellate: node %s does not exist", id.Short())
	}
	return newEvaluator(g).eval(n)
}

func (ev *evaluator) eval(n *graph.Node) (*twod.PolygonsSet, error) {
	if set, ok := ev.memo[n.ID]; ok {
		return set, nil
	}
	if ev.active[n.ID] {
		return nil, fmt.Errorf("node %s is part of a cycle", n.DisplayName())
	}
	ev.active[n.ID] = true
	defer delete(ev.active, n.ID)

	var (
		set *twod.PolygonsSet
		err error
	)
	switch n.Kind {
	case graph.NodePolygon:
		set, err = evalPolygon(n)
	case graph.NodeBox:
		set, err = evalBox(n)
	case graph.NodeTransform:
		set, err = ev.evalTransform(n)
	case graph.NodeBoolean:
		set, err = ev.evalBoolean(n)
	case graph.NodeGroup:
		set, err = ev.evalGroup(n)
	default:
		err = fmt.Errorf("unknown node kind: %v", n.Kind)
	}
	if err != nil {
		return nil, err
	}

	ev.memo[n.ID] = set
	return set, nil
}

func evalPolygon(n *graph.Node) (*twod.PolygonsSet, error) {
	pd, ok := n.Data.(graph.PolygonData)
	if !ok {
		return nil, fmt.Errorf("polygon node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	vertices := make([]v2.Vec, len(pd.Vertices))
	for i, v := range pd.Vertices {
		vertices[i] = v2.Vec{X: v.X, Y: v.Y}
	}
	set, err := twod.NewPolygonsSet(pd.Thickness, vertices...)
	if err != nil {
		return nil, fmt.Errorf("polygon %s: %w", n.DisplayName(), err)
	}
	return set, nil
}

func evalBox(n *graph.Node) (*twod.PolygonsSet, error) {
	bd, ok := n.Data.(graph.BoxData)
	if !ok {
		return nil, fmt.Errorf("box node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	set, err := twod.NewBox(bd.XMin, bd.XMax, bd.YMin, bd.YMax)
	if err != nil {
		return nil, fmt.Errorf("box %s: %w", n.DisplayName(), err)
	}
	return set, nil
}

// affine builds the map of td: scale, then rotate, then translate.
func affine(td graph.TransformData) (*twod.AffineTransform, error) {
	t := twod.Identity()
	if td.Scale != nil {
		s, err := twod.Scaling(td.Scale.X, td.Scale.Y)
		if err != nil {
			return nil, err
		}
		t = t.Then(s)
	}
	if td.Rotation != 0 {
		t = t.Then(twod.Rotation(td.Rotation * math.Pi / 180))
	}
	if td.Translation != nil {
		t = t.Then(twod.Translation(td.Translation.X, td.Translation.Y))
	}
	return t, nil
}

func (ev *evaluator) evalTransform(n *graph.Node) (*twod.PolygonsSet, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := ev.g.Children(n)
	if len(children) != 1 {
		return nil, fmt.Errorf("transform %s has %d children, want 1", n.DisplayName(), len(children))
	}

	t, err := affine(td)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", n.DisplayName(), err)
	}
	child, err := ev.eval(children[0])
	if err != nil {
		return nil, err
	}
	return child.Transform(t), nil
}

func (ev *evaluator) evalBoolean(n *graph.Node) (*twod.PolygonsSet, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := ev.g.Children(n)
	if !bd.Op.Accepts(len(children)) {
		return nil, fmt.Errorf("%s %s has %d operands, %s", bd.Op, n.DisplayName(), len(children), bd.Op.ArityText())
	}

	operands := make([]*twod.PolygonsSet, len(children))
	for i, c := range children {
		set, err := ev.eval(c)
		if err != nil {
			return nil, err
		}
		operands[i] = set
	}

	switch bd.Op {
	case graph.OpUnion:
		return fold(operands, twod.Union), nil
	case graph.OpIntersection:
		return fold(operands, twod.Intersection), nil
	case graph.OpDifference:
		return twod.Difference(operands[0], operands[1]), nil
	case graph.OpXor:
		return twod.Xor(operands[0], operands[1]), nil
	case graph.OpComplement:
		return twod.Complement(operands[0]), nil
	default:
		return nil, fmt.Errorf("unknown boolean operation %s", bd.Op)
	}
}

// evalGroup unions the children of a group used as an operand.
func (ev *evaluator) evalGroup(n *graph.Node) (*twod.PolygonsSet, error) {
	children := ev.g.Children(n)
	if len(children) == 0 {
		return twod.Empty(), nil
	}
	operands := make([]*twod.PolygonsSet, len(children))
	for i, c := range children {
		set, err := ev.eval(c)
		if err != nil {
			return nil, err
		}
		operands[i] = set
	}
	return fold(operands, twod.Union), nil
}

func fold(sets []*twod.PolygonsSet, op func(a, b *twod.PolygonsSet) *twod.PolygonsSet) *twod.PolygonsSet {
	acc := sets[0]
	for _, s := range sets[1:] {
		acc = op(acc, s)
	}
	return acc
}

// Profile converts the boundary of a bounded set into kernel loops. Outer
// boundaries come out counter-clockwise and holes clockwise. It fails with
// ErrUnbounded for sets reaching infinity.
func Profile(set *twod.PolygonsSet) ([]kernel.Loop, error) {
	if math.IsInf(set.Size(), 1) {
		return nil, ErrUnbounded
	}
	loops, err := set.Vertices()
	if err != nil {
		return nil, err
	}

	out := make([]kernel.Loop, 0, len(loops))
	for _, l := range loops {
		if l.Open {
			return nil, ErrUnbounded
		}
		kl := make(kernel.Loop, len(l.Points))
		for i, p := range l.Points {
			kl[i] = [2]float64{p.X, p.Y}
		}
		out = append(out, kl)
	}
	return out, nil
}

// Tessellate evaluates the graph and extrudes every non-empty region to
// the given height, producing one mesh per region. The tessellator is
// read-only and never mutates the graph.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel, height float64) ([]*kernel.Mesh, error) {
	regions, err := Regions(g)
	if err != nil {
		return nil, err
	}

	var meshes []*kernel.Mesh
	for _, r := range regions {
		if r.Set.IsEmpty() {
			log.Debugf("skipping empty region %s", r.Name)
			continue
		}

		loops, err := Profile(r.Set)
		if err != nil {
			return nil, fmt.Errorf("tessellate: region %s: %w", r.Name, err)
		}
		if len(loops) == 0 {
			log.Debugf("skipping region %s with no boundary", r.Name)
			continue
		}
		solid, err := k.Extrude(loops, height)
		if err != nil {
			return nil, fmt.Errorf("tessellate: Extrude failed for region %s: %w", r.Name, err)
		}
		mesh, err := k.ToMesh(solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for region %s: %w", r.Name, err)
		}
		mesh.Region = r.Name
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}
