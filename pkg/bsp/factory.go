package bsp

import "github.com/pkg/errors"

// Set operations on regions. Operands are copied before merging so the
// input regions are never modified. The result uses the geometry of the
// first operand and the larger of the two tolerances.

// Union returns a ∪ b.
func Union[P any](a, b *Region[P]) *Region[P] {
	return combine(a, b, unionMerger[P])
}

// Intersection returns a ∩ b.
func Intersection[P any](a, b *Region[P]) *Region[P] {
	return combine(a, b, intersectionMerger[P])
}

// Xor returns the symmetric difference of a and b.
func Xor[P any](a, b *Region[P]) *Region[P] {
	return combine(a, b, xorMerger[P])
}

// Difference returns a \ b.
func Difference[P any](a, b *Region[P]) *Region[P] {
	return combine(a, b, differenceMerger[P])
}

// Complement returns the complement of r.
func Complement[P any](r *Region[P]) *Region[P] {
	return r.BuildNew(recurseComplement(r.tree))
}

// BuildConvex builds the convex region on the minus side of every
// hyperplane. Hyperplanes that repeat an earlier one are ignored; a
// hyperplane coincident with an earlier one but opposite in orientation
// yields the empty region. It fails with ErrInvalidArgument when no
// hyperplane is given or when a hyperplane lies entirely outside the
// region built so far.
func BuildConvex[P any](hyperplanes ...Hyperplane[P]) (*Region[P], error) {
	if len(hyperplanes) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "convex region needs at least one hyperplane")
	}

	region := hyperplanes[0].WholeSpace()
	node := region.tree
	node.attr = Flag(true)
	for i, h := range hyperplanes {
		if node.InsertCut(h) {
			node.attr = nil
			node.plus.attr = Flag(false)
			node = node.minus
			node.attr = Flag(true)
			continue
		}

		s := h.WholeHyperplane()
		for t := node; t.parent != nil && s != nil; t = t.parent {
			other := t.parent.cut.Hyperplane()
			switch s.Side(other) {
			case SideHyper:
				if !h.SameOrientationAs(other) {
					return Complement(hyperplanes[0].WholeSpace()), nil
				}
				log.Debugf("hyperplane %d repeats an earlier one, ignored", i)
				s = nil
			case SidePlus:
				return nil, errors.Wrapf(ErrInvalidArgument, "hyperplane %d lies outside the convex region", i)
			default:
				_, s = s.Split(other)
			}
		}
	}
	return region, nil
}

func combine[P any](a, b *Region[P], m LeafMerger[P]) *Region[P] {
	tree := a.tree.CopySelf().Merge(b.tree.CopySelf(), m)
	tree.Visit(nodeCleaner[P]{})
	return NewRegionWithTolerance(tree, a.geometry, max(a.tolerance, b.tolerance))
}

func unionMerger[P any](leaf, tree, parent *Node[P], isPlusChild, _ bool) *Node[P] {
	if leaf.IsInside() {
		leaf.InsertInTree(parent, isPlusChild)
		return leaf
	}
	tree.InsertInTree(parent, isPlusChild)
	return tree
}

func intersectionMerger[P any](leaf, tree, parent *Node[P], isPlusChild, _ bool) *Node[P] {
	if leaf.IsInside() {
		tree.InsertInTree(parent, isPlusChild)
		return tree
	}
	leaf.InsertInTree(parent, isPlusChild)
	return leaf
}

func xorMerger[P any](leaf, tree, parent *Node[P], isPlusChild, _ bool) *Node[P] {
	t := tree
	if leaf.IsInside() {
		t = recurseComplement(t)
	}
	t.InsertInTree(parent, isPlusChild)
	return t
}

func differenceMerger[P any](leaf, tree, parent *Node[P], isPlusChild, leafFromInstance bool) *Node[P] {
	if leaf.IsInside() {
		arg := leaf
		if leafFromInstance {
			arg = tree
		}
		complemented := recurseComplement(arg)
		complemented.InsertInTree(parent, isPlusChild)
		return complemented
	}
	instance := tree
	if leafFromInstance {
		instance = leaf
	}
	instance.InsertInTree(parent, isPlusChild)
	return instance
}

func recurseComplement[P any](node *Node[P]) *Node[P] {
	if node.cut == nil {
		return NewLeaf[P](Flag(!node.IsInside()))
	}
	var attr Attribute
	if ba, ok := node.attr.(*BoundaryAttribute[P]); ok {
		swapped := &BoundaryAttribute[P]{}
		if ba.PlusInside != nil {
			swapped.PlusOutside = ba.PlusInside.CopySelf()
		}
		if ba.PlusOutside != nil {
			swapped.PlusInside = ba.PlusOutside.CopySelf()
		}
		attr = swapped
	}
	return NewInternal(node.cut.CopySelf(), recurseComplement(node.plus), recurseComplement(node.minus), attr)
}

// nodeCleaner drops stale boundary annotations after a merge.
type nodeCleaner[P any] struct{}

func (nodeCleaner[P]) VisitOrder(*Node[P]) Order    { return PlusSubMinus }
func (nodeCleaner[P]) VisitInternalNode(n *Node[P]) { n.attr = nil }
func (nodeCleaner[P]) VisitLeafNode(*Node[P])       {}
