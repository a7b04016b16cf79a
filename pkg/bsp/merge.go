package bsp

// LeafMerger combines a leaf of one tree with a whole subtree of another
// during Merge. leafFromInstance is true when leaf belongs to the tree
// Merge was called on. The merger must insert its result under parent on
// the requested side (see InsertInTree) and return it.
type LeafMerger[P any] func(leaf, tree, parent *Node[P], isPlusChild, leafFromInstance bool) *Node[P]

// Merge merges n with other, combining overlapping cells with m. Both
// trees are consumed: callers that need them afterwards must merge copies.
func (n *Node[P]) Merge(other *Node[P], m LeafMerger[P]) *Node[P] {
	return n.merge(other, m, nil, false)
}

func (n *Node[P]) merge(other *Node[P], m LeafMerger[P], parent *Node[P], isPlusChild bool) *Node[P] {
	if n.cut == nil {
		return m(n, other, parent, isPlusChild, true)
	}
	if other.cut == nil {
		return m(other, n, parent, isPlusChild, false)
	}

	merged := other.Split(n.cut)
	if parent != nil {
		merged.parent = parent
		if isPlusChild {
			parent.plus = merged
		} else {
			parent.minus = merged
		}
	}

	n.plus.merge(merged.plus, m, merged, true)
	n.minus.merge(merged.minus, m, merged, false)
	merged.condense()
	if merged.cut != nil {
		if fitted := merged.fitToCell(merged.cut.Hyperplane().WholeHyperplane()); fitted != nil {
			merged.cut = fitted
		}
	}
	return merged
}

// Split partitions the subtree rooted at n by sub. The returned tree has
// sub as its root cut; its plus and minus children hold the parts of n on
// the plus and minus sides of sub. The receiver is left untouched.
func (n *Node[P]) Split(sub SubHyperplane[P]) *Node[P] {
	if n.cut == nil {
		return NewInternal(sub, n.CopySelf(), NewLeaf[P](n.attr), nil)
	}

	cHyperplane := n.cut.Hyperplane()
	sHyperplane := sub.Hyperplane()
	switch sub.Side(cHyperplane) {
	case SidePlus:
		split := n.plus.Split(sub)
		if n.cut.Side(sHyperplane) == SidePlus {
			split.plus = NewInternal(n.cut.CopySelf(), split.plus, n.minus.CopySelf(), n.attr)
			split.plus.condense()
			split.plus.parent = split
		} else {
			split.minus = NewInternal(n.cut.CopySelf(), split.minus, n.minus.CopySelf(), n.attr)
			split.minus.condense()
			split.minus.parent = split
		}
		return split

	case SideMinus:
		split := n.minus.Split(sub)
		if n.cut.Side(sHyperplane) == SidePlus {
			split.plus = NewInternal(n.cut.CopySelf(), n.plus.CopySelf(), split.plus, n.attr)
			split.plus.condense()
			split.plus.parent = split
		} else {
			split.minus = NewInternal(n.cut.CopySelf(), n.plus.CopySelf(), split.minus, n.attr)
			split.minus.condense()
			split.minus.parent = split
		}
		return split

	case SideBoth:
		cutPlus, cutMinus := n.cut.Split(sHyperplane)
		subPlus, subMinus := sub.Split(cHyperplane)
		split := NewInternal(sub, n.plus.Split(orElse(subPlus, sub)), n.minus.Split(orElse(subMinus, sub)), nil)
		split.plus.cut = orElse(cutPlus, n.cut.CopySelf())
		split.minus.cut = orElse(cutMinus, n.cut.CopySelf())
		tmp := split.plus.minus
		split.plus.minus = split.minus.plus
		split.plus.minus.parent = split.plus
		split.minus.plus = tmp
		split.minus.plus.parent = split.minus
		split.plus.condense()
		split.minus.condense()
		return split

	default:
		if cHyperplane.SameOrientationAs(sHyperplane) {
			return NewInternal(sub, n.plus.CopySelf(), n.minus.CopySelf(), n.attr)
		}
		return NewInternal(sub, n.minus.CopySelf(), n.plus.CopySelf(), n.attr)
	}
}

// InsertInTree attaches n as a child of parent and chops off the parts of
// n that extend outside the cell parent assigns to it.
func (n *Node[P]) InsertInTree(parent *Node[P], isPlusChild bool) {
	n.parent = parent
	if parent != nil {
		if isPlusChild {
			parent.plus = n
		} else {
			parent.minus = n
		}
	}

	if n.cut == nil {
		return
	}
	for t := n; t.parent != nil; t = t.parent {
		h := t.parent.cut.Hyperplane()
		if t == t.parent.plus {
			n.cut = chop(n.cut, h, true)
			n.plus.chopOff(h, true)
			n.minus.chopOff(h, true)
		} else {
			n.cut = chop(n.cut, h, false)
			n.plus.chopOff(h, false)
			n.minus.chopOff(h, false)
		}
	}
	n.condense()
}

// chopOff restricts every cut below n to one side of h.
func (n *Node[P]) chopOff(h Hyperplane[P], keepPlus bool) {
	if n.cut == nil {
		return
	}
	n.cut = chop(n.cut, h, keepPlus)
	n.plus.chopOff(h, keepPlus)
	n.minus.chopOff(h, keepPlus)
}

// chop keeps the part of sub on one side of h. A cut lying entirely on
// the discarded side still separates its children, so it is kept whole.
func chop[P any](sub SubHyperplane[P], h Hyperplane[P], keepPlus bool) SubHyperplane[P] {
	plus, minus := sub.Split(h)
	piece := minus
	if keepPlus {
		piece = plus
	}
	return orElse(piece, sub)
}

func orElse[P any](sub, fallback SubHyperplane[P]) SubHyperplane[P] {
	if sub == nil {
		return fallback
	}
	return sub
}

// condense collapses an internal node whose two children are leaves with
// the same attribute.
func (n *Node[P]) condense() {
	if n.cut == nil || n.plus.cut != nil || n.minus.cut != nil {
		return
	}
	if n.plus.attr != n.minus.attr {
		return
	}
	n.attr = n.plus.attr
	n.cut = nil
	n.plus = nil
	n.minus = nil
}
