package bsp

// characterization accumulates the parts of a sub-hyperplane that land in
// outside and inside leaves of a subtree.
type characterization[P any] struct {
	outside SubHyperplane[P]
	inside  SubHyperplane[P]
}

func (c *characterization[P]) touchOutside() bool {
	return c.outside != nil && !c.outside.IsEmpty()
}

func (c *characterization[P]) touchInside() bool {
	return c.inside != nil && !c.inside.IsEmpty()
}

func (c *characterization[P]) addOutside(sub SubHyperplane[P]) {
	if c.outside == nil {
		c.outside = sub
		return
	}
	c.outside = c.outside.Reunite(sub)
}

func (c *characterization[P]) addInside(sub SubHyperplane[P]) {
	if c.inside == nil {
		c.inside = sub
		return
	}
	c.inside = c.inside.Reunite(sub)
}

// characterize pushes sub down the subtree rooted at node.
func characterize[P any](node *Node[P], sub SubHyperplane[P], c *characterization[P]) {
	if node.cut == nil {
		if node.IsInside() {
			c.addInside(sub)
		} else {
			c.addOutside(sub)
		}
		return
	}

	h := node.cut.Hyperplane()
	switch side := sub.Side(h); side {
	case SidePlus:
		characterize(node.plus, sub, c)
	case SideMinus:
		characterize(node.minus, sub, c)
	case SideBoth:
		plus, minus := sub.Split(h)
		if plus != nil {
			characterize(node.plus, plus, c)
		}
		if minus != nil {
			characterize(node.minus, minus, c)
		}
	default:
		panic(internalError("characterize: boundary piece lies on a descendant cut (side %s)", side))
	}
}

// boundaryBuilder annotates every internal node with the parts of its cut
// that separate inside from outside cells.
type boundaryBuilder[P any] struct{}

func (boundaryBuilder[P]) VisitOrder(*Node[P]) Order { return PlusMinusSub }
func (boundaryBuilder[P]) VisitLeafNode(*Node[P])    {}

func (boundaryBuilder[P]) VisitInternalNode(n *Node[P]) {
	attr := &BoundaryAttribute[P]{}

	var plusChar characterization[P]
	characterize(n.plus, n.cut.CopySelf(), &plusChar)

	if plusChar.touchOutside() {
		// outside on the plus side, look for inside on the minus side
		var minusChar characterization[P]
		characterize(n.minus, plusChar.outside, &minusChar)
		if minusChar.touchInside() {
			attr.PlusOutside = minusChar.inside
		}
	}

	if plusChar.touchInside() {
		var minusChar characterization[P]
		characterize(n.minus, plusChar.inside, &minusChar)
		if minusChar.touchOutside() {
			attr.PlusInside = minusChar.outside
		}
	}

	n.attr = attr
}
