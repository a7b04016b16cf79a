package bsp

// Side is the position of a sub-hyperplane or region relative to a
// hyperplane.
type Side int

const (
	SidePlus  Side = iota // entirely on the plus side
	SideMinus             // entirely on the minus side
	SideBoth              // straddles the hyperplane
	SideHyper             // lies on the hyperplane itself
)

func (s Side) String() string {
	switch s {
	case SidePlus:
		return "plus"
	case SideMinus:
		return "minus"
	case SideBoth:
		return "both"
	case SideHyper:
		return "hyper"
	default:
		return "unknown"
	}
}

// Location classifies a point against a region.
type Location int

const (
	Inside Location = iota
	Outside
	Boundary
)

func (l Location) String() string {
	switch l {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	case Boundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// Order selects the visiting order of an internal node relative to its
// plus and minus subtrees.
type Order int

const (
	PlusMinusSub Order = iota
	PlusSubMinus
	MinusPlusSub
	MinusSubPlus
	SubPlusMinus
	SubMinusPlus
)

func (o Order) String() string {
	switch o {
	case PlusMinusSub:
		return "plus-minus-sub"
	case PlusSubMinus:
		return "plus-sub-minus"
	case MinusPlusSub:
		return "minus-plus-sub"
	case MinusSubPlus:
		return "minus-sub-plus"
	case SubPlusMinus:
		return "sub-plus-minus"
	case SubMinusPlus:
		return "sub-minus-plus"
	default:
		return "unknown"
	}
}
