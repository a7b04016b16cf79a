package bsp_test

import (
	"testing"

	"github.com/chazu/bspregion/pkg/bsp"
	"github.com/chazu/bspregion/pkg/geom/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(inside bool) *bsp.Node[float64] {
	return bsp.NewLeaf[float64](bsp.Flag(inside))
}

func TestInsertCut(t *testing.T) {
	root := &bsp.Node[float64]{}
	require.True(t, root.InsertCut(oned.NewOrientedPoint(1, true)))
	assert.False(t, root.IsLeaf())
	assert.Nil(t, root.Plus().Attribute())
	assert.Nil(t, root.Minus().Attribute())
	assert.Same(t, root, root.Plus().Parent())
	assert.Same(t, root, root.Minus().Parent())

	// x = 0 lies entirely on the minus side of x = 1, outside the plus cell
	plus := root.Plus()
	assert.False(t, plus.InsertCut(oned.NewOrientedPoint(0, true)))
	assert.True(t, plus.IsLeaf())

	minus := root.Minus()
	assert.True(t, minus.InsertCut(oned.NewOrientedPoint(0, true)))
}

func TestCell(t *testing.T) {
	root := bsp.NewInternal(oned.NewOrientedPoint(1, true).WholeHyperplane(), leaf(false), leaf(true), nil)

	assert.Same(t, root.Plus(), root.Cell(2, bsp.DefaultTolerance))
	assert.Same(t, root.Minus(), root.Cell(0, bsp.DefaultTolerance))
	assert.Same(t, root, root.Cell(1, bsp.DefaultTolerance))
	assert.Same(t, root, root.Cell(1+1e-12, bsp.DefaultTolerance))
}

type recorder struct {
	order bsp.Order
	names map[*bsp.Node[float64]]string
	seen  []string
}

func (r *recorder) VisitOrder(*bsp.Node[float64]) bsp.Order { return r.order }
func (r *recorder) VisitInternalNode(n *bsp.Node[float64]) {
	r.seen = append(r.seen, r.names[n])
}
func (r *recorder) VisitLeafNode(n *bsp.Node[float64]) {
	r.seen = append(r.seen, r.names[n])
}

func TestVisitOrders(t *testing.T) {
	plus, minus := leaf(false), leaf(true)
	root := bsp.NewInternal(oned.NewOrientedPoint(0, true).WholeHyperplane(), plus, minus, nil)
	names := map[*bsp.Node[float64]]string{root: "sub", plus: "plus", minus: "minus"}

	tests := []struct {
		order bsp.Order
		want  []string
	}{
		{bsp.PlusMinusSub, []string{"plus", "minus", "sub"}},
		{bsp.PlusSubMinus, []string{"plus", "sub", "minus"}},
		{bsp.MinusPlusSub, []string{"minus", "plus", "sub"}},
		{bsp.MinusSubPlus, []string{"minus", "sub", "plus"}},
		{bsp.SubPlusMinus, []string{"sub", "plus", "minus"}},
		{bsp.SubMinusPlus, []string{"sub", "minus", "plus"}},
	}
	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			r := &recorder{order: tt.order, names: names}
			root.Visit(r)
			assert.Equal(t, tt.want, r.seen)
		})
	}
}

func TestCopySelf(t *testing.T) {
	s := oned.NewIntervalsSet(0, 1)
	tree := s.Tree(false)
	cp := tree.CopySelf()

	assert.NotSame(t, tree, cp)
	assert.NotSame(t, tree.Minus(), cp.Minus())
	assert.Equal(t, tree.Depth(), cp.Depth())
	assert.Equal(t, tree.LeafCount(), cp.LeafCount())
	assert.Nil(t, cp.Parent())
	assert.Same(t, cp, cp.Minus().Parent())

	for _, x := range []float64{-1, 0, 0.5, 1, 2} {
		assert.Equal(t, tree.Classify(x, bsp.DefaultTolerance), cp.Classify(x, bsp.DefaultTolerance), "x=%v", x)
	}
}

func TestIsEmptyNode(t *testing.T) {
	assert.True(t, leaf(false).IsEmpty())
	assert.False(t, leaf(true).IsEmpty())

	root := bsp.NewInternal(oned.NewOrientedPoint(0, true).WholeHyperplane(), leaf(false), leaf(false), nil)
	assert.True(t, root.IsEmpty())
}
