package treecluster

import (
	"container/heap"
	"fmt"
)

// Crop returns a truncated copy of tree.
//
// For CropTimepoint, a cell is kept if it starts at or before bound and its
// parent is kept; the End of every kept cell is clipped to bound, so derived
// branch durations only count timepoints up to bound.
//
// For CropNumberOfCells, the bound earliest-born cells are kept. Cells are
// taken in order of (Start, breadth-first position) and only once their
// parent has been taken, so the result is deterministic and every kept cell
// keeps its full ancestry.
//
// Cropping an already cropped tree with the same bound returns an equal tree.
// Returns ErrInvalidCriterion for a negative bound or unknown criterion and
// ErrEmptyResult if the root would be removed.
func Crop(tree *LineageTree, criterion CropCriterion, bound int) (*LineageTree, error) {
	if !criterion.valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCriterion, criterion)
	}
	if bound < 0 {
		return nil, fmt.Errorf("%w: %v bound must be >= 0, got %d", ErrInvalidCriterion, criterion, bound)
	}
	if tree.Empty() {
		return nil, fmt.Errorf("%w: tree %q has no root", ErrEmptyResult, treeName(tree))
	}

	var root *Node
	switch criterion {
	case CropTimepoint:
		root = cropByTimepoint(tree.Root, bound)
	case CropNumberOfCells:
		root = cropByCellCount(tree.Root, bound)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: tree %q cropped by %v at %d", ErrEmptyResult, tree.Name, criterion, bound)
	}
	return &LineageTree{Name: tree.Name, Root: root}, nil
}

func cropByTimepoint(n *Node, bound int) *Node {
	if n.Start > bound {
		return nil
	}
	c := &Node{Label: n.Label, Start: n.Start, End: min(n.End, bound)}
	if n.Attributes != nil {
		c.Attributes = append([]float64(nil), n.Attributes...)
	}
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if kept := cropByTimepoint(child, bound); kept != nil {
			c.Children = append(c.Children, kept)
		}
	}
	return c
}

func cropByCellCount(root *Node, bound int) *Node {
	if bound == 0 {
		return nil
	}

	copies := make(map[*Node]*Node, bound)
	copyOf := func(n *Node) *Node {
		c := &Node{Label: n.Label, Start: n.Start, End: n.End}
		if n.Attributes != nil {
			c.Attributes = append([]float64(nil), n.Attributes...)
		}
		copies[n] = c
		return c
	}

	// seq is the breadth-first discovery order and breaks ties in Start.
	seq := 0
	frontier := &birthQueue{}
	heap.Push(frontier, birth{node: root, seq: seq})
	kept := 0
	for frontier.Len() > 0 && kept < bound {
		b := heap.Pop(frontier).(birth)
		c := copyOf(b.node)
		if b.parent != nil {
			p := copies[b.parent]
			p.Children = append(p.Children, c)
		}
		kept++
		for _, child := range b.node.Children {
			if child == nil {
				continue
			}
			seq++
			heap.Push(frontier, birth{node: child, parent: b.node, seq: seq})
		}
	}

	// Children were appended in birth order; restore the input order.
	restoreChildOrder(root, copies)
	return copies[root]
}

func restoreChildOrder(n *Node, copies map[*Node]*Node) {
	c, ok := copies[n]
	if !ok || len(c.Children) == 0 {
		return
	}
	ordered := c.Children[:0:0]
	for _, child := range n.Children {
		if cc, ok := copies[child]; ok {
			ordered = append(ordered, cc)
			restoreChildOrder(child, copies)
		}
	}
	c.Children = ordered
}

type birth struct {
	node   *Node
	parent *Node
	seq    int
}

// birthQueue is a min-heap on (Start, seq).
type birthQueue []birth

func (q birthQueue) Len() int { return len(q) }
func (q birthQueue) Less(i, j int) bool {
	if q[i].node.Start != q[j].node.Start {
		return q[i].node.Start < q[j].node.Start
	}
	return q[i].seq < q[j].seq
}
func (q birthQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *birthQueue) Push(x any)   { *q = append(*q, x.(birth)) }
func (q *birthQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func treeName(t *LineageTree) string {
	if t == nil {
		return ""
	}
	return t.Name
}
