package treecluster

// Node is one cell of a lineage tree: the branch from the cell's birth
// (Start) to its division or the end of tracking (End).
type Node struct {
	// Label identifies the cell, e.g. its first spot label.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Start and End are the first and last timepoints of the branch.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Attributes is the numeric attribute vector compared by the similarity
	// measure. When nil, the vector is [End-Start+1] (the branch duration).
	Attributes []float64 `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// Children are the daughter cells, in order.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// AttributeVector returns the attribute vector used for comparisons.
// The returned slice must not be modified.
func (n *Node) AttributeVector() []float64 {
	if n.Attributes != nil {
		return n.Attributes
	}
	return []float64{float64(n.End - n.Start + 1)}
}

// IsLeaf reports whether n has no children. Nil entries in Children are
// ignored here and everywhere else in the package.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Children {
		if c != nil {
			return false
		}
	}
	return true
}

// LineageTree is a rooted tree of cells. A nil Root is the empty tree.
// The package never modifies a LineageTree it is given.
type LineageTree struct {
	Name string `json:"name" yaml:"name"`
	Root *Node  `json:"root" yaml:"root"`
}

// Size returns the number of nodes in the tree.
func (t *LineageTree) Size() int {
	if t == nil {
		return 0
	}
	size := 0
	t.Walk(func(*Node, int) bool {
		size++
		return true
	})
	return size
}

// Empty reports whether the tree has no nodes.
func (t *LineageTree) Empty() bool { return t == nil || t.Root == nil }

// Walk visits the nodes in pre-order, passing each node's depth (root = 0).
// Returning false from fn skips the node's descendants.
func (t *LineageTree) Walk(fn func(n *Node, depth int) bool) {
	if t.Empty() {
		return
	}
	type frame struct {
		node  *Node
		depth int
	}
	stack := []frame{{t.Root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(f.node, f.depth) {
			continue
		}
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			if c := f.node.Children[i]; c != nil {
				stack = append(stack, frame{c, f.depth + 1})
			}
		}
	}
}

// Clone returns a deep copy of the tree.
func (t *LineageTree) Clone() *LineageTree {
	if t == nil {
		return nil
	}
	return &LineageTree{Name: t.Name, Root: cloneNode(t.Root)}
}

func cloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{Label: n.Label, Start: n.Start, End: n.End}
	if n.Attributes != nil {
		c.Attributes = append([]float64(nil), n.Attributes...)
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = cloneNode(child)
		}
	}
	return c
}
