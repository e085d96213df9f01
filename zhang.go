package treecluster

import (
	"fmt"
	"math"
	"slices"
)

// TreeDistance computes the dissimilarity between two lineage trees as
// Zhang's constrained edit distance between unordered labelled trees
// (K. Zhang, Algorithmica 15:205-222, 1996), scaled by norm.
//
// The edit operations are: change a cell's attributes (cost measure.Cost per
// component), insert or delete a cell (measure.MissingCost per component),
// and insert or delete a cell while keeping one or all of its subtrees.
// Children are unordered: they are matched by a minimum-cost assignment.
//
// The result is symmetric, zero for identical trees, and for two
// single-cell trees equal to the node cost (before normalization). An empty
// tree is allowed on either side; the distance is then the cost of deleting
// every cell of the other tree. Returns ErrIncomparableTrees if the trees'
// attribute vectors differ in length or contain NaN or Inf.
func TreeDistance(a, b *LineageTree, measure SimilarityMeasure, norm Normalization) (float64, error) {
	if !measure.valid() {
		return 0, fmt.Errorf("%w: similarity measure %v", ErrNoSuchOption, measure)
	}
	if !norm.valid() {
		return 0, fmt.Errorf("%w: normalization %v", ErrNoSuchOption, norm)
	}
	fa, err := flatten(a, measure)
	if err != nil {
		return 0, err
	}
	fb, err := flatten(b, measure)
	if err != nil {
		return 0, err
	}
	return treeDistance(fa, fb, measure, norm, newAssignment())
}

// flatTree stores a tree in post-order: children always precede their parent
// and the root is the last entry. All DP tables are indexed by these
// positions, so no per-node maps or pointers are needed.
type flatTree struct {
	attrs    [][]float64
	children [][]int
	// treeCost is the cost of deleting (or inserting) the subtree rooted at
	// a node; forestCost is the same without the node itself.
	treeCost   []float64
	forestCost []float64
	dims       int
}

func (f *flatTree) size() int { return len(f.attrs) }

func (f *flatTree) root() int { return len(f.attrs) - 1 }

// emptyCost is the distance between the tree and the empty tree.
func (f *flatTree) emptyCost() float64 {
	if f.size() == 0 {
		return 0
	}
	return f.treeCost[f.root()]
}

func flatten(t *LineageTree, measure SimilarityMeasure) (*flatTree, error) {
	f := &flatTree{dims: -1}
	if t.Empty() {
		return f, nil
	}
	var visit func(n *Node) (int, error)
	visit = func(n *Node) (int, error) {
		kids := make([]int, 0, len(n.Children))
		forest := 0.0
		for _, c := range n.Children {
			if c == nil {
				continue
			}
			ci, err := visit(c)
			if err != nil {
				return 0, err
			}
			kids = append(kids, ci)
			forest += f.treeCost[ci]
		}
		attrs := n.AttributeVector()
		if f.dims == -1 {
			f.dims = len(attrs)
		}
		if len(attrs) != f.dims || len(attrs) == 0 {
			return 0, fmt.Errorf("%w: tree %q: cell %q has %d attributes, expected %d",
				ErrIncomparableTrees, t.Name, n.Label, len(attrs), f.dims)
		}
		for _, v := range attrs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: tree %q: cell %q has non-finite attribute %v",
					ErrIncomparableTrees, t.Name, n.Label, v)
			}
		}
		f.attrs = append(f.attrs, attrs)
		f.children = append(f.children, kids)
		f.forestCost = append(f.forestCost, forest)
		f.treeCost = append(f.treeCost, forest+measure.missingNodeCost(attrs))
		return len(f.attrs) - 1, nil
	}
	if _, err := visit(t.Root); err != nil {
		return nil, err
	}
	return f, nil
}

// compareFlat orders flattened trees by size, then shape, then attributes.
// It returns 0 only for trees that flatten identically.
func compareFlat(a, b *flatTree) int {
	if c := a.size() - b.size(); c != 0 {
		return c
	}
	for i := range a.attrs {
		if c := slices.Compare(a.children[i], b.children[i]); c != 0 {
			return c
		}
		if c := slices.Compare(a.attrs[i], b.attrs[i]); c != 0 {
			return c
		}
	}
	return 0
}

// treeDistance evaluates the edit distance of two flattened trees. The pair
// is put in canonical order first so that argument order cannot change the
// floating-point result.
func treeDistance(a, b *flatTree, measure SimilarityMeasure, norm Normalization, asg *assignment) (float64, error) {
	if a.size() > 0 && b.size() > 0 && a.dims != b.dims {
		return 0, fmt.Errorf("%w: attribute vectors of length %d and %d", ErrIncomparableTrees, a.dims, b.dims)
	}
	if compareFlat(a, b) > 0 {
		a, b = b, a
	}

	var raw float64
	switch {
	case a.size() == 0:
		raw = b.emptyCost()
	case b.size() == 0:
		raw = a.emptyCost()
	default:
		raw = zhang(a, b, measure, asg)
	}

	var denominator float64
	switch norm {
	case NormalizedZhang:
		denominator = a.emptyCost() + b.emptyCost()
	case PerCellAverage:
		denominator = float64(a.size() + b.size())
	default:
		return raw, nil
	}
	// Two empty trees, or two trees that cost nothing to build, are equal.
	if denominator == 0 {
		return 0, nil
	}
	return raw / denominator, nil
}

// zhang fills the tree and forest distance tables bottom-up. For post-order
// positions i in a and j in b, every child of i precedes i and every child of
// j precedes j, so all referenced entries are already solved.
func zhang(a, b *flatTree, measure SimilarityMeasure, asg *assignment) float64 {
	na, nb := a.size(), b.size()
	tree := make([]float64, na*nb)
	forest := make([]float64, na*nb)

	for i := 0; i < na; i++ {
		ci := a.children[i]
		for j := 0; j < nb; j++ {
			cj := b.children[j]
			idx := i*nb + j
			change := measure.nodeCost(a.attrs[i], b.attrs[j])

			if len(ci) == 0 && len(cj) == 0 {
				tree[idx] = change
				continue
			}

			var f float64
			switch {
			case len(ci) == 0:
				f = b.forestCost[j]
			case len(cj) == 0:
				f = a.forestCost[i]
			default:
				f = math.Inf(1)
				// Insert j, keeping the forest of one of its children.
				for _, c := range cj {
					f = min(f, b.forestCost[j]-b.forestCost[c]+forest[i*nb+c])
				}
				// Delete i, keeping the forest of one of its children.
				for _, c := range ci {
					f = min(f, a.forestCost[i]-a.forestCost[c]+forest[c*nb+j])
				}
				f = min(f, matchChildren(a, b, ci, cj, tree, asg))
			}
			forest[idx] = f

			t := change + f
			// Insert j, keeping one of its subtrees mapped onto i.
			for _, c := range cj {
				t = min(t, b.treeCost[j]-b.treeCost[c]+tree[i*nb+c])
			}
			// Delete i, keeping one of its subtrees mapped onto j.
			for _, c := range ci {
				t = min(t, a.treeCost[i]-a.treeCost[c]+tree[c*nb+j])
			}
			tree[idx] = t
		}
	}
	return tree[na*nb-1]
}

// matchChildren returns the cheapest way to map the subtrees of ci onto the
// subtrees of cj: min(len(ci), len(cj)) pairs are matched and the remaining
// subtrees are deleted (from a) or inserted (from b) whole.
func matchChildren(a, b *flatTree, ci, cj []int, tree []float64, asg *assignment) float64 {
	nb := b.size()
	n, m := len(ci), len(cj)

	switch {
	case n == 1 && m == 1:
		return tree[ci[0]*nb+cj[0]]
	case n == 2 && m == 2:
		// Binary divisions: the parallel or the crossed pairing.
		parallel := tree[ci[0]*nb+cj[0]] + tree[ci[1]*nb+cj[1]]
		cross := tree[ci[0]*nb+cj[1]] + tree[ci[1]*nb+cj[0]]
		return min(parallel, cross)
	}

	k := max(n, m)
	cost := asg.reset(k)
	for r := 0; r < k; r++ {
		row := cost[r*k : (r+1)*k]
		for c := 0; c < k; c++ {
			switch {
			case r < n && c < m:
				row[c] = tree[ci[r]*nb+cj[c]]
			case r >= n:
				// Dummy row: subtree cj[c] is inserted.
				row[c] = b.treeCost[cj[c]]
			default:
				// Dummy column: subtree ci[r] is deleted.
				row[c] = a.treeCost[ci[r]]
			}
		}
	}
	return asg.solve()
}
