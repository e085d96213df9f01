package treecluster

import (
	"fmt"
	"strings"
)

// ClusterNode is a node of a dendrogram. Leaves stand for one input tree;
// internal nodes join exactly two children at a merge distance that is at
// least the merge distance of either child. ClusterNodes are immutable and
// safe for concurrent reads.
type ClusterNode struct {
	id          int
	label       string
	distance    float64
	size        int
	left, right *ClusterNode
}

// ID returns the node's cluster id: the input index for leaves, n, n+1, ...
// in merge order for internal nodes.
func (c *ClusterNode) ID() int { return c.id }

// Label returns the tree label of a leaf, "" for internal nodes.
func (c *ClusterNode) Label() string { return c.label }

// Distance returns the merge distance, 0 for leaves.
func (c *ClusterNode) Distance() float64 { return c.distance }

// Size returns the number of leaves below the node.
func (c *ClusterNode) Size() int { return c.size }

// IsLeaf reports whether the node is a leaf.
func (c *ClusterNode) IsLeaf() bool { return c.left == nil }

// Children returns the two children of an internal node, nil for leaves.
func (c *ClusterNode) Children() (left, right *ClusterNode) { return c.left, c.right }

// Leaves returns the labels below the node, left to right.
func (c *ClusterNode) Leaves() []string {
	out := make([]string, 0, c.size)
	c.walkLeaves(func(l *ClusterNode) { out = append(out, l.label) })
	return out
}

func (c *ClusterNode) walkLeaves(fn func(*ClusterNode)) {
	stack := []*ClusterNode{c}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			fn(n)
			continue
		}
		stack = append(stack, n.right, n.left)
	}
}

// String renders the subtree in Newick-like form, e.g. "((A,B):1,C):3".
func (c *ClusterNode) String() string {
	var b strings.Builder
	c.format(&b)
	return b.String()
}

func (c *ClusterNode) format(b *strings.Builder) {
	if c.IsLeaf() {
		b.WriteString(c.label)
		return
	}
	b.WriteByte('(')
	c.left.format(b)
	b.WriteByte(',')
	c.right.format(b)
	fmt.Fprintf(b, "):%g", c.distance)
}

// Dendrogram is the immutable result of agglomerative clustering.
type Dendrogram struct {
	root    *ClusterNode
	labels  []string
	linkage LinkageMethod
	rows    [][4]float64
}

// Root returns the root cluster.
func (d *Dendrogram) Root() *ClusterNode { return d.root }

// Labels returns the leaf labels in input order.
func (d *Dendrogram) Labels() []string { return append([]string(nil), d.labels...) }

// N returns the number of leaves.
func (d *Dendrogram) N() int { return len(d.labels) }

// Linkage returns the linkage method the dendrogram was built with.
func (d *Dendrogram) Linkage() LinkageMethod { return d.linkage }

// MaxDistance returns the root's merge distance, 0 for a single leaf.
func (d *Dendrogram) MaxDistance() float64 { return d.root.distance }

// LinkageMatrix returns the merges in scipy linkage format: one row per
// merge, [left, right, distance, size], where ids below n are leaves and
// id n+i is the cluster created by row i.
func (d *Dendrogram) LinkageMatrix() [][4]float64 {
	return append([][4]float64(nil), d.rows...)
}

// MergeDistances returns the merge distances in merge order.
func (d *Dendrogram) MergeDistances() []float64 {
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[2]
	}
	return out
}

// Partition cuts the dendrogram at cutoff. See Extract.
func (d *Dendrogram) Partition(cutoff float64) (*Partition, error) {
	return Extract(d.root, cutoff)
}

// Agglomerate builds a dendrogram over the trees of m by greedy
// agglomerative clustering: the two closest clusters are merged until one
// remains, and distances to the merged cluster follow method.
//
// When several pairs share the minimum distance, the pair with the
// lexicographically smallest (smaller id, larger id) is merged, so results
// are reproducible across runs and platforms. A 1×1 matrix yields a
// dendrogram that is a single leaf. Returns ErrNonMonotonic if a merge
// distance falls below a child's.
func Agglomerate(m *DistanceMatrix, method LinkageMethod) (*Dendrogram, error) {
	if m == nil || m.N() == 0 {
		return nil, fmt.Errorf("%w: empty distance matrix", ErrInsufficientInput)
	}
	if !method.valid() {
		return nil, fmt.Errorf("%w: linkage method %v", ErrNoSuchOption, method)
	}

	n := m.N()
	labels := m.Labels()

	// dist is indexed by slot; slot s holds nodes[s]. A merged cluster takes
	// over the slot of one of its children. active lists the live slots and
	// shrinks by swapping the removed entry to its end.
	dist := m.Dense()
	nodes := make([]*ClusterNode, n)
	active := make([]int, n)
	for i := range nodes {
		nodes[i] = &ClusterNode{id: i, label: labels[i], size: 1}
		active[i] = i
	}

	rows := make([][4]float64, 0, n-1)
	for count := n; count > 1; count-- {
		pa, qa := closestPair(dist, n, nodes, active[:count])
		p, q := active[pa], active[qa]
		dpq := dist[p*n+q]

		left, right := nodes[p], nodes[q]
		if right.id < left.id {
			left, right = right, left
		}
		if dpq < left.distance || dpq < right.distance {
			return nil, fmt.Errorf("%w: merging %d and %d at %v, children at %v and %v",
				ErrNonMonotonic, left.id, right.id, dpq, left.distance, right.distance)
		}
		merged := &ClusterNode{
			id:       n + len(rows),
			distance: dpq,
			size:     left.size + right.size,
			left:     left,
			right:    right,
		}
		rows = append(rows, [4]float64{float64(left.id), float64(right.id), dpq, float64(merged.size)})

		for _, k := range active[:count] {
			if k == p || k == q {
				continue
			}
			d := method.update(dist[p*n+k], dist[q*n+k], nodes[p].size, nodes[q].size)
			dist[p*n+k] = d
			dist[k*n+p] = d
		}
		nodes[p] = merged
		nodes[q] = nil
		active[qa], active[count-1] = active[count-1], active[qa]
	}

	return &Dendrogram{
		root:    nodes[active[0]],
		labels:  labels,
		linkage: method,
		rows:    rows,
	}, nil
}

// closestPair returns the positions in active of the two clusters with the
// smallest distance, ties broken by the smallest (min id, max id).
func closestPair(dist []float64, n int, nodes []*ClusterNode, active []int) (int, int) {
	bestA, bestB := -1, -1
	var best float64
	var bestLo, bestHi int
	for a := 0; a < len(active); a++ {
		p := active[a]
		for b := a + 1; b < len(active); b++ {
			q := active[b]
			d := dist[p*n+q]
			lo, hi := nodes[p].id, nodes[q].id
			if lo > hi {
				lo, hi = hi, lo
			}
			if bestA < 0 || d < best || (d == best && (lo < bestLo || (lo == bestLo && hi < bestHi))) {
				bestA, bestB = a, b
				best, bestLo, bestHi = d, lo, hi
			}
		}
	}
	return bestA, bestB
}
