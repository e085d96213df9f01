package treecluster

import (
	"cmp"
	"fmt"
	"math"
	"slices"
)

// Partition is a flat clustering of the leaves of a dendrogram. Cluster ids
// run from 0 to NumClusters()-1 and are only meaningful within one
// Partition: the same group may get another id at another cutoff.
type Partition struct {
	labels     []string
	assignment []int
	clusters   []*ClusterNode
}

// NumClusters returns the number of clusters.
func (p *Partition) NumClusters() int { return len(p.clusters) }

// Labels returns the partitioned labels, ordered by cluster id and, within
// a cluster, left to right in the dendrogram.
func (p *Partition) Labels() []string { return append([]string(nil), p.labels...) }

// Assignments returns the cluster id of every label returned by Labels.
func (p *Partition) Assignments() []int { return append([]int(nil), p.assignment...) }

// ClusterOf returns the cluster id of label.
func (p *Partition) ClusterOf(label string) (int, bool) {
	i := slices.Index(p.labels, label)
	if i < 0 {
		return -1, false
	}
	return p.assignment[i], true
}

// Map returns label → cluster id.
func (p *Partition) Map() map[string]int {
	out := make(map[string]int, len(p.labels))
	for i, l := range p.labels {
		out[l] = p.assignment[i]
	}
	return out
}

// Cluster returns the dendrogram node that forms cluster id.
func (p *Partition) Cluster(id int) *ClusterNode { return p.clusters[id] }

// Members returns the labels in cluster id.
func (p *Partition) Members(id int) []string { return p.clusters[id].Leaves() }

// Extract cuts the hierarchy below root at cutoff. Walking down from the
// root, a node whose merge distance is strictly greater than cutoff is split
// into its children; any other node becomes one cluster with all its leaves.
//
// A cutoff of 0 disables cutting and returns a single cluster holding every
// leaf. A cutoff at or above the root's merge distance gives the same
// result. Raising the cutoff never increases the number of clusters.
// Returns ErrInvalidCutoff for a negative or NaN cutoff.
//
// Extract only reads the hierarchy and may be called concurrently.
func Extract(root *ClusterNode, cutoff float64) (*Partition, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil dendrogram", ErrInsufficientInput)
	}
	if cutoff < 0 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCutoff, cutoff)
	}

	p := &Partition{
		labels:     make([]string, 0, root.size),
		assignment: make([]int, 0, root.size),
	}
	if cutoff == 0 {
		p.add(root)
		return p, nil
	}

	stack := []*ClusterNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.IsLeaf() && n.distance > cutoff {
			stack = append(stack, n.right, n.left)
			continue
		}
		p.add(n)
	}
	return p, nil
}

func (p *Partition) add(c *ClusterNode) {
	id := len(p.clusters)
	p.clusters = append(p.clusters, c)
	c.walkLeaves(func(l *ClusterNode) {
		p.labels = append(p.labels, l.label)
		p.assignment = append(p.assignment, id)
	})
}

// CutoffForClassCount returns a cutoff that splits d into classCount
// clusters: the mean of the (classCount-1)-th and classCount-th largest
// merge distances, where leaves count as merges at distance 0. Tied merge
// distances can make Extract return fewer clusters than requested.
//
// For classCount > 1 the result is always positive, since a cutoff of 0
// means no cut. When both merge distances are 0 it is the smallest positive
// float64, which splits every merge above distance 0.
// Returns ErrInvalidClassCount unless 1 <= classCount <= d.N().
func CutoffForClassCount(d *Dendrogram, classCount int) (float64, error) {
	n := d.N()
	if classCount < 1 || classCount > n {
		return 0, fmt.Errorf("%w: %d classes for %d trees", ErrInvalidClassCount, classCount, n)
	}
	if classCount == 1 {
		return d.MaxDistance(), nil
	}
	merges := d.MergeDistances()
	slices.SortFunc(merges, func(a, b float64) int { return cmp.Compare(b, a) })

	upper := merges[classCount-2]
	lower := 0.0
	if classCount-1 < len(merges) {
		lower = merges[classCount-1]
	}
	cutoff := (upper + lower) / 2
	if cutoff == 0 {
		cutoff = math.Nextafter(0, 1)
	}
	return cutoff, nil
}
