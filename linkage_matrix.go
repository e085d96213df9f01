package treecluster

import (
	"fmt"
	"math"
)

// FromLinkageMatrix rebuilds a dendrogram from rows in scipy linkage format,
// as returned by Dendrogram.LinkageMatrix: row i merges clusters left and
// right into cluster n+i at the given distance, and ids below n are the
// leaves labels[0..n-1].
//
// Every cluster must be merged exactly once, sizes must add up and merge
// distances must not decrease towards the root. Returns ErrInvalidMatrix
// otherwise.
func FromLinkageMatrix(labels []string, rows [][4]float64, method LinkageMethod) (*Dendrogram, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInsufficientInput)
	}
	if !method.valid() {
		return nil, fmt.Errorf("%w: linkage method %v", ErrNoSuchOption, method)
	}
	if len(rows) != n-1 {
		return nil, fmt.Errorf("%w: %d linkage rows for %d leaves, expected %d", ErrInvalidMatrix, len(rows), n, n-1)
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}

	// nodes[id] is the cluster with that id until it is merged, then nil.
	nodes := make([]*ClusterNode, n, 2*n-1)
	for i, l := range labels {
		nodes[i] = &ClusterNode{id: i, label: l, size: 1}
	}
	take := func(row int, v float64) (*ClusterNode, error) {
		id := int(v)
		if float64(id) != v || id < 0 || id >= len(nodes) {
			return nil, fmt.Errorf("%w: row %d references cluster %v, valid ids are 0..%d",
				ErrInvalidMatrix, row, v, len(nodes)-1)
		}
		c := nodes[id]
		if c == nil {
			return nil, fmt.Errorf("%w: row %d merges cluster %d a second time", ErrInvalidMatrix, row, id)
		}
		nodes[id] = nil
		return c, nil
	}

	for i, r := range rows {
		left, err := take(i, r[0])
		if err != nil {
			return nil, err
		}
		right, err := take(i, r[1])
		if err != nil {
			return nil, err
		}
		d := r[2]
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, fmt.Errorf("%w: row %d has merge distance %v", ErrInvalidMatrix, i, d)
		}
		if d < left.distance || d < right.distance {
			return nil, fmt.Errorf("%w: row %d merges at %v, children at %v and %v",
				ErrNonMonotonic, i, d, left.distance, right.distance)
		}
		size := left.size + right.size
		if r[3] != float64(size) {
			return nil, fmt.Errorf("%w: row %d has size %v, children add up to %d", ErrInvalidMatrix, i, r[3], size)
		}
		nodes = append(nodes, &ClusterNode{
			id:       n + i,
			distance: d,
			size:     size,
			left:     left,
			right:    right,
		})
	}

	return &Dendrogram{
		root:    nodes[len(nodes)-1],
		labels:  append([]string(nil), labels...),
		linkage: method,
		rows:    append([][4]float64(nil), rows...),
	}, nil
}
