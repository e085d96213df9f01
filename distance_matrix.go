package treecluster

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DistanceMatrix is an immutable symmetric matrix of pairwise tree
// distances with a zero diagonal and finite, non-negative entries.
type DistanceMatrix struct {
	labels []string
	sym    *mat.SymDense
}

// NewDistanceMatrix wraps precomputed distances. distances is flat
// row-major n×n with n = len(labels). Returns ErrInvalidMatrix if the
// values are not a valid distance matrix and ErrDuplicateLabel if two
// labels are equal.
func NewDistanceMatrix(labels []string, distances []float64) (*DistanceMatrix, error) {
	n := len(labels)
	if n == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidMatrix)
	}
	if len(distances) != n*n {
		return nil, fmt.Errorf("%w: length %d does not match n*n = %d (n=%d)", ErrInvalidMatrix, len(distances), n*n, n)
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if d := distances[i*n+i]; d != 0 {
			return nil, fmt.Errorf("%w: diagonal entry [%d,%d] = %v", ErrInvalidMatrix, i, i, d)
		}
		for j := i + 1; j < n; j++ {
			d := distances[i*n+j]
			if d != distances[j*n+i] {
				return nil, fmt.Errorf("%w: [%d,%d] = %v but [%d,%d] = %v",
					ErrInvalidMatrix, i, j, d, j, i, distances[j*n+i])
			}
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return nil, fmt.Errorf("%w: entry [%d,%d] = %v", ErrInvalidMatrix, i, j, d)
			}
		}
	}
	data := make([]float64, n*n)
	copy(data, distances)
	return &DistanceMatrix{
		labels: append([]string(nil), labels...),
		sym:    mat.NewSymDense(n, data),
	}, nil
}

// N returns the number of trees.
func (m *DistanceMatrix) N() int { return len(m.labels) }

// Labels returns the tree labels in matrix order.
func (m *DistanceMatrix) Labels() []string { return append([]string(nil), m.labels...) }

// Label returns the label of tree i.
func (m *DistanceMatrix) Label(i int) string { return m.labels[i] }

// At returns the distance between trees i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.sym.At(i, j) }

// Symmetric returns a read-only gonum view of the matrix.
func (m *DistanceMatrix) Symmetric() mat.Symmetric { return m.sym }

// Dense returns a copy of the distances, flat row-major n×n.
func (m *DistanceMatrix) Dense() []float64 {
	n := m.N()
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = m.sym.At(i, j)
		}
	}
	return out
}

// UpperTriangle returns the entries above the diagonal, row by row.
func (m *DistanceMatrix) UpperTriangle() []float64 {
	n := m.N()
	out := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, m.sym.At(i, j))
		}
	}
	return out
}

// Max returns the largest distance, 0 for a 1×1 matrix.
func (m *DistanceMatrix) Max() float64 {
	upper := m.UpperTriangle()
	if len(upper) == 0 {
		return 0
	}
	return floats.Max(upper)
}

// Median returns the median of the off-diagonal distances, NaN for a 1×1
// matrix.
func (m *DistanceMatrix) Median() float64 {
	upper := m.UpperTriangle()
	if len(upper) == 0 {
		return math.NaN()
	}
	sort.Float64s(upper)
	if len(upper)%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, upper, nil)
	}
	// Mean of the two middle values for an even count.
	mid := len(upper) / 2
	return stat.Mean(upper[mid-1:mid+1], nil)
}

// AverageDistanceMatrix returns the element-wise mean of matrices computed
// for the same trees in several projects. All matrices must carry the same
// labels in the same order.
func AverageDistanceMatrix(matrices ...*DistanceMatrix) (*DistanceMatrix, error) {
	if len(matrices) == 0 {
		return nil, fmt.Errorf("%w: no matrices to average", ErrInsufficientInput)
	}
	first := matrices[0]
	n := first.N()
	sum := mat.NewSymDense(n, nil)
	for k, m := range matrices {
		if m.N() != n {
			return nil, fmt.Errorf("%w: matrix %d has %d trees, expected %d", ErrInvalidMatrix, k, m.N(), n)
		}
		for i, l := range m.labels {
			if l != first.labels[i] {
				return nil, fmt.Errorf("%w: matrix %d has label %q at %d, expected %q",
					ErrInvalidMatrix, k, l, i, first.labels[i])
			}
		}
		next := mat.NewSymDense(n, nil)
		next.AddSym(sum, m.sym)
		sum = next
	}
	avg := mat.NewSymDense(n, nil)
	avg.ScaleSym(1/float64(len(matrices)), sum)
	return &DistanceMatrix{labels: first.Labels(), sym: avg}, nil
}

func checkLabels(labels []string) error {
	seen := make(map[string]int, len(labels))
	for i, l := range labels {
		if j, ok := seen[l]; ok {
			return fmt.Errorf("%w: %q at %d and %d", ErrDuplicateLabel, l, j, i)
		}
		seen[l] = i
	}
	return nil
}
