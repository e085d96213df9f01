package treecluster

import "math"

// Cost returns the local cost of changing attribute value a into b.
// It is non-negative, symmetric and zero when a == b.
func (s SimilarityMeasure) Cost(a, b float64) float64 {
	switch s {
	case AbsoluteDifference:
		return math.Abs(a - b)
	default:
		if a == b {
			// Avoids 0/0 for two zero values.
			return 0
		}
		return math.Abs(a-b) / (math.Abs(a) + math.Abs(b))
	}
}

// MissingCost returns the cost of inserting or deleting a node whose
// attribute value is a.
func (s SimilarityMeasure) MissingCost(a float64) float64 {
	switch s {
	case AbsoluteDifference:
		return math.Abs(a)
	default:
		return 1
	}
}

// nodeCost sums the local cost over the components of two attribute vectors
// of equal length.
func (s SimilarityMeasure) nodeCost(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += s.Cost(a[i], b[i])
	}
	return sum
}

// missingNodeCost sums the insert/delete cost over an attribute vector.
func (s SimilarityMeasure) missingNodeCost(a []float64) float64 {
	var sum float64
	for _, v := range a {
		sum += s.MissingCost(v)
	}
	return sum
}
