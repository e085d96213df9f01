package treecluster

// update returns the distance between the cluster formed by merging p and q
// and another cluster k, from the Lance-Williams recurrence. dpk and dqk are
// the current distances of p and q to k; np and nq are the cluster sizes.
//
// For the averaging methods the result is clamped into [min(dpk,dqk),
// max(dpk,dqk)], where the exact weighted mean lies. Rounding could
// otherwise place it an ulp below the merge distance and break
// monotonicity of the dendrogram.
func (m LinkageMethod) update(dpk, dqk float64, np, nq int) float64 {
	switch m {
	case SingleLinkage:
		return min(dpk, dqk)
	case CompleteLinkage:
		return max(dpk, dqk)
	case WeightedLinkage:
		return clamp((dpk+dqk)/2, dpk, dqk)
	default:
		fp, fq := float64(np), float64(nq)
		return clamp((fp*dpk+fq*dqk)/(fp+fq), dpk, dqk)
	}
}

func clamp(v, a, b float64) float64 {
	lo, hi := min(a, b), max(a, b)
	return min(max(v, lo), hi)
}
