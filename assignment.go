package treecluster

import "math"

// assignment solves square linear assignment problems with the Hungarian
// algorithm (Kuhn-Munkres with row/column potentials), O(k³). Buffers are
// reused across calls; an assignment is not safe for concurrent use.
type assignment struct {
	k    int
	cost []float64 // k×k row-major

	u, v []float64
	p    []int // p[col] = row assigned to col, 1-based, 0 = none
	way  []int
	col  []int // col[row] = column assigned to row
	minv []float64
	used []bool
}

func newAssignment() *assignment { return &assignment{} }

// reset prepares the solver for a k×k problem and returns the cost matrix
// to fill in.
func (a *assignment) reset(k int) []float64 {
	a.k = k
	a.cost = grow(a.cost, k*k)
	a.u = grow(a.u, k+1)
	a.v = grow(a.v, k+1)
	a.minv = grow(a.minv, k+1)
	if cap(a.p) < k+1 {
		a.p = make([]int, k+1)
		a.way = make([]int, k+1)
		a.col = make([]int, k+1)
		a.used = make([]bool, k+1)
	}
	a.p = a.p[:k+1]
	a.way = a.way[:k+1]
	a.col = a.col[:k+1]
	a.used = a.used[:k+1]
	return a.cost
}

// solve returns the minimum total cost of assigning every row to a distinct
// column. The total is summed in row order, so equal inputs give bitwise
// equal results.
func (a *assignment) solve() float64 {
	k := a.k
	if k == 0 {
		return 0
	}
	for i := range a.u {
		a.u[i], a.v[i], a.p[i], a.way[i] = 0, 0, 0, 0
	}
	at := func(row, col int) float64 { return a.cost[(row-1)*k+col-1] }

	for i := 1; i <= k; i++ {
		a.p[0] = i
		j0 := 0
		for j := range a.minv {
			a.minv[j] = math.Inf(1)
			a.used[j] = false
		}
		for {
			a.used[j0] = true
			i0 := a.p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= k; j++ {
				if a.used[j] {
					continue
				}
				cur := at(i0, j) - a.u[i0] - a.v[j]
				if cur < a.minv[j] {
					a.minv[j] = cur
					a.way[j] = j0
				}
				if a.minv[j] < delta {
					delta = a.minv[j]
					j1 = j
				}
			}
			for j := 0; j <= k; j++ {
				if a.used[j] {
					a.u[a.p[j]] += delta
					a.v[j] -= delta
				} else {
					a.minv[j] -= delta
				}
			}
			j0 = j1
			if a.p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := a.way[j0]
			a.p[j0] = a.p[j1]
			j0 = j1
		}
	}

	for j := 1; j <= k; j++ {
		a.col[a.p[j]] = j
	}
	var total float64
	for i := 1; i <= k; i++ {
		total += at(i, a.col[i])
	}
	return total
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
