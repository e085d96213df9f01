package treecluster

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DistanceOptions controls BuildDistanceMatrix.
type DistanceOptions struct {
	// Measure is the local attribute cost. Default: NormalizedDifference.
	Measure SimilarityMeasure

	// Normalization scales each tree distance. Default: NormalizedZhang.
	Normalization Normalization

	// Workers is the number of goroutines computing distances. 0 means
	// runtime.NumCPU(); 1 computes sequentially.
	Workers int

	// Logger receives progress messages at debug level. nil discards them.
	Logger *slog.Logger
}

// BuildDistanceMatrix computes the symmetric matrix of TreeDistance values
// for every unordered pair of trees. The diagonal is zero without invoking
// TreeDistance.
//
// Rows are distributed across Workers goroutines. Every cell is computed
// independently and written exactly once, so the result is bitwise
// identical for any number of workers. Either the full matrix or an error
// is returned: ErrInsufficientInput for fewer than two trees,
// ErrIncomparableTrees for an empty tree or mismatched attributes, and
// ErrDuplicateLabel for two trees with the same name.
func BuildDistanceMatrix(trees []*LineageTree, opts DistanceOptions) (*DistanceMatrix, error) {
	n := len(trees)
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientInput, n)
	}
	if !opts.Measure.valid() {
		return nil, fmt.Errorf("%w: similarity measure %v", ErrNoSuchOption, opts.Measure)
	}
	if !opts.Normalization.valid() {
		return nil, fmt.Errorf("%w: normalization %v", ErrNoSuchOption, opts.Normalization)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	labels := make([]string, n)
	flat := make([]*flatTree, n)
	for i, t := range trees {
		if t.Empty() {
			return nil, fmt.Errorf("%w: tree %d (%q) is empty", ErrIncomparableTrees, i, treeName(t))
		}
		labels[i] = t.Name
		f, err := flatten(t, opts.Measure)
		if err != nil {
			return nil, err
		}
		if i > 0 && f.dims != flat[0].dims {
			return nil, fmt.Errorf("%w: tree %q has %d attributes per cell, tree %q has %d",
				ErrIncomparableTrees, t.Name, f.dims, labels[0], flat[0].dims)
		}
		flat[i] = f
	}
	if err := checkLabels(labels); err != nil {
		return nil, err
	}

	data := make([]float64, n*n)
	total := int64(n * (n - 1) / 2)
	progress := newProgress(logger, total)

	row := func(i int, asg *assignment) error {
		for j := i + 1; j < n; j++ {
			d, err := treeDistance(flat[i], flat[j], opts.Measure, opts.Normalization, asg)
			if err != nil {
				return fmt.Errorf("trees %q and %q: %w", labels[i], labels[j], err)
			}
			data[i*n+j] = d
			data[j*n+i] = d
			progress.add(1)
		}
		return nil
	}

	if workers == 1 {
		asg := newAssignment()
		for i := 0; i < n; i++ {
			if err := row(i, asg); err != nil {
				return nil, err
			}
		}
	} else {
		// Row i holds n-1-i pairs, so rows are dealt out round-robin rather
		// than in contiguous blocks to even out the load.
		var g errgroup.Group
		for w := 0; w < min(workers, n); w++ {
			g.Go(func() error {
				asg := newAssignment()
				for i := w; i < n; i += workers {
					if err := row(i, asg); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return &DistanceMatrix{labels: labels, sym: mat.NewSymDense(n, data)}, nil
}

// progress logs how many distances have been computed, once per power of
// ten below the total.
type progress struct {
	logger *slog.Logger
	total  int64
	rate   int64
	done   atomic.Int64
}

func newProgress(logger *slog.Logger, total int64) *progress {
	rate := int64(1)
	if total > 0 {
		rate = int64(math.Pow(10, math.Floor(math.Log10(float64(total)))))
	}
	return &progress{logger: logger, total: total, rate: rate}
}

func (p *progress) add(k int64) {
	done := p.done.Add(k)
	if done%p.rate == 0 {
		p.logger.Debug("computed distances",
			"done", done, "total", p.total, "percent", done*100/p.total)
	}
}
