package treecluster

import "errors"

// Errors returned by the package. They are always wrapped with context, so
// compare with errors.Is.
var (
	// ErrInvalidCriterion is returned when a crop bound is outside the valid
	// range of its criterion, or the criterion itself is unknown.
	ErrInvalidCriterion = errors.New("treecluster: invalid crop criterion")

	// ErrEmptyResult is returned when cropping removes the root of a tree.
	ErrEmptyResult = errors.New("treecluster: crop removed the entire tree")

	// ErrInsufficientInput is returned when fewer than two trees are given to
	// a distance matrix build.
	ErrInsufficientInput = errors.New("treecluster: at least two trees are required")

	// ErrNoSuchOption is returned when a named option cannot be resolved.
	ErrNoSuchOption = errors.New("treecluster: no such option")

	// ErrIncomparableTrees is returned when two trees cannot be compared with
	// the selected measure (empty tree, mismatched or non-finite attributes).
	ErrIncomparableTrees = errors.New("treecluster: incomparable trees")

	// ErrInvalidMatrix is returned for a distance matrix that is not square,
	// symmetric, zero on the diagonal, finite and non-negative.
	ErrInvalidMatrix = errors.New("treecluster: invalid distance matrix")

	// ErrNonMonotonic signals a merge distance smaller than one of its
	// children's. It indicates a defect in a linkage update.
	ErrNonMonotonic = errors.New("treecluster: non-monotonic merge distance")

	// ErrInvalidCutoff is returned for negative or NaN cutoffs.
	ErrInvalidCutoff = errors.New("treecluster: invalid cutoff")

	// ErrInvalidClassCount is returned when a requested class count is not
	// in [1, number of trees].
	ErrInvalidClassCount = errors.New("treecluster: invalid class count")

	// ErrDuplicateLabel is returned when two trees share a name.
	ErrDuplicateLabel = errors.New("treecluster: duplicate tree label")
)
