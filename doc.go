// Package treecluster groups cell lineage trees by the similarity of their
// shape and timing.
//
// Each pair of trees is compared with Zhang's constrained edit distance for
// unordered trees, the resulting distance matrix is clustered
// agglomeratively, and the dendrogram is cut into groups at a cutoff.
//
// Basic usage:
//
//	cfg := treecluster.DefaultConfig()
//	cfg.CropCriterion = "Timepoint"
//	cfg.CropBound = 100
//	cfg.ClassCount = 3
//	result, err := treecluster.Classify(trees, cfg)
//	// result.Partition.ClusterOf("tree A") is the group of tree A
//	// result.Dendrogram.Root() is the merge hierarchy
//
// The stages are exported on their own:
//
//	cropped, err := treecluster.Crop(tree, treecluster.CropTimepoint, 100)
//	d, err := treecluster.TreeDistance(a, b, treecluster.NormalizedDifference, treecluster.NormalizedZhang)
//	m, err := treecluster.BuildDistanceMatrix(trees, treecluster.DistanceOptions{})
//	dendrogram, err := treecluster.Agglomerate(m, treecluster.AverageLinkage)
//	partition, err := treecluster.Extract(dendrogram.Root(), cutoff)
//
// # Tree distance
//
// Every cell carries an attribute vector, by default its branch duration.
// Changing a cell costs the local cost of the similarity measure; inserting
// or deleting a cell costs its cost against a missing cell. The raw edit
// distance is then scaled by the selected Normalization:
//
//	treecluster.NormalizedZhang  // divided by both trees' distance to the empty tree, in [0, 1]
//	treecluster.PerCellAverage   // divided by the number of cells of both trees
//	treecluster.AbsoluteZhang    // unscaled
//
// # Determinism
//
// Distance matrices are bitwise identical for any number of workers, and
// agglomeration breaks ties between equally close pairs by the smallest
// cluster ids, so the same input always gives the same dendrogram.
package treecluster
