package treecluster

import "fmt"

// LinkageMethod selects how the distance between two clusters is derived
// from the distances of their members.
type LinkageMethod int

const (
	AverageLinkage  LinkageMethod = iota // UPGMA: mean of member distances
	SingleLinkage                        // minimum member distance
	CompleteLinkage                      // maximum member distance
	WeightedLinkage                      // WPGMA: mean of the two merged clusters' distances
	numLinkageMethods
)

var linkageNames = [numLinkageMethods]string{
	AverageLinkage:  "Average linkage",
	SingleLinkage:   "Single linkage",
	CompleteLinkage: "Complete linkage",
	WeightedLinkage: "Weighted linkage",
}

func (m LinkageMethod) String() string { return enumName(linkageNames[:], int(m)) }

func (m LinkageMethod) valid() bool { return m >= 0 && m < numLinkageMethods }

// ParseLinkageMethod resolves a linkage method by its display name,
// e.g. "Average linkage".
func ParseLinkageMethod(name string) (LinkageMethod, error) {
	i, err := parseEnum("linkage method", linkageNames[:], name)
	return LinkageMethod(i), err
}

// CropCriterion selects how trees are truncated before comparison.
type CropCriterion int

const (
	// CropTimepoint removes every cell born after the bound timepoint.
	CropTimepoint CropCriterion = iota
	// CropNumberOfCells keeps the bound earliest-born cells.
	CropNumberOfCells
	numCropCriteria
)

var cropNames = [numCropCriteria]string{
	CropTimepoint:     "Timepoint",
	CropNumberOfCells: "Number of cells",
}

func (c CropCriterion) String() string { return enumName(cropNames[:], int(c)) }

func (c CropCriterion) valid() bool { return c >= 0 && c < numCropCriteria }

// ParseCropCriterion resolves a crop criterion by its display name.
func ParseCropCriterion(name string) (CropCriterion, error) {
	i, err := parseEnum("crop criterion", cropNames[:], name)
	return CropCriterion(i), err
}

// SimilarityMeasure is the local cost between two attribute values.
type SimilarityMeasure int

const (
	// NormalizedDifference is |a-b| / (|a|+|b|), and 1 against a missing node.
	NormalizedDifference SimilarityMeasure = iota
	// AbsoluteDifference is |a-b|, and |a| against a missing node.
	AbsoluteDifference
	numSimilarityMeasures
)

var measureNames = [numSimilarityMeasures]string{
	NormalizedDifference: "Normalized difference",
	AbsoluteDifference:   "Absolute difference",
}

func (s SimilarityMeasure) String() string { return enumName(measureNames[:], int(s)) }

func (s SimilarityMeasure) valid() bool { return s >= 0 && s < numSimilarityMeasures }

// ParseSimilarityMeasure resolves a similarity measure by its display name.
func ParseSimilarityMeasure(name string) (SimilarityMeasure, error) {
	i, err := parseEnum("similarity measure", measureNames[:], name)
	return SimilarityMeasure(i), err
}

// Normalization scales the raw edit distance between two trees so that trees
// of different size remain comparable.
type Normalization int

const (
	// NormalizedZhang divides by the sum of both trees' distances to the
	// empty tree. Results lie in [0, 1].
	NormalizedZhang Normalization = iota
	// PerCellAverage divides by the total number of cells in both trees.
	PerCellAverage
	// AbsoluteZhang leaves the edit distance unscaled.
	AbsoluteZhang
	numNormalizations
)

var normalizationNames = [numNormalizations]string{
	NormalizedZhang: "Normalized Zhang tree distance",
	PerCellAverage:  "Per cell average",
	AbsoluteZhang:   "Zhang tree distance",
}

func (n Normalization) String() string { return enumName(normalizationNames[:], int(n)) }

func (n Normalization) valid() bool { return n >= 0 && n < numNormalizations }

// ParseNormalization resolves a normalization by its display name.
func ParseNormalization(name string) (Normalization, error) {
	i, err := parseEnum("normalization", normalizationNames[:], name)
	return Normalization(i), err
}

// LinkageMethodNames, CropCriterionNames, SimilarityMeasureNames and
// NormalizationNames list the accepted display names in declaration order.
func LinkageMethodNames() []string     { return append([]string(nil), linkageNames[:]...) }
func CropCriterionNames() []string     { return append([]string(nil), cropNames[:]...) }
func SimilarityMeasureNames() []string { return append([]string(nil), measureNames[:]...) }
func NormalizationNames() []string     { return append([]string(nil), normalizationNames[:]...) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func parseEnum(kind string, names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: unknown %s %q", ErrNoSuchOption, kind, name)
}
