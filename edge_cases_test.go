package treecluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeCase_SingleTree(t *testing.T) {
	res, err := Classify([]*LineageTree{lineage("only", cell(3, cell(1), cell(1)))}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"only"}, res.Labels)
	assert.True(t, res.Dendrogram.Root().IsLeaf())
	assert.Equal(t, 1, res.Partition.NumClusters())
	assert.Equal(t, 0.0, res.MaxDistance)
	assert.True(t, math.IsNaN(res.Median))
}

func TestEdgeCase_SingleTreeWithClassCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClassCount = 1
	res, err := Classify([]*LineageTree{lineage("only", cell(3))}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Partition.NumClusters())

	cfg.ClassCount = 2
	_, err = Classify([]*LineageTree{lineage("only", cell(3))}, cfg)
	assert.ErrorIs(t, err, ErrInvalidClassCount)
}

func TestEdgeCase_NoTrees(t *testing.T) {
	_, err := Classify(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = ClassifyProjects(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInsufficientInput)
}

func TestEdgeCase_EveryTreeFiltered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinCellDivisions = 5
	_, err := Classify(threeCells(), cfg)
	assert.ErrorIs(t, err, ErrInsufficientInput)
}

func TestEdgeCase_DuplicateNames(t *testing.T) {
	trees := []*LineageTree{lineage("A", cell(1)), lineage("A", cell(2))}
	_, err := Classify(trees, DefaultConfig())
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestEdgeCase_EmptyTreeIsExcluded(t *testing.T) {
	trees := []*LineageTree{lineage("A", cell(1)), lineage("empty", nil), lineage("B", cell(2))}
	res, err := Classify(trees, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Labels)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, Exclusion{Name: "empty", Reason: "empty tree"}, res.Excluded[0])
}

func TestEdgeCase_IdenticalTrees(t *testing.T) {
	trees := []*LineageTree{
		lineage("A", cell(2, cell(3), cell(3))),
		lineage("B", cell(2, cell(3), cell(3))),
		lineage("C", cell(2, cell(3), cell(3))),
	}
	cfg := DefaultConfig()
	cfg.Cutoff = 0.1
	res, err := Classify(trees, cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.MaxDistance)
	assert.Equal(t, 1, res.Partition.NumClusters())
	for _, d := range res.Matrix.UpperTriangle() {
		assert.Equal(t, 0.0, d)
	}
}

func TestEdgeCase_ZeroAttributes(t *testing.T) {
	// Zero-valued attributes cost nothing under the normalized measure with
	// absolute normalization; the normalized distance must stay finite.
	trees := []*LineageTree{
		lineage("A", cell(0)),
		lineage("B", cell(0)),
	}
	cfg := DefaultConfig()
	cfg.SimilarityMeasure = "Absolute difference"
	res, err := Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Matrix.At(0, 1))
}
