package treecluster

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeCells has one division-free tree far from two similar ones.
// Normalized distances: d(A,B) = 1/42, d(A,C) = 1/4, d(B,C) = 19/82.
func threeCells() []*LineageTree {
	return []*LineageTree{
		lineage("A", cell(10)),
		lineage("B", cell(11)),
		lineage("C", cell(30)),
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Average linkage", cfg.Linkage)
	assert.Equal(t, "Normalized difference", cfg.SimilarityMeasure)
	assert.Equal(t, "Normalized Zhang tree distance", cfg.Normalization)
	assert.Empty(t, cfg.CropCriterion)
	assert.Zero(t, cfg.Cutoff)
	assert.Zero(t, cfg.Workers)
}

func TestClassify_ClassCount(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClassCount = 2
	res, err := Classify(threeCells(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, res.Labels)
	require.Equal(t, 2, res.Partition.NumClusters())
	assert.Equal(t, []string{"C"}, res.Partition.Members(0))
	assert.Equal(t, []string{"A", "B"}, res.Partition.Members(1))

	root := (0.25 + 19.0/82) / 2
	assert.InDelta(t, root, res.MaxDistance, floatTol)
	assert.InDelta(t, (root+1.0/42)/2, res.Cutoff, floatTol)
	assert.InDelta(t, 19.0/82, res.Median, floatTol)
	assert.InDelta(t, 1.0/42, res.Matrix.At(0, 1), floatTol)
	assert.Empty(t, res.Excluded)
}

func TestClassify_Cutoff(t *testing.T) {
	cfg := DefaultConfig()

	res, err := Classify(threeCells(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Partition.NumClusters(), "cutoff 0 is one group")

	cfg.Cutoff = 0.01
	res, err = Classify(threeCells(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Partition.NumClusters())
	assert.Equal(t, 0.01, res.Cutoff)
}

func TestClassify_WorkersDoNotChangeResult(t *testing.T) {
	trees := randomForest(21, 15, 4)
	cfg := DefaultConfig()
	cfg.ClassCount = 4

	cfg.Workers = 1
	want, err := Classify(trees, cfg)
	require.NoError(t, err)
	for _, workers := range []int{2, 5, 16} {
		cfg.Workers = workers
		got, err := Classify(trees, cfg)
		require.NoError(t, err)
		assert.Equal(t, want.Dendrogram.LinkageMatrix(), got.Dendrogram.LinkageMatrix())
		assert.Equal(t, want.Partition.Map(), got.Partition.Map())
	}
}

func TestClassify_CropsTrees(t *testing.T) {
	// Identical up to timepoint 20; b divides again later.
	a := lineage("a", branch(0, 10, branch(11, 30), branch(11, 30)))
	b := lineage("b", branch(0, 10, branch(11, 30, branch(31, 40), branch(31, 40)), branch(11, 30)))

	cfg := DefaultConfig()
	cfg.CropCriterion = "Timepoint"
	cfg.CropBound = 20
	res, err := Classify([]*LineageTree{a, b}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Matrix.At(0, 1))

	cfg.CropCriterion = ""
	res, err = Classify([]*LineageTree{a, b}, cfg)
	require.NoError(t, err)
	assert.Greater(t, res.Matrix.At(0, 1), 0.0)
}

func TestClassify_ExcludeEmpty(t *testing.T) {
	trees := []*LineageTree{
		lineage("early", branch(0, 10)),
		lineage("late", branch(50, 60)),
		lineage("also early", branch(5, 30)),
	}
	cfg := DefaultConfig()
	cfg.CropCriterion = "Timepoint"
	cfg.CropBound = 20

	_, err := Classify(trees, cfg)
	assert.ErrorIs(t, err, ErrEmptyResult)

	var buf bytes.Buffer
	cfg.ExcludeEmpty = true
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	res, err := Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "also early"}, res.Labels)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "late", res.Excluded[0].Name)
	assert.Contains(t, buf.String(), "excluded lineage tree")
	assert.Contains(t, buf.String(), "msg=cluster")
}

func TestClassify_MinCellDivisions(t *testing.T) {
	trees := []*LineageTree{
		lineage("none", cell(1)),
		lineage("one", cell(1, cell(2), cell(2))),
		lineage("two", cell(1, cell(2, cell(3), cell(3)), cell(2))),
	}
	cfg := DefaultConfig()
	cfg.MinCellDivisions = 1
	res, err := Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, res.Labels)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "none", res.Excluded[0].Name)

	cfg.MinCellDivisions = 2
	res, err = Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, res.Labels)
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	trees := randomForest(8, 5, 3)
	want := make([]*LineageTree, len(trees))
	for i, tr := range trees {
		want[i] = tr.Clone()
	}
	cfg := DefaultConfig()
	cfg.CropCriterion = "Number of cells"
	cfg.CropBound = 4
	_, err := Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, want, trees)
}

func TestClassifyProjects_AveragesCommonTrees(t *testing.T) {
	first := []*LineageTree{
		lineage("C", cell(30)),
		lineage("A", cell(10)),
		lineage("B", cell(11)),
	}
	second := []*LineageTree{
		lineage("A", cell(10)),
		lineage("C", cell(10)),
	}

	res, err := ClassifyProjects([][]*LineageTree{first, second}, DefaultConfig())
	require.NoError(t, err)

	// Sorted by name; B is only tracked in the first project.
	assert.Equal(t, []string{"A", "C"}, res.Labels)
	require.Len(t, res.Excluded, 1)
	assert.Equal(t, "B", res.Excluded[0].Name)
	// (1/4 + 0) / 2
	assert.InDelta(t, 0.125, res.Matrix.At(0, 1), floatTol)
}

func TestClassifyMatrix(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Linkage = "Complete linkage"
	cfg.ClassCount = 3
	res, err := ClassifyMatrix(lineFixture(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Partition.NumClusters())
	assert.Equal(t, 7.0, res.MaxDistance)
	assert.Equal(t, CompleteLinkage, res.Dendrogram.Linkage())

	_, err = ClassifyMatrix(nil, cfg)
	assert.ErrorIs(t, err, ErrInsufficientInput)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"unknown linkage", func(c *Config) { c.Linkage = "Foo" }, ErrNoSuchOption},
		{"unknown measure", func(c *Config) { c.SimilarityMeasure = "Foo" }, ErrNoSuchOption},
		{"unknown normalization", func(c *Config) { c.Normalization = "Foo" }, ErrNoSuchOption},
		{"unknown crop", func(c *Config) { c.CropCriterion = "Foo" }, ErrNoSuchOption},
		{"negative crop bound", func(c *Config) { c.CropBound = -1 }, ErrInvalidCriterion},
		{"negative cutoff", func(c *Config) { c.Cutoff = -1 }, ErrInvalidCutoff},
		{"negative class count", func(c *Config) { c.ClassCount = -2 }, ErrInvalidClassCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := Classify(threeCells(), cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.MinCellDivisions = -1
	_, err := Classify(threeCells(), cfg)
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	assert.Equal(t, DefaultConfig().Linkage, cfg.Linkage)
	assert.Equal(t, DefaultConfig().SimilarityMeasure, cfg.SimilarityMeasure)
	assert.Equal(t, DefaultConfig().Normalization, cfg.Normalization)
	assert.Positive(t, cfg.Workers)
	assert.NotNil(t, cfg.Logger)
}

func TestClassify_ClassCountWithIdenticalTrees(t *testing.T) {
	// A and B have the same duration, so they merge at distance 0.
	trees := []*LineageTree{
		lineage("A", branch(0, 9)),
		lineage("B", branch(0, 9)),
		lineage("C", branch(0, 29)),
	}
	want := []int{1, 2, 2}
	for i, n := range want {
		cfg := DefaultConfig()
		cfg.ClassCount = i + 1
		res, err := Classify(trees, cfg)
		require.NoError(t, err)
		assert.Equal(t, n, res.Partition.NumClusters(), "class count %d", cfg.ClassCount)
		assert.Greater(t, res.Cutoff, 0.0)
	}
}

func TestClassify_NilChildren(t *testing.T) {
	trees := []*LineageTree{
		lineage("A", cell(10, nil, cell(3))),
		lineage("B", cell(11, cell(3), nil)),
	}
	cfg := DefaultConfig()
	cfg.CropCriterion = "Number of cells"
	cfg.CropBound = 10
	cfg.MinCellDivisions = 0
	res, err := Classify(trees, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, res.Labels)
}

func TestClassifyProjects_DuplicateNameInProject(t *testing.T) {
	first := []*LineageTree{lineage("A", cell(1)), lineage("B", cell(2)), lineage("C", cell(3))}
	second := []*LineageTree{lineage("A", cell(1)), lineage("B", cell(2)), lineage("B", cell(5))}

	_, err := ClassifyProjects([][]*LineageTree{first, second}, DefaultConfig())
	assert.ErrorIs(t, err, ErrDuplicateLabel)
}

func TestClassifyProjects_CountsProjectsPerName(t *testing.T) {
	projects := [][]*LineageTree{
		{lineage("A", cell(10)), lineage("B", cell(11)), lineage("C", cell(30))},
		{lineage("A", cell(10)), lineage("B", cell(11))},
		{lineage("C", cell(30)), lineage("B", cell(11)), lineage("A", cell(10))},
	}
	res, err := ClassifyProjects(projects, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, res.Labels)
	assert.Equal(t, []Exclusion{
		{Name: "C", Reason: "missing in 1 of 3 projects"},
		{Name: "C", Reason: "missing in 1 of 3 projects"},
	}, res.Excluded)
}
