package treecluster

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
)

// Config controls Classify. Start with [DefaultConfig] and override the
// fields you need. The option fields take display names as shown to users
// and are resolved with the Parse functions.
type Config struct {
	// Linkage is the clustering method. Default: "Average linkage".
	Linkage string

	// SimilarityMeasure is the local cost between attribute values.
	// Default: "Normalized difference".
	SimilarityMeasure string

	// Normalization scales tree distances.
	// Default: "Normalized Zhang tree distance".
	Normalization string

	// CropCriterion truncates every tree before comparison. Empty means no
	// cropping. Options: "Timepoint", "Number of cells".
	CropCriterion string

	// CropBound is the last timepoint or the number of cells to keep.
	// Must be >= 0.
	CropBound int

	// ExcludeEmpty drops trees that cropping empties instead of failing.
	ExcludeEmpty bool

	// MinCellDivisions drops trees with fewer than 2*MinCellDivisions+1
	// cells. Must be >= 0. Default: 0.
	MinCellDivisions int

	// Cutoff is the merge distance at which the dendrogram is cut.
	// 0 means no cut (one cluster). Must be >= 0. Ignored if ClassCount > 0.
	Cutoff float64

	// ClassCount, if > 0, derives the cutoff that yields this many clusters.
	ClassCount int

	// Workers is the number of goroutines for the distance matrix.
	// 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Logger receives progress and summary messages. nil discards them.
	Logger *slog.Logger
}

// Exclusion records a tree that was left out of a clustering run.
type Exclusion struct {
	Name   string
	Reason string
}

// Result contains the output of Classify.
type Result struct {
	// Labels are the names of the clustered trees, in input order.
	Labels []string

	// Matrix holds the pairwise tree distances.
	Matrix *DistanceMatrix

	// Dendrogram is the merge hierarchy. For a single tree it is one leaf.
	Dendrogram *Dendrogram

	// Partition is the dendrogram cut at Cutoff.
	Partition *Partition

	// Cutoff is the cutoff that was applied.
	Cutoff float64

	// MaxDistance is the root's merge distance, for axis scaling.
	MaxDistance float64

	// Median is the median pairwise distance, NaN for a single tree.
	Median float64

	// Excluded lists the input trees that were not clustered.
	Excluded []Exclusion
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Linkage:           AverageLinkage.String(),
		SimilarityMeasure: NormalizedDifference.String(),
		Normalization:     NormalizedZhang.String(),
	}
}

// resolvedConfig holds the parsed option names.
type resolvedConfig struct {
	linkage       LinkageMethod
	measure       SimilarityMeasure
	normalization Normalization
	crop          CropCriterion
	cropEnabled   bool
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Linkage == "" {
		cfg.Linkage = AverageLinkage.String()
	}
	if cfg.SimilarityMeasure == "" {
		cfg.SimilarityMeasure = NormalizedDifference.String()
	}
	if cfg.Normalization == "" {
		cfg.Normalization = NormalizedZhang.String()
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// validateConfig checks cfg and resolves its option names.
func validateConfig(cfg *Config) (resolvedConfig, error) {
	var r resolvedConfig
	var err error
	if r.linkage, err = ParseLinkageMethod(cfg.Linkage); err != nil {
		return r, err
	}
	if r.measure, err = ParseSimilarityMeasure(cfg.SimilarityMeasure); err != nil {
		return r, err
	}
	if r.normalization, err = ParseNormalization(cfg.Normalization); err != nil {
		return r, err
	}
	if cfg.CropCriterion != "" {
		if r.crop, err = ParseCropCriterion(cfg.CropCriterion); err != nil {
			return r, err
		}
		r.cropEnabled = true
	}
	if cfg.CropBound < 0 {
		return r, fmt.Errorf("%w: CropBound must be >= 0, got %d", ErrInvalidCriterion, cfg.CropBound)
	}
	if cfg.MinCellDivisions < 0 {
		return r, fmt.Errorf("treecluster: MinCellDivisions must be >= 0, got %d", cfg.MinCellDivisions)
	}
	if cfg.ClassCount < 0 {
		return r, fmt.Errorf("%w: ClassCount must be >= 0, got %d", ErrInvalidClassCount, cfg.ClassCount)
	}
	if cfg.ClassCount == 0 && (cfg.Cutoff < 0 || cfg.Cutoff != cfg.Cutoff) {
		return r, fmt.Errorf("%w: %v", ErrInvalidCutoff, cfg.Cutoff)
	}
	return r, nil
}

// Classify runs the full pipeline on trees: crop, filter, distance matrix,
// agglomerative clustering, and the cut at cfg.Cutoff (or at the cutoff
// derived from cfg.ClassCount). Input trees are not modified.
//
// A single surviving tree yields a one-leaf dendrogram and a one-cluster
// partition. Returns ErrInsufficientInput if no tree survives, and any error
// of the pipeline stages.
func Classify(trees []*LineageTree, cfg Config) (*Result, error) {
	return ClassifyProjects([][]*LineageTree{trees}, cfg)
}

// ClassifyProjects classifies trees that were tracked in several projects.
// Each project is cropped and filtered on its own; only trees whose name
// survives in every project are kept, sorted by name, and the distance
// matrices of all projects are averaged before clustering. With a single
// project it is equivalent to Classify and keeps the input order.
func ClassifyProjects(projects [][]*LineageTree, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	opts, err := validateConfig(&cfg)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: no projects", ErrInsufficientInput)
	}
	log := cfg.Logger

	prepared := make([][]*LineageTree, len(projects))
	var excluded []Exclusion
	for i, trees := range projects {
		if err := checkTreeNames(trees); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		kept, ex, err := prepareTrees(trees, cfg, opts)
		if err != nil {
			return nil, err
		}
		prepared[i] = kept
		excluded = append(excluded, ex...)
	}
	if len(prepared) > 1 {
		excluded = append(excluded, keepCommonTrees(prepared)...)
	}
	for _, e := range excluded {
		log.Warn("excluded lineage tree", "tree", e.Name, "reason", e.Reason)
	}
	kept := prepared[0]
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no tree left after cropping and filtering (%d excluded)",
			ErrInsufficientInput, len(excluded))
	}

	var matrix *DistanceMatrix
	if len(kept) == 1 {
		matrix, err = NewDistanceMatrix([]string{kept[0].Name}, []float64{0})
	} else {
		matrices := make([]*DistanceMatrix, len(prepared))
		for i, trees := range prepared {
			matrices[i], err = BuildDistanceMatrix(trees, DistanceOptions{
				Measure:       opts.measure,
				Normalization: opts.normalization,
				Workers:       cfg.Workers,
				Logger:        log,
			})
			if err != nil {
				return nil, err
			}
		}
		matrix, err = AverageDistanceMatrix(matrices...)
	}
	if err != nil {
		return nil, err
	}

	res, err := classifyMatrix(matrix, cfg, opts)
	if err != nil {
		return nil, err
	}
	res.Excluded = excluded
	return res, nil
}

// ClassifyMatrix clusters precomputed distances and cuts the dendrogram as
// Classify does. Only the linkage and cutoff fields of cfg are used.
func ClassifyMatrix(m *DistanceMatrix, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	opts, err := validateConfig(&cfg)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil distance matrix", ErrInsufficientInput)
	}
	return classifyMatrix(m, cfg, opts)
}

func classifyMatrix(matrix *DistanceMatrix, cfg Config, opts resolvedConfig) (*Result, error) {
	log := cfg.Logger
	dendrogram, err := Agglomerate(matrix, opts.linkage)
	if err != nil {
		return nil, err
	}

	cutoff := cfg.Cutoff
	if cfg.ClassCount > 0 {
		if cutoff, err = CutoffForClassCount(dendrogram, cfg.ClassCount); err != nil {
			return nil, err
		}
	}
	partition, err := Extract(dendrogram.Root(), cutoff)
	if err != nil {
		return nil, err
	}

	log.Debug("finished hierarchical clustering",
		"trees", matrix.N(), "linkage", opts.linkage.String(), "cutoff", cutoff, "clusters", partition.NumClusters())
	for id := 0; id < partition.NumClusters(); id++ {
		log.Info("cluster", "group", GroupName(id), "trees", partition.Members(id))
	}

	return &Result{
		Labels:      matrix.Labels(),
		Matrix:      matrix,
		Dendrogram:  dendrogram,
		Partition:   partition,
		Cutoff:      cutoff,
		MaxDistance: dendrogram.MaxDistance(),
		Median:      matrix.Median(),
	}, nil
}

func checkTreeNames(trees []*LineageTree) error {
	names := make([]string, len(trees))
	for i, t := range trees {
		names[i] = treeName(t)
	}
	return checkLabels(names)
}

// keepCommonTrees reduces every project to the trees whose names occur in
// all projects, sorted by name, and returns the trees it dropped. Names must
// be unique within each project.
func keepCommonTrees(projects [][]*LineageTree) []Exclusion {
	// count is the number of projects holding each name.
	count := make(map[string]int)
	for _, trees := range projects {
		seen := make(map[string]bool, len(trees))
		for _, t := range trees {
			if !seen[t.Name] {
				seen[t.Name] = true
				count[t.Name]++
			}
		}
	}
	var excluded []Exclusion
	for i, trees := range projects {
		common := trees[:0:0]
		for _, t := range trees {
			if count[t.Name] == len(projects) {
				common = append(common, t)
				continue
			}
			excluded = append(excluded, Exclusion{
				Name:   t.Name,
				Reason: fmt.Sprintf("missing in %d of %d projects", len(projects)-count[t.Name], len(projects)),
			})
		}
		slices.SortFunc(common, func(a, b *LineageTree) int { return strings.Compare(a.Name, b.Name) })
		projects[i] = common
	}
	return excluded
}

// prepareTrees crops and filters trees. Cropped copies replace the inputs.
func prepareTrees(trees []*LineageTree, cfg Config, opts resolvedConfig) ([]*LineageTree, []Exclusion, error) {
	minSize := 2*cfg.MinCellDivisions + 1
	kept := make([]*LineageTree, 0, len(trees))
	var excluded []Exclusion
	for _, t := range trees {
		if opts.cropEnabled {
			cropped, err := Crop(t, opts.crop, cfg.CropBound)
			if errors.Is(err, ErrEmptyResult) && cfg.ExcludeEmpty {
				excluded = append(excluded, Exclusion{Name: treeName(t), Reason: err.Error()})
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			t = cropped
		}
		if t.Empty() {
			excluded = append(excluded, Exclusion{Name: treeName(t), Reason: "empty tree"})
			continue
		}
		if size := t.Size(); size < minSize {
			excluded = append(excluded, Exclusion{
				Name:   t.Name,
				Reason: fmt.Sprintf("%d cells, fewer than %d cell divisions", size, cfg.MinCellDivisions),
			})
			continue
		}
		kept = append(kept, t)
	}
	return kept, excluded, nil
}
