package cmd

import (
	"github.com/TrevorS/treecluster"
	"github.com/TrevorS/treecluster/internal/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Nested keys map to TREECLUSTER_<SECTION>_<KEY>.
const (
	keyLinkage          = "linkage"
	keySimilarity       = "similarity"
	keyNormalization    = "normalization"
	keyCropCriterion    = "crop.criterion"
	keyCropBound        = "crop.bound"
	keyCropExcludeEmpty = "crop.exclude_empty"
	keyMinCellDivisions = "min_cell_divisions"
	keyCutoff           = "cutoff"
	keyClasses          = "classes"
	keyWorkers          = "workers"
)

func setDefaults(v *viper.Viper) {
	def := treecluster.DefaultConfig()
	v.SetDefault(keyLinkage, def.Linkage)
	v.SetDefault(keySimilarity, def.SimilarityMeasure)
	v.SetDefault(keyNormalization, def.Normalization)
	v.SetDefault(keyCropCriterion, "")
	v.SetDefault(keyCropBound, 0)
	v.SetDefault(keyCropExcludeEmpty, false)
	v.SetDefault(keyMinCellDivisions, 0)
	v.SetDefault(keyCutoff, 0.0)
	v.SetDefault(keyClasses, 0)
	v.SetDefault(keyWorkers, 0)
	v.SetDefault("log.level", logging.LevelWarn)
	v.SetDefault("log.format", logging.FormatText)
}

// flagKeys maps command line flags to their configuration keys.
var flagKeys = map[string]string{
	"config":             "config",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"linkage":            keyLinkage,
	"similarity":         keySimilarity,
	"normalization":      keyNormalization,
	"crop-criterion":     keyCropCriterion,
	"crop-bound":         keyCropBound,
	"exclude-empty":      keyCropExcludeEmpty,
	"min-cell-divisions": keyMinCellDivisions,
	"cutoff":             keyCutoff,
	"classes":            keyClasses,
	"workers":            keyWorkers,
}

// bindFlags binds the flags of the running command to their configuration
// keys, so that a flag set on the command line overrides the config file and
// the environment. Commands share flag names, so binding happens per run.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && err == nil {
			err = v.BindPFlag(key, f)
		}
	})
	return err
}

// addTreeFlags registers the flags that control how trees are compared.
func addTreeFlags(flags *pflag.FlagSet) {
	flags.String("similarity", "", "similarity measure, see 'treecluster options'")
	flags.String("normalization", "", "tree distance normalization, see 'treecluster options'")
	flags.String("crop-criterion", "", "crop trees by \"Timepoint\" or \"Number of cells\" (default: no cropping)")
	flags.Int("crop-bound", 0, "last timepoint or number of cells kept by cropping")
	flags.Bool("exclude-empty", false, "skip trees that cropping empties instead of failing")
	flags.Int("min-cell-divisions", 0, "skip trees with fewer cell divisions")
	flags.Int("workers", 0, "goroutines computing distances (0 = number of CPUs)")
}

// addCutFlags registers the flags that control linkage and the cut.
func addCutFlags(flags *pflag.FlagSet) {
	flags.String("linkage", "", "linkage method, see 'treecluster options'")
	flags.Float64("cutoff", 0, "merge distance at which the dendrogram is cut (0 = one group)")
	flags.Int("classes", 0, "number of groups to cut into, overrides --cutoff")
}

// classifyConfig reads the library configuration from v.
func (a *app) classifyConfig() treecluster.Config {
	v := a.v
	return treecluster.Config{
		Linkage:           v.GetString(keyLinkage),
		SimilarityMeasure: v.GetString(keySimilarity),
		Normalization:     v.GetString(keyNormalization),
		CropCriterion:     v.GetString(keyCropCriterion),
		CropBound:         v.GetInt(keyCropBound),
		ExcludeEmpty:      v.GetBool(keyCropExcludeEmpty),
		MinCellDivisions:  v.GetInt(keyMinCellDivisions),
		Cutoff:            v.GetFloat64(keyCutoff),
		ClassCount:        v.GetInt(keyClasses),
		Workers:           v.GetInt(keyWorkers),
		Logger:            a.logger,
	}
}
