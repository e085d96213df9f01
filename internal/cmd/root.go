// Package cmd implements the treecluster command line interface.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/TrevorS/treecluster/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// NewRootCommand returns the treecluster command tree. Every call returns
// an independent tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "treecluster",
		Short: "Classify cell lineage trees by similarity",
		Long: `treecluster compares cell lineage trees with Zhang's unordered tree edit
distance, clusters them hierarchically and cuts the dendrogram into groups.

Lineage trees are read from YAML or JSON files. Options can be given as
flags, in a treecluster.yaml config file, or as TREECLUSTER_* environment
variables (e.g. TREECLUSTER_CROP_BOUND for crop.bound).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./treecluster.yaml or $HOME/.config/treecluster/treecluster.yaml)")
	flags.String("log-level", logging.LevelWarn, "log level: DEBUG, INFO, WARN or ERROR")
	flags.String("log-format", logging.FormatText, "log format: text or json")

	root.AddCommand(
		newClusterCommand(a),
		newDistanceCommand(a),
		newCutCommand(a),
		newOptionsCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	setDefaults(v)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	v.SetEnvPrefix("TREECLUSTER")
	// e.g. TREECLUSTER_CROP_BOUND for crop.bound
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("treecluster")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/treecluster")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || v.GetString("config") != "" {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger, err := logging.New(cmd.ErrOrStderr(), v.GetString("log.level"), v.GetString("log.format"))
	if err != nil {
		return err
	}
	a.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return nil
}
