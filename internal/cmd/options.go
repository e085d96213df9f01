package cmd

import (
	"fmt"

	"github.com/TrevorS/treecluster"
	"github.com/spf13/cobra"
)

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted option names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			sections := []struct {
				key   string
				names []string
			}{
				{keyLinkage, treecluster.LinkageMethodNames()},
				{keySimilarity, treecluster.SimilarityMeasureNames()},
				{keyNormalization, treecluster.NormalizationNames()},
				{keyCropCriterion, treecluster.CropCriterionNames()},
			}
			for i, s := range sections {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s:\n", s.key)
				for _, name := range s.names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
		},
	}
}
