package cmd

import (
	"github.com/TrevorS/treecluster"
	"github.com/spf13/cobra"
)

func newCutCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "cut <linkage.yaml>",
		Short: "Cut a saved dendrogram into groups",
		Long: `Read a dendrogram written by 'treecluster cluster --linkage-out' and cut
it at a new cutoff or into a new number of groups, without recomputing
tree distances.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readLinkage(args[0])
			if err != nil {
				return err
			}

			cutoff := a.v.GetFloat64(keyCutoff)
			if classes := a.v.GetInt(keyClasses); classes > 0 {
				if cutoff, err = treecluster.CutoffForClassCount(d, classes); err != nil {
					return err
				}
			}
			p, err := d.Partition(cutoff)
			if err != nil {
				return err
			}
			a.logger.Info("cut dendrogram", "cutoff", cutoff, "groups", p.NumClusters())

			w, closeOut, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := treecluster.WriteGroupsCSV(w, p); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().Float64("cutoff", 0, "merge distance at which the dendrogram is cut (0 = one group)")
	cmd.Flags().Int("classes", 0, "number of groups to cut into, overrides --cutoff")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file for the groups (default stdout)")
	return cmd
}
