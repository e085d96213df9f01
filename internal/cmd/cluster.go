package cmd

import (
	"fmt"

	"github.com/TrevorS/treecluster"
	"github.com/spf13/cobra"
)

func newClusterCommand(a *app) *cobra.Command {
	var (
		output     string
		linkageOut string
		newick     bool
	)

	cmd := &cobra.Command{
		Use:   "cluster <trees.yaml> [more-projects.yaml...]",
		Short: "Group lineage trees by similarity",
		Long: `Compute the distances between all lineage trees, cluster them and write
one CSV record per tree with its group.

With several input files, each file is a project tracking the same
embryos: only trees present in every project are kept and the distance
matrices of all projects are averaged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := make([][]*treecluster.LineageTree, len(args))
			for i, path := range args {
				trees, err := readTrees(path)
				if err != nil {
					return err
				}
				projects[i] = trees
			}

			res, err := treecluster.ClassifyProjects(projects, a.classifyConfig())
			if err != nil {
				return err
			}
			a.logger.Info("classified lineage trees",
				"trees", len(res.Labels), "groups", res.Partition.NumClusters(),
				"cutoff", res.Cutoff, "max_distance", res.MaxDistance, "median", res.Median)

			w, closeOut, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := treecluster.WriteGroupsCSV(w, res.Partition); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}

			if newick {
				fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", res.Dendrogram.Root())
			}
			if linkageOut != "" {
				w, closeLinkage, err := createOutput(linkageOut, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if err := writeLinkage(w, res.Dendrogram); err != nil {
					closeLinkage()
					return err
				}
				return closeLinkage()
			}
			return nil
		},
	}

	addTreeFlags(cmd.Flags())
	addCutFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file for the groups (default stdout)")
	cmd.Flags().StringVar(&linkageOut, "linkage-out", "", "write the dendrogram as a linkage file for 'treecluster cut'")
	cmd.Flags().BoolVar(&newick, "newick", false, "print the dendrogram in Newick format")
	return cmd
}
