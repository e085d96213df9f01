package cmd

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/TrevorS/treecluster"
	"github.com/spf13/cobra"
)

func newDistanceCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "distance <trees.yaml> [more-projects.yaml...]",
		Short: "Print the pairwise tree distance matrix",
		Long: `Crop and filter the lineage trees and write their pairwise distances as
a ';'-separated matrix with the tree names as header. With several input
files the matrices of all projects are averaged.`,
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
			m := res.Matrix
			a.logger.Info("computed distance matrix", "trees", m.N(), "max", m.Max(), "median", m.Median())

			w, closeOut, err := createOutput(output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cw := csv.NewWriter(w)
			cw.Comma = ';'
			_ = cw.Write(append([]string{""}, m.Labels()...))
			for i := 0; i < m.N(); i++ {
				record := make([]string, 0, m.N()+1)
				record = append(record, m.Label(i))
				for j := 0; j < m.N(); j++ {
					record = append(record, strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
				}
				_ = cw.Write(record)
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				closeOut()
				return fmt.Errorf("failed to write matrix: %w", err)
			}
			return closeOut()
		},
	}

	addTreeFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file for the matrix (default stdout)")
	return cmd
}
