package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/TrevorS/treecluster"
	"gopkg.in/yaml.v3"
)

// treeFile is the input format: either a document with a "trees" list or a
// bare list of trees. JSON input is read as YAML.
type treeFile struct {
	Trees []*treecluster.LineageTree `yaml:"trees"`
}

// readTrees loads the lineage trees of one project from path.
func readTrees(path string) ([]*treecluster.LineageTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trees: %w", err)
	}
	trees, err := parseTrees(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return trees, nil
}

func parseTrees(data []byte) ([]*treecluster.LineageTree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("no trees")
	}

	var trees []*treecluster.LineageTree
	if doc.Content[0].Kind == yaml.SequenceNode {
		if err := doc.Content[0].Decode(&trees); err != nil {
			return nil, err
		}
	} else {
		var f treeFile
		if err := doc.Content[0].Decode(&f); err != nil {
			return nil, err
		}
		trees = f.Trees
	}
	for i, t := range trees {
		if t == nil {
			return nil, fmt.Errorf("tree %d is null", i)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("tree %d has no name", i)
		}
	}
	return trees, nil
}

// linkageFile stores a dendrogram so that it can be cut again without
// recomputing distances.
type linkageFile struct {
	Linkage string      `yaml:"linkage"`
	Labels  []string    `yaml:"labels"`
	Rows    [][]float64 `yaml:"rows,flow"`
}

func writeLinkage(w io.Writer, d *treecluster.Dendrogram) error {
	f := linkageFile{
		Linkage: d.Linkage().String(),
		Labels:  d.Labels(),
		Rows:    make([][]float64, 0, d.N()-1),
	}
	for _, r := range d.LinkageMatrix() {
		f.Rows = append(f.Rows, r[:])
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to write linkage: %w", err)
	}
	return enc.Close()
}

func readLinkage(path string) (*treecluster.Dendrogram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read linkage: %w", err)
	}
	var f linkageFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	method, err := treecluster.ParseLinkageMethod(f.Linkage)
	if err != nil {
		return nil, err
	}
	rows := make([][4]float64, len(f.Rows))
	for i, r := range f.Rows {
		if len(r) != 4 {
			return nil, fmt.Errorf("%s: linkage row %d has %d values, expected 4", path, i, len(r))
		}
		copy(rows[i][:], r)
	}
	return treecluster.FromLinkageMatrix(f.Labels, rows, method)
}

// createOutput opens path for writing, or returns stdout for "" and "-".
func createOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, f.Close, nil
}
