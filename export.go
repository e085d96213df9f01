package treecluster

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// GroupName returns the display name of cluster id, "Group 1" for id 0.
func GroupName(id int) string { return "Group " + strconv.Itoa(id+1) }

// WriteGroupsCSV writes one ';'-separated record per tree in p: the tree
// name, its group name and the merge distance of the group's cluster,
// rounded to two significant digits. The first record is a header.
func WriteGroupsCSV(w io.Writer, p *Partition) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Tree name", "Group", "Group similarity score"}); err != nil {
		return fmt.Errorf("treecluster: writing csv header: %w", err)
	}
	for id := 0; id < p.NumClusters(); id++ {
		score := formatSignificant(p.Cluster(id).Distance(), 2)
		for _, name := range p.Members(id) {
			if err := cw.Write([]string{name, GroupName(id), score}); err != nil {
				return fmt.Errorf("treecluster: writing csv record for %q: %w", name, err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("treecluster: writing csv: %w", err)
	}
	return nil
}

// formatSignificant rounds v half away from zero to digits significant
// digits and formats it without exponent or trailing zeros.
func formatSignificant(v float64, digits int) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	shift := digits - 1 - exp
	var r float64
	if shift >= 0 {
		scale := math.Pow10(shift)
		r = math.Round(v*scale) / scale
	} else {
		scale := math.Pow10(-shift)
		r = math.Round(v/scale) * scale
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
