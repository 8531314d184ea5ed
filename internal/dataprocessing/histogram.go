package dataprocessing

import (
	"fmt"
	"sort"

	"github.com/lizi12/hw5-2019/internal/config"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// DefaultAgeEdges are the bin edges used for the age distribution.
func DefaultAgeEdges() []float64 {
	return config.DefaultAgeBins()
}

// Histogram is a binned count of one numeric column.
//
// Bin i covers [Edges[i], Edges[i+1]); the last bin also includes its right
// edge. Values outside [Edges[0], Edges[len-1]] are not counted in any bin
// and are reported in OutOfRange.
type Histogram struct {
	Counts     []int
	Edges      []float64
	OutOfRange int
	// Missing is the number of rows skipped because the value was missing.
	Missing int
}

// Total returns the number of values that fell into a bin.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// BinLabel returns a readable label for bin i, e.g. "[10, 20)".
func (h Histogram) BinLabel(i int) string {
	closing := ")"
	if i == len(h.Counts)-1 {
		closing = "]"
	}
	return fmt.Sprintf("[%g, %g%s", h.Edges[i], h.Edges[i+1], closing)
}

// ValidateEdges checks that edges has at least two strictly increasing values.
func ValidateEdges(edges []float64) error {
	if len(edges) < 2 {
		return apperrors.NewInvalidArgumentError(fmt.Sprintf("at least two bin edges are required, got %d", len(edges)))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return apperrors.NewInvalidArgumentError(fmt.Sprintf("bin edges must be strictly increasing: %g follows %g", edges[i], edges[i-1]))
		}
	}
	return nil
}

// AgeDistribution bins the non-missing values of column into edges.
func (t *Table) AgeDistribution(column string, edges []float64) (Histogram, error) {
	if err := ValidateEdges(edges); err != nil {
		return Histogram{}, err
	}
	if !t.HasColumn(column) {
		return Histogram{}, apperrors.NewMissingColumnError(column)
	}

	h := Histogram{
		Counts: make([]int, len(edges)-1),
		Edges:  append([]float64(nil), edges...),
	}
	last := len(edges) - 1

	for _, r := range t.rows {
		v := r.values[column]
		if IsMissing(v) {
			h.Missing++
			continue
		}
		x, ok := toFloat(v)
		if !ok {
			return Histogram{}, apperrors.NewFormatError(fmt.Sprintf("column %q row %d: expected a number, got %T", column, r.Index, v)).
				WithContext("column", column).
				WithContext("row", r.Index)
		}

		if x < edges[0] || x > edges[last] {
			h.OutOfRange++
			continue
		}
		if x == edges[last] {
			h.Counts[last-1]++
			continue
		}
		// first edge strictly greater than x closes the bin
		bin := sort.Search(len(edges), func(i int) bool { return edges[i] > x }) - 1
		h.Counts[bin]++
	}

	return h, nil
}
