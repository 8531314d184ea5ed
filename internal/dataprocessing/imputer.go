package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/lizi12/hw5-2019/internal/config"
	apperrors "github.com/lizi12/hw5-2019/internal/errors"
)

// ImputeStrategy selects which mean replaces a missing cell.
type ImputeStrategy string

const (
	// ImputeByColumn fills every numeric column with its own mean.
	ImputeByColumn ImputeStrategy = "column"
	// ImputeByRow fills question cells with the mean of the row's answered questions.
	ImputeByRow ImputeStrategy = "row"
)

// EmptyMeanPolicy decides what happens when a mean has no values to average.
type EmptyMeanPolicy string

const (
	// EmptyMeanLeave keeps the cells missing.
	EmptyMeanLeave EmptyMeanPolicy = "leave"
	// EmptyMeanFail returns a MISSING_COLUMN error.
	EmptyMeanFail EmptyMeanPolicy = "fail"
	// EmptyMeanZero fills the cells with 0.
	EmptyMeanZero EmptyMeanPolicy = "zero"
)

// DefaultQuestionColumns are the grade columns of the questionnaire.
func DefaultQuestionColumns() []string {
	return config.DefaultQuestionColumns()
}

// ImputeOptions configures ImputeMissing.
type ImputeOptions struct {
	Questions []string
	Strategy  ImputeStrategy
	EmptyMean EmptyMeanPolicy
}

// DefaultImputeOptions returns the column strategy over q1..q5 with the leave policy.
func DefaultImputeOptions() ImputeOptions {
	return ImputeOptions{
		Questions: DefaultQuestionColumns(),
		Strategy:  ImputeByColumn,
		EmptyMean: EmptyMeanLeave,
	}
}

func (o ImputeOptions) withDefaults() ImputeOptions {
	if len(o.Questions) == 0 {
		o.Questions = DefaultQuestionColumns()
	}
	if o.Strategy == "" {
		o.Strategy = ImputeByColumn
	}
	if o.EmptyMean == "" {
		o.EmptyMean = EmptyMeanLeave
	}
	return o
}

// Imputation is the result of ImputeMissing.
type Imputation struct {
	Table *Table
	// Rows holds the indices of input rows with at least one missing question.
	Rows []int
	// Filled is the number of cells that received a value.
	Filled int
	// Means holds the column means used by the column strategy.
	Means map[string]float64
	// RowMeans holds the per-row means used by the row strategy, keyed by index.
	RowMeans map[int]float64
}

// ImputeMissing records which rows lack a question answer and returns a new
// table with missing cells filled according to opts.
func (t *Table) ImputeMissing(opts ImputeOptions) (Imputation, error) {
	opts = opts.withDefaults()

	for _, q := range opts.Questions {
		if !t.HasColumn(q) {
			return Imputation{}, apperrors.NewMissingColumnError(q)
		}
	}
	if err := t.checkNumeric(opts.Questions); err != nil {
		return Imputation{}, err
	}

	var rows []int
	for _, r := range t.rows {
		for _, q := range opts.Questions {
			if r.IsMissing(q) {
				rows = append(rows, r.Index)
				break
			}
		}
	}

	var (
		res Imputation
		err error
	)
	switch opts.Strategy {
	case ImputeByColumn:
		res, err = t.imputeByColumn(opts)
	case ImputeByRow:
		res, err = t.imputeByRow(opts)
	default:
		return Imputation{}, apperrors.NewInvalidArgumentError(fmt.Sprintf("unknown impute strategy %q", opts.Strategy))
	}
	if err != nil {
		return Imputation{}, err
	}

	res.Rows = rows
	return res, nil
}

func (t *Table) checkNumeric(columns []string) error {
	for _, r := range t.rows {
		for _, c := range columns {
			v := r.values[c]
			if IsMissing(v) {
				continue
			}
			if _, ok := toFloat(v); !ok {
				return apperrors.NewFormatError(fmt.Sprintf("column %q row %d: expected a number, got %T", c, r.Index, v)).
					WithContext("column", c).
					WithContext("row", r.Index)
			}
		}
	}
	return nil
}

// numericColumns returns the columns whose non-missing values are all numbers
// and that hold at least one value. Questions are always included.
func (t *Table) numericColumns(questions []string) []string {
	isQuestion := make(map[string]bool, len(questions))
	for _, q := range questions {
		isQuestion[q] = true
	}

	var out []string
	for _, c := range t.columns {
		if isQuestion[c] {
			out = append(out, c)
			continue
		}
		numeric, seen := true, false
		for _, r := range t.rows {
			v := r.values[c]
			if IsMissing(v) {
				continue
			}
			seen = true
			if _, ok := toFloat(v); !ok {
				numeric = false
				break
			}
		}
		if numeric && seen {
			out = append(out, c)
		}
	}
	return out
}

func (t *Table) imputeByColumn(opts ImputeOptions) (Imputation, error) {
	res := Imputation{Means: make(map[string]float64)}

	fill := make(map[string]float64)
	for _, c := range t.numericColumns(opts.Questions) {
		sum, n := 0.0, 0
		for _, r := range t.rows {
			if x, ok := r.Float(c); ok {
				sum += x
				n++
			}
		}
		if n > 0 {
			res.Means[c] = sum / float64(n)
			fill[c] = res.Means[c]
			continue
		}
		if len(t.rows) == 0 {
			continue
		}
		switch opts.EmptyMean {
		case EmptyMeanFail:
			return Imputation{}, apperrors.NewMissingColumnError(c).
				WithContext("reason", "no values to average")
		case EmptyMeanZero:
			fill[c] = 0
		}
	}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		var values map[string]any
		for c, mean := range fill {
			if !r.IsMissing(c) {
				continue
			}
			if values == nil {
				values = r.Values()
			}
			values[c] = mean
			res.Filled++
		}
		if values != nil {
			r = r.withValues(values)
		}
		rows[i] = r
	}

	res.Table = t.derive(rows)
	return res, nil
}

func (t *Table) imputeByRow(opts ImputeOptions) (Imputation, error) {
	res := Imputation{RowMeans: make(map[int]float64)}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		var missing []string
		sum, n := 0.0, 0
		for _, q := range opts.Questions {
			if x, ok := r.Float(q); ok {
				sum += x
				n++
			} else {
				missing = append(missing, q)
			}
		}
		rows[i] = r
		if len(missing) == 0 {
			continue
		}

		var mean float64
		switch {
		case n > 0:
			mean = sum / float64(n)
			res.RowMeans[r.Index] = mean
		case opts.EmptyMean == EmptyMeanZero:
			mean = 0
		case opts.EmptyMean == EmptyMeanFail:
			return Imputation{}, apperrors.NewAppError(apperrors.ErrTypeMissingColumn,
				fmt.Sprintf("row %d has no answer in %s", r.Index, strings.Join(opts.Questions, ", ")), nil).
				WithContext("row", r.Index)
		default:
			continue
		}

		values := r.Values()
		for _, q := range missing {
			values[q] = mean
			res.Filled++
		}
		rows[i] = r.withValues(values)
	}

	res.Table = t.derive(rows)
	return res, nil
}
