package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lizi12/hw5-2019/internal/errors"
	"github.com/lizi12/hw5-2019/internal/shared/testutil"
)

func gradesTable(t *testing.T) *Table {
	t.Helper()
	table, err := DecodeTable([]byte(testutil.GradesJSON), FormatRecords)
	require.NoError(t, err)
	return table
}

func TestImputeMissing_ColumnMean(t *testing.T) {
	table := gradesTable(t)

	imp, err := table.ImputeMissing(DefaultImputeOptions())
	require.NoError(t, err)

	assert.Equal(t, []int{2}, imp.Rows)
	assert.Equal(t, 1, imp.Filled)
	assert.InDelta(t, 5.0, imp.Means["q3"], 1e-9)

	got, ok := imp.Table.Row(2).Float("q3")
	require.True(t, ok)
	assert.InDelta(t, (3.0+5.0+7.0)/3, got, 1e-9)

	assert.True(t, table.Row(2).IsMissing("q3"), "input table must be unchanged")
	assert.Equal(t, table.Len(), imp.Table.Len())
	assert.Equal(t, table.Origins(), imp.Table.Origins())
}

func TestImputeMissing_ColumnStrategyCoversAllNumericColumns(t *testing.T) {
	table := NewTable(nil, []map[string]any{
		{"age": 20.0, "name": "a", "q1": 1.0, "q2": 2.0, "q3": 3.0, "q4": 4.0, "q5": 5.0},
		{"age": nil, "name": nil, "q1": 3.0, "q2": 2.0, "q3": 3.0, "q4": 4.0, "q5": 5.0},
		{"age": 40.0, "name": "c", "q1": nil, "q2": 2.0, "q3": 3.0, "q4": 4.0, "q5": 5.0},
	})

	imp, err := table.ImputeMissing(DefaultImputeOptions())
	require.NoError(t, err)

	assert.Equal(t, []int{2}, imp.Rows)
	assert.Equal(t, 2, imp.Filled)
	assert.Equal(t, 30.0, imp.Table.Row(1).Value("age"))
	assert.Equal(t, 2.0, imp.Table.Row(2).Value("q1"))
	assert.True(t, imp.Table.Row(1).IsMissing("name"))
}

func TestImputeMissing_RowMean(t *testing.T) {
	table := NewTable(nil, []map[string]any{
		{"q1": 1.0, "q2": 2.0, "q3": 3.0, "q4": 4.0, "q5": 5.0},
		{"q1": 2.0, "q2": nil, "q3": 4.0, "q4": nil, "q5": 6.0},
	})

	opts := DefaultImputeOptions()
	opts.Strategy = ImputeByRow

	imp, err := table.ImputeMissing(opts)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, imp.Rows)
	assert.Equal(t, 2, imp.Filled)
	assert.Equal(t, 4.0, imp.RowMeans[1])
	assert.Equal(t, 4.0, imp.Table.Row(1).Value("q2"))
	assert.Equal(t, 4.0, imp.Table.Row(1).Value("q4"))
	assert.Equal(t, 2.0, imp.Table.Row(0).Value("q2"))
}

func TestImputeMissing_EmptyMeanPolicy(t *testing.T) {
	newTable := func() *Table {
		return NewTable(nil, []map[string]any{
			{"q1": 1.0, "q2": nil},
			{"q1": 3.0, "q2": nil},
		})
	}

	tests := []struct {
		name     string
		strategy ImputeStrategy
		policy   EmptyMeanPolicy
		wantErr  bool
		wantQ2   any
	}{
		{name: "column leave", strategy: ImputeByColumn, policy: EmptyMeanLeave, wantQ2: nil},
		{name: "column zero", strategy: ImputeByColumn, policy: EmptyMeanZero, wantQ2: 0.0},
		{name: "column fail", strategy: ImputeByColumn, policy: EmptyMeanFail, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := newTable().ImputeMissing(ImputeOptions{
				Questions: []string{"q1", "q2"},
				Strategy:  tt.strategy,
				EmptyMean: tt.policy,
			})
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{0, 1}, imp.Rows)
			assert.Equal(t, tt.wantQ2, imp.Table.Row(0).Value("q2"))
		})
	}
}

func TestImputeMissing_RowWithoutAnswers(t *testing.T) {
	newTable := func() *Table {
		return NewTable(nil, []map[string]any{
			{"q1": nil, "q2": nil},
			{"q1": 1.0, "q2": 3.0},
		})
	}
	opts := ImputeOptions{Questions: []string{"q1", "q2"}, Strategy: ImputeByRow}

	opts.EmptyMean = EmptyMeanLeave
	imp, err := newTable().ImputeMissing(opts)
	require.NoError(t, err)
	assert.True(t, imp.Table.Row(0).IsMissing("q1"))
	assert.Equal(t, 0, imp.Filled)

	opts.EmptyMean = EmptyMeanZero
	imp, err = newTable().ImputeMissing(opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, imp.Table.Row(0).Value("q1"))
	assert.Equal(t, 2, imp.Filled)

	opts.EmptyMean = EmptyMeanFail
	_, err = newTable().ImputeMissing(opts)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
}

func TestImputeMissing_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    *Table
		opts     ImputeOptions
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing question column",
			table:    NewTable(nil, []map[string]any{{"q1": 1.0, "q2": 2.0}}),
			opts:     DefaultImputeOptions(),
			wantType: apperrors.ErrTypeMissingColumn,
		},
		{
			name:     "non-numeric grade",
			table:    NewTable(nil, []map[string]any{{"q1": "five"}}),
			opts:     ImputeOptions{Questions: []string{"q1"}},
			wantType: apperrors.ErrTypeFormat,
		},
		{
			name:     "unknown strategy",
			table:    NewTable(nil, []map[string]any{{"q1": 1.0}}),
			opts:     ImputeOptions{Questions: []string{"q1"}, Strategy: "median"},
			wantType: apperrors.ErrTypeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.table.ImputeMissing(tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestImputeMissing_NothingMissing(t *testing.T) {
	table := NewTable(nil, []map[string]any{
		{"q1": 1.0, "q2": 2.0, "q3": 3.0, "q4": 4.0, "q5": 5.0},
	})

	imp, err := table.ImputeMissing(DefaultImputeOptions())
	require.NoError(t, err)

	assert.Empty(t, imp.Rows)
	assert.Equal(t, 0, imp.Filled)
	assert.Equal(t, table.Records(), imp.Table.Records())
}
