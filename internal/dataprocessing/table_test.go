package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "NaN", value: math.NaN(), want: true},
		{name: "zero", value: 0.0, want: false},
		{name: "empty string", value: "", want: false},
		{name: "false", value: false, want: false},
		{name: "int", value: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.value))
		})
	}
}

func TestNewTable(t *testing.T) {
	records := []map[string]any{
		{"age": 5, "email": "a@b.com"},
		{"age": nil, "q1": 2.5},
	}

	table := NewTable([]string{"email", "age"}, records)

	assert.Equal(t, []string{"email", "age", "q1"}, table.Columns())
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []int{0, 1}, table.Origins())

	x, ok := table.Row(0).Float("age")
	assert.True(t, ok)
	assert.Equal(t, 5.0, x)

	_, ok = table.Row(1).Float("age")
	assert.False(t, ok)
	assert.True(t, table.Row(1).IsMissing("email"))
	assert.True(t, table.HasColumn("q1"))
	assert.False(t, table.HasColumn("q2"))

	records[0]["age"] = 99
	x, _ = table.Row(0).Float("age")
	assert.Equal(t, 5.0, x, "table must not share caller maps")
}

func TestTable_RecordsAreCopies(t *testing.T) {
	table := NewTable(nil, []map[string]any{{"q1": 1.0}})

	recs := table.Records()
	recs[0]["q1"] = 9.0

	assert.Equal(t, 1.0, table.Row(0).Value("q1"))
}

func TestRow_String(t *testing.T) {
	table := NewTable(nil, []map[string]any{{"email": "a@b.com", "age": 3.0}})

	s, ok := table.Row(0).String("email")
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", s)

	_, ok = table.Row(0).String("age")
	assert.False(t, ok)
}

func TestTable_Derive(t *testing.T) {
	table := NewTable(nil, []map[string]any{{"a": 1}, {"a": 2}, {"a": 3}})

	derived := table.derive([]Row{table.Row(2), table.Row(0)})

	require.Equal(t, 2, derived.Len())
	assert.Equal(t, 0, derived.Row(0).Index)
	assert.Equal(t, 2, derived.Row(0).Origin)
	assert.Equal(t, 1, derived.Row(1).Index)
	assert.Equal(t, 0, derived.Row(1).Origin)
	assert.Equal(t, 2, table.Row(2).Index)
}

func TestSortLabels(t *testing.T) {
	numeric := []string{"10", "2", "-1", "0"}
	sortLabels(numeric)
	assert.Equal(t, []string{"-1", "0", "2", "10"}, numeric)

	mixed := []string{"b", "10", "a", "2"}
	sortLabels(mixed)
	assert.Equal(t, []string{"10", "2", "a", "b"}, mixed)
}

func TestTable_Select(t *testing.T) {
	table := NewTable(nil, []map[string]any{{"a": 1}, {"a": 2}, {"a": 3}})

	selected := table.Select([]int{0, 2})

	assert.Equal(t, []int{0, 2}, selected.Origins())
	assert.Equal(t, 1, selected.Row(1).Index)
	assert.Equal(t, 0, table.Select(nil).Len())
}
