package dataprocessing

import (
	"math"
	"sort"
	"strconv"
)

// Row is one participant record.
//
// Index is the position of the row in the table that holds it and is always
// contiguous from 0. Origin is the position the row had in the table as it
// was loaded and never changes, so it identifies the row across derived
// tables.
type Row struct {
	Index  int
	Origin int
	values map[string]any
}

// Value returns the cell for column, or nil when the key is absent.
func (r Row) Value(column string) any {
	return r.values[column]
}

// IsMissing reports whether the cell for column is absent, null or NaN.
func (r Row) IsMissing(column string) bool {
	return IsMissing(r.values[column])
}

// Float returns the cell as a float64. ok is false when the cell is missing
// or not numeric.
func (r Row) Float(column string) (float64, bool) {
	v := r.values[column]
	if IsMissing(v) {
		return 0, false
	}
	return toFloat(v)
}

// String returns the cell as a string. ok is false for any other type.
func (r Row) String(column string) (string, bool) {
	s, ok := r.values[column].(string)
	return s, ok
}

// Values returns a copy of the row cells.
func (r Row) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// IsMissing reports whether v is the missing marker: nil or a NaN float.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}

// Table is an ordered sequence of rows with an ordered column schema.
// A Table is never modified after construction; operations return new tables.
type Table struct {
	columns []string
	rows    []Row
}

// NewTable builds a table from records. The schema is columns followed by any
// further keys in first-seen order; keys of one record are taken in sorted
// order since maps carry none. Index and Origin are both set to the record
// position.
func NewTable(columns []string, records []map[string]any) *Table {
	t := &Table{}
	seen := make(map[string]bool)
	for _, c := range columns {
		if !seen[c] {
			seen[c] = true
			t.columns = append(t.columns, c)
		}
	}

	t.rows = make([]Row, len(records))
	for i, rec := range records {
		values := make(map[string]any, len(rec))
		for k, v := range rec {
			values[k] = v
		}
		for _, k := range sortedKeys(rec) {
			if !seen[k] {
				seen[k] = true
				t.columns = append(t.columns, k)
			}
		}
		t.rows[i] = Row{Index: i, Origin: i, values: values}
	}
	return t
}

// Columns returns the schema in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns the row at index i.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns the rows in order. Cells are shared with the table and must
// be read through the Row accessors.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Column returns the cells of one column in row order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.values[name]
	}
	return out
}

// Origins returns the Origin of every row in order.
func (t *Table) Origins() []int {
	out := make([]int, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Origin
	}
	return out
}

// Records returns a copy of the rows as plain maps.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Values()
	}
	return out
}

// Select returns the rows at the given indices as a new table. Rows keep
// their Origin.
func (t *Table) Select(indices []int) *Table {
	rows := make([]Row, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, t.rows[i])
	}
	return t.derive(rows)
}

// derive returns a table with the same schema holding rows, re-indexed from 0.
func (t *Table) derive(rows []Row) *Table {
	out := &Table{
		columns: t.columns,
		rows:    make([]Row, len(rows)),
	}
	for i, r := range rows {
		r.Index = i
		out.rows[i] = r
	}
	return out
}

// withValues returns a copy of r whose cells are replaced by values.
func (r Row) withValues(values map[string]any) Row {
	r.values = values
	return r
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortLabels orders row labels numerically when all parse as integers and
// lexically otherwise.
func sortLabels(labels []string) {
	nums := make(map[string]int64, len(labels))
	for _, l := range labels {
		n, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			sort.Strings(labels)
			return
		}
		nums[l] = n
	}
	sort.Slice(labels, func(i, j int) bool { return nums[labels[i]] < nums[labels[j]] })
}
