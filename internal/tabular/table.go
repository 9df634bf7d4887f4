// Package tabular implements the small set of relational operations the
// merge pipeline needs over ordered collections of rows: equi-join,
// one-hot encoding, list explosion, de-duplication, and missing-value
// filtering.
package tabular

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one record keyed by column name.
type Row = map[string]any

// Table is an ordered set of rows with an explicit column order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns ...string) Table {
	return Table{Columns: columns}
}

// Append adds a row to the table.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// InnerJoin joins two tables on an exact key match. Rows without a
// partner on the other side are dropped. Output columns are the left
// columns followed by the right columns minus the key; output order is
// left order, with each left row expanded by its matches in right order.
func InnerJoin(left, right Table, key string) Table {
	columns := make([]string, 0, len(left.Columns)+len(right.Columns)-1)
	columns = append(columns, left.Columns...)
	for _, col := range right.Columns {
		if col != key {
			columns = append(columns, col)
		}
	}

	byKey := make(map[any][]Row, len(right.Rows))
	for _, row := range right.Rows {
		k := row[key]
		byKey[k] = append(byKey[k], row)
	}

	out := Table{Columns: columns}
	for _, lrow := range left.Rows {
		for _, rrow := range byKey[lrow[key]] {
			merged := make(Row, len(columns))
			for _, col := range left.Columns {
				merged[col] = lrow[col]
			}
			for _, col := range right.Columns {
				if col != key {
					merged[col] = rrow[col]
				}
			}
			out.Append(merged)
		}
	}
	return out
}

// OneHot replaces a categorical column with one boolean column per
// distinct non-empty value, named "<column>_<value>". New columns are
// appended in sorted value order; the original column is removed.
func OneHot(t Table, column string) Table {
	values := make(map[string]bool)
	for _, row := range t.Rows {
		if v, ok := row[column].(string); ok && v != "" {
			values[v] = true
		}
	}

	distinct := make([]string, 0, len(values))
	for v := range values {
		distinct = append(distinct, v)
	}
	sort.Strings(distinct)

	columns := make([]string, 0, len(t.Columns)-1+len(distinct))
	for _, col := range t.Columns {
		if col != column {
			columns = append(columns, col)
		}
	}
	for _, v := range distinct {
		columns = append(columns, column+"_"+v)
	}

	out := Table{Columns: columns}
	for _, row := range t.Rows {
		encoded := make(Row, len(columns))
		for _, col := range t.Columns {
			if col != column {
				encoded[col] = row[col]
			}
		}
		value, _ := row[column].(string)
		for _, v := range distinct {
			encoded[column+"_"+v] = value == v
		}
		out.Append(encoded)
	}
	return out
}

// Explode expands a list-valued column into one row per element,
// unnesting each element's fields into "<prefix><field>" columns. A cell
// that is not a []Row is treated as empty; an empty list still produces
// one output row whose unnested columns are all nil, so that a later
// DropNA removes it.
func Explode(t Table, column, prefix string, fields []string) Table {
	columns := make([]string, 0, len(t.Columns)-1+len(fields))
	for _, col := range t.Columns {
		if col != column {
			columns = append(columns, col)
		}
	}
	for _, f := range fields {
		columns = append(columns, prefix+f)
	}

	out := Table{Columns: columns}
	for _, row := range t.Rows {
		elems, _ := row[column].([]Row)
		if len(elems) == 0 {
			elems = []Row{nil}
		}
		for _, elem := range elems {
			expanded := make(Row, len(columns))
			for _, col := range t.Columns {
				if col != column {
					expanded[col] = row[col]
				}
			}
			for _, f := range fields {
				if elem == nil {
					expanded[prefix+f] = nil
				} else {
					expanded[prefix+f] = elem[f]
				}
			}
			out.Append(expanded)
		}
	}
	return out
}

// DropDuplicates removes rows whose every cell equals an earlier row's,
// keeping the first occurrence.
func DropDuplicates(t Table) Table {
	seen := make(map[string]bool, len(t.Rows))
	out := Table{Columns: t.Columns}
	for _, row := range t.Rows {
		key := rowKey(t.Columns, row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Append(row)
	}
	return out
}

// DropNA removes rows with a missing value in any column. Nil, absent,
// and empty-string cells all count as missing.
func DropNA(t Table) Table {
	out := Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if complete(t.Columns, row) {
			out.Append(row)
		}
	}
	return out
}

func complete(columns []string, row Row) bool {
	for _, col := range columns {
		v, ok := row[col]
		if !ok || v == nil {
			return false
		}
		if s, isStr := v.(string); isStr && s == "" {
			return false
		}
	}
	return true
}

func rowKey(columns []string, row Row) string {
	var b strings.Builder
	for _, col := range columns {
		fmt.Fprintf(&b, "%v\x1f", row[col])
	}
	return b.String()
}
