// Package dataset holds the in-memory sales table shared by the pipeline
// stages: ordered, equal-length columns of typed nullable cells.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is a named sequence of cells.
type Column struct {
	Name   string
	Values []Value
}

// Defined counts the non-null cells.
func (c *Column) Defined() int {
	n := 0
	for _, v := range c.Values {
		if !v.IsNull() {
			n++
		}
	}
	return n
}

// Kind returns the common kind of the non-null cells. Mixed columns report
// KindString and all-null columns report KindNull.
func (c *Column) Kind() Kind {
	kind := KindNull
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		switch {
		case kind == KindNull:
			kind = v.Kind()
		case kind != v.Kind():
			return KindString
		}
	}
	return kind
}

// Dataset is an ordered set of equal-length columns.
type Dataset struct {
	columns []*Column
	rows    int
}

// New returns an empty dataset with the given row count.
func New(rows int) *Dataset {
	return &Dataset{rows: rows}
}

// FromRecords builds a dataset of string cells from a header and data rows.
// Cells matching a null token load as null, short rows are padded with
// nulls and extra cells are dropped. Repeated header labels get a ".N"
// suffix so every column name is unique.
func FromRecords(header []string, rows [][]string) *Dataset {
	d := &Dataset{rows: len(rows)}
	for i, name := range uniqueLabels(header) {
		values := make([]Value, len(rows))
		for r, row := range rows {
			if i < len(row) && !IsNullToken(row[i]) {
				values[r] = String(row[i])
			}
		}
		d.columns = append(d.columns, &Column{Name: name, Values: values})
	}
	return d
}

func uniqueLabels(header []string) []string {
	seen := make(map[string]int, len(header))
	for _, h := range header {
		seen[h] = 0
	}
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := h
		for used[name] {
			seen[h]++
			name = h + "." + strconv.Itoa(seen[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.columns) }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns
// are shared.
func (d *Dataset) Columns() []*Column {
	return append([]*Column(nil), d.columns...)
}

func (d *Dataset) index(name string) int {
	for i, c := range d.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether a column is present.
func (d *Dataset) Has(name string) bool { return d.index(name) >= 0 }

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, bool) {
	i := d.index(name)
	if i < 0 {
		return nil, false
	}
	return d.columns[i], true
}

// Set replaces the values of an existing column or appends a new one. The
// value count must match Len.
func (d *Dataset) Set(name string, values []Value) {
	if len(values) != d.rows {
		panic(fmt.Sprintf("dataset: column %q has %d values, want %d", name, len(values), d.rows))
	}
	if i := d.index(name); i >= 0 {
		d.columns[i].Values = values
		return
	}
	d.columns = append(d.columns, &Column{Name: name, Values: values})
}

// Rename moves column from to the label to. When to already names another
// column, that slot keeps its position and takes the content of from,
// and from is removed. It reports whether from existed.
func (d *Dataset) Rename(from, to string) bool {
	src := d.index(from)
	if src < 0 {
		return false
	}
	if from == to {
		return true
	}
	dst := d.index(to)
	if dst < 0 {
		d.columns[src].Name = to
		return true
	}
	d.columns[dst].Values = d.columns[src].Values
	d.columns = append(d.columns[:src], d.columns[src+1:]...)
	return true
}

// Relabel applies fn to every column name. Columns whose new labels
// collide share the slot of the first one, holding the content of the
// last one.
func (d *Dataset) Relabel(fn func(string) string) {
	out := make([]*Column, 0, len(d.columns))
	slot := make(map[string]int, len(d.columns))
	for _, c := range d.columns {
		name := fn(c.Name)
		if i, ok := slot[name]; ok {
			out[i].Values = c.Values
			continue
		}
		slot[name] = len(out)
		out = append(out, &Column{Name: name, Values: c.Values})
	}
	d.columns = out
}

// Row returns the cells of row i in column order.
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// RowKey encodes row i so that two rows share a key exactly when every
// cell is equal.
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	for _, c := range d.columns {
		b.WriteString(c.Values[i].key())
	}
	return b.String()
}

// Keep retains only the given rows, in the given order.
func (d *Dataset) Keep(rows []int) {
	for _, c := range d.columns {
		kept := make([]Value, len(rows))
		for i, r := range rows {
			kept[i] = c.Values[r]
		}
		c.Values = kept
	}
	d.rows = len(rows)
}

// Records renders the dataset as a header row followed by formatted rows.
func (d *Dataset) Records() [][]string {
	out := make([][]string, 0, d.rows+1)
	out = append(out, d.Names())
	for i := range d.rows {
		rec := make([]string, len(d.columns))
		for j, c := range d.columns {
			rec[j] = c.Values[i].String()
		}
		out = append(out, rec)
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{rows: d.rows, columns: make([]*Column, len(d.columns))}
	for i, c := range d.columns {
		out.columns[i] = &Column{Name: c.Name, Values: append([]Value(nil), c.Values...)}
	}
	return out
}
