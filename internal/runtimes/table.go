package runtimes

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// DefaultKey is the instance identifier column used by benchmark databases.
const DefaultKey = "hash"

// EmptyValue is the cell value used for instances that have no value for a feature.
const EmptyValue = "empty"

// Column holds one named column of a Table. Exactly one of Text or Num is in use.
type Column struct {
	Name    string
	Text    []string
	Num     []float64
	numeric bool
}

// IsNumeric reports whether the column stores parsed numbers.
func (c *Column) IsNumeric() bool {
	return c.numeric
}

func (c *Column) clone() *Column {
	return &Column{
		Name:    c.Name,
		Text:    slices.Clone(c.Text),
		Num:     slices.Clone(c.Num),
		numeric: c.numeric,
	}
}

// Table is a runtime table keyed by instance id. Rows keep insertion order.
type Table struct {
	key   string
	keys  []string
	index map[string]int
	order []string
	cols  map[string]*Column
}

// NewTable creates a table with the given key column name and instance ids.
func NewTable(key string, keys []string) (*Table, error) {
	t := &Table{
		key:   key,
		keys:  slices.Clone(keys),
		index: make(map[string]int, len(keys)),
		cols:  make(map[string]*Column),
	}
	for i, k := range keys {
		if _, ok := t.index[k]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		t.index[k] = i
	}
	return t, nil
}

// Key returns the name of the instance id column.
func (t *Table) Key() string { return t.key }

// Keys returns a copy of the instance ids in row order.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.keys) }

// Columns returns the column names in insertion order, without the key column.
func (t *Table) Columns() []string { return slices.Clone(t.order) }

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := t.cols[n]; !ok {
			return false
		}
	}
	return true
}

// Row returns the row index of the instance id, or -1.
func (t *Table) Row(key string) int {
	i, ok := t.index[key]
	if !ok {
		return -1
	}
	return i
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	c, ok := t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return c, nil
}

// SetText adds or replaces a text column.
func (t *Table) SetText(name string, values []string) error {
	if len(values) != len(t.keys) {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows",
			ErrLength, name, len(values), len(t.keys))
	}
	t.put(&Column{Name: name, Text: slices.Clone(values)})
	return nil
}

// SetFloats adds or replaces a numeric column.
func (t *Table) SetFloats(name string, values []float64) error {
	if len(values) != len(t.keys) {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows",
			ErrLength, name, len(values), len(t.keys))
	}
	t.put(&Column{Name: name, Num: slices.Clone(values), numeric: true})
	return nil
}

func (t *Table) put(c *Column) {
	if _, ok := t.cols[c.Name]; !ok {
		t.order = append(t.order, c.Name)
	}
	t.cols[c.Name] = c
}

// Floats returns a copy of a numeric column.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.numeric {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return slices.Clone(c.Num), nil
}

// Strings returns the column as text. Numeric cells are formatted, NaN becomes "".
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.numeric {
		return slices.Clone(c.Text), nil
	}
	res := make([]string, len(c.Num))
	for i, v := range c.Num {
		res[i] = FormatFloat(v)
	}
	return res, nil
}

// Cell returns the text form of a single cell.
func (t *Table) Cell(name string, row int) (string, error) {
	c, err := t.Column(name)
	if err != nil {
		return "", err
	}
	if c.numeric {
		return FormatFloat(c.Num[row]), nil
	}
	return c.Text[row], nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	res := &Table{
		key:   t.key,
		keys:  slices.Clone(t.keys),
		index: make(map[string]int, len(t.index)),
		order: slices.Clone(t.order),
		cols:  make(map[string]*Column, len(t.cols)),
	}
	for k, i := range t.index {
		res.index[k] = i
	}
	for n, c := range t.cols {
		res.cols[n] = c.clone()
	}
	return res
}

// Select returns a copy holding only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	res, err := NewTable(t.key, t.keys)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		res.put(c.clone())
	}
	return res, nil
}

// Drop returns a copy without the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) *Table {
	keep := make([]string, 0, len(t.order))
	for _, n := range t.order {
		if !slices.Contains(names, n) {
			keep = append(keep, n)
		}
	}
	res, _ := t.Select(keep...)
	return res
}

// Where returns a copy holding only the rows for which keep returns true.
func (t *Table) Where(keep func(row int) bool) *Table {
	rows := make([]int, 0, len(t.keys))
	for i := range t.keys {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.rows(rows)
}

func (t *Table) rows(rows []int) *Table {
	keys := make([]string, len(rows))
	for j, i := range rows {
		keys[j] = t.keys[i]
	}
	res, _ := NewTable(t.key, keys)
	for _, n := range t.order {
		c := t.cols[n]
		nc := &Column{Name: n, numeric: c.numeric}
		if c.numeric {
			nc.Num = make([]float64, len(rows))
			for j, i := range rows {
				nc.Num[j] = c.Num[i]
			}
		} else {
			nc.Text = make([]string, len(rows))
			for j, i := range rows {
				nc.Text[j] = c.Text[i]
			}
		}
		res.put(nc)
	}
	return res
}

// LeftJoin returns a copy of t extended with the named columns of other, matched
// on the instance id. Rows of t missing from other get NaN or EmptyValue.
func (t *Table) LeftJoin(other *Table, names ...string) (*Table, error) {
	res := t.Clone()
	for _, n := range names {
		c, err := other.Column(n)
		if err != nil {
			return nil, err
		}
		nc := &Column{Name: n, numeric: c.numeric}
		if c.numeric {
			nc.Num = make([]float64, len(t.keys))
		} else {
			nc.Text = make([]string, len(t.keys))
		}
		for i, k := range t.keys {
			j := other.Row(k)
			switch {
			case c.numeric && j < 0:
				nc.Num[i] = math.NaN()
			case c.numeric:
				nc.Num[i] = c.Num[j]
			case j < 0:
				nc.Text[i] = EmptyValue
			default:
				nc.Text[i] = c.Text[j]
			}
		}
		res.put(nc)
	}
	return res, nil
}

// FormatFloat renders a runtime value the way it is read back by ParseFloat.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseFloat parses a runtime cell. Cells that are not numbers yield NaN.
func ParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
