package runtimes

import (
	"fmt"
	"slices"
)

// Source retrieves runtime tables. Implementations must return a fresh table
// on every call; callers own and may modify the result.
type Source interface {
	// Features lists every retrievable column except the key.
	Features() []string
	// Query returns the rows matching query with the requested feature columns.
	Query(query string, features []string) (*Table, error)
}

// Catalog is a Source over several tables that share the key column, for
// example instance metadata in one file and solver results in another.
type Catalog struct {
	key    string
	tables []*Table
}

// NewCatalog creates a catalog. Every table must use key as its key column.
func NewCatalog(key string, tables ...*Table) (*Catalog, error) {
	for i, t := range tables {
		if t.Key() != key {
			return nil, fmt.Errorf("table %d is keyed by %q, catalog by %q", i, t.Key(), key)
		}
	}
	return &Catalog{key: key, tables: tables}, nil
}

// Key returns the instance id column name.
func (c *Catalog) Key() string { return c.key }

// Features implements Source. Columns present in several tables are listed once.
func (c *Catalog) Features() []string {
	var res []string
	for _, t := range c.tables {
		for _, n := range t.Columns() {
			if !slices.Contains(res, n) {
				res = append(res, n)
			}
		}
	}
	return res
}

func (c *Catalog) owner(feature string) (int, error) {
	for i, t := range c.tables {
		if t.Has(feature) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrMissingColumn, feature)
}

// Query implements Source. The instances are those of the earliest table in
// the catalog that provides a needed feature; columns from other tables are
// left-joined, so instances unknown to them read EmptyValue.
func (c *Catalog) Query(query string, features []string) (*Table, error) {
	filter, err := ParseFilter(query)
	if err != nil {
		return nil, err
	}

	needed := slices.Clone(features)
	for _, f := range filter.Features() {
		if !slices.Contains(needed, f) {
			needed = append(needed, f)
		}
	}
	if len(c.tables) == 0 {
		if len(needed) > 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, needed[0])
		}
		return NewTable(c.key, nil)
	}

	owners := make(map[int][]string)
	base := -1
	for _, f := range needed {
		i, err := c.owner(f)
		if err != nil {
			return nil, err
		}
		if base < 0 || i < base {
			base = i
		}
		owners[i] = append(owners[i], f)
	}
	if base < 0 {
		base = 0
	}

	res, err := c.tables[base].Select(owners[base]...)
	if err != nil {
		return nil, err
	}
	for i, cols := range owners {
		if i == base {
			continue
		}
		res, err = res.LeftJoin(c.tables[i], cols...)
		if err != nil {
			return nil, err
		}
	}

	res, err = filter.Apply(res)
	if err != nil {
		return nil, err
	}
	return res.Select(features...)
}
