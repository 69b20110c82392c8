package runtimes

import (
	"fmt"
	"regexp"
	"strings"
)

// Condition is a single equality test on a feature value.
type Condition struct {
	Feature string
	Value   string
	Negate  bool
}

// Filter is a conjunction of conditions. The zero Filter matches every row.
type Filter []Condition

var andSep = regexp.MustCompile(`(?i)(^|\s+)and(\s+|$)`)

// ParseFilter parses expressions like "track = main_2023 and family != unknown".
// Only '=' and '!=' terms joined by 'and' are understood. Each term is split at
// its first operator and neither side may contain another one.
func ParseFilter(query string) (Filter, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var res Filter
	for _, term := range andSep.Split(query, -1) {
		c, err := parseCondition(term)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func parseCondition(term string) (Condition, error) {
	var c Condition
	op := strings.IndexAny(term, "!=")
	if op < 0 {
		return c, fmt.Errorf("%w: %q has no operator", ErrBadQuery, term)
	}
	lhs, rhs := term[:op], term[op+1:]
	if term[op] == '!' {
		if !strings.HasPrefix(rhs, "=") {
			return c, fmt.Errorf("%w: %q", ErrBadQuery, term)
		}
		c.Negate = true
		rhs = rhs[1:]
	}
	c.Feature = strings.TrimSpace(lhs)
	c.Value = strings.Trim(strings.TrimSpace(rhs), `"'`)
	if c.Feature == "" || c.Value == "" || strings.ContainsAny(c.Value, "!=") {
		return Condition{}, fmt.Errorf("%w: %q", ErrBadQuery, term)
	}
	return c, nil
}

// Features returns the features the filter reads.
func (f Filter) Features() []string {
	res := make([]string, 0, len(f))
	for _, c := range f {
		res = append(res, c.Feature)
	}
	return res
}

// Apply returns the rows of t that satisfy every condition.
func (f Filter) Apply(t *Table) (*Table, error) {
	if len(f) == 0 {
		return t.Clone(), nil
	}
	cells := make([][]string, len(f))
	for i, c := range f {
		v, err := t.Strings(c.Feature)
		if err != nil {
			return nil, err
		}
		cells[i] = v
	}
	return t.Where(func(row int) bool {
		for i, c := range f {
			if (cells[i][row] == c.Value) == c.Negate {
				return false
			}
		}
		return true
	}), nil
}
