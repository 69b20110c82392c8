package scores

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/programme-lv/portfolio/internal/runtimes"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AllGroup labels the row summarizing every instance.
const AllGroup = "all"

// SortKey selects the column group-wise tables are ordered by, descending.
type SortKey string

const (
	ByCount SortKey = "count"
	ByDiff  SortKey = "diff"
	ByQuot  SortKey = "quot"
	ByDiff2 SortKey = "diff2"
	ByQuot2 SortKey = "quot2"
)

var ErrSortKey = errors.New("scores: unknown sort key")

// Means returns the mean of each numeric column, skipping NaN cells.
func Means(t *runtimes.Table, columns []string) (map[string]float64, error) {
	res := make(map[string]float64, len(columns))
	for _, c := range columns {
		values, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		res[c] = mean(values)
	}
	return res, nil
}

// GroupRow is one line of a group-wise score table.
type GroupRow struct {
	Group string
	Count int
	Means map[string]float64

	// spread of the solver means: max-min, max/min, median-min, median/min
	Diff  float64
	Quot  float64
	Diff2 float64
	Quot2 float64
}

func (r GroupRow) key(k SortKey) float64 {
	switch k {
	case ByCount:
		return float64(r.Count)
	case ByDiff:
		return r.Diff
	case ByQuot:
		return r.Quot
	case ByDiff2:
		return r.Diff2
	default:
		return r.Quot2
	}
}

// GroupWise computes per-group instance counts and column means, sorted
// descending by sortBy, followed by an AllGroup row over every instance.
// The spread columns are computed over solvers; extra columns such as the
// VBS are averaged but do not take part in them.
func GroupWise(t *runtimes.Table, group string, solvers []string, extra []string, sortBy SortKey) ([]GroupRow, error) {
	if !slices.Contains([]SortKey{ByCount, ByDiff, ByQuot, ByDiff2, ByQuot2}, sortBy) {
		return nil, fmt.Errorf("%w: %q", ErrSortKey, sortBy)
	}
	labels, err := t.Strings(group)
	if err != nil {
		return nil, err
	}
	columns := append(slices.Clone(solvers), extra...)
	values := make(map[string][]float64, len(columns))
	for _, c := range columns {
		v, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		values[c] = v
	}

	var order []string
	rowsOf := make(map[string][]int)
	for i, l := range labels {
		if _, ok := rowsOf[l]; !ok {
			order = append(order, l)
		}
		rowsOf[l] = append(rowsOf[l], i)
	}
	slices.Sort(order)

	row := func(name string, rows []int) GroupRow {
		r := GroupRow{Group: name, Count: len(rows), Means: make(map[string]float64, len(columns))}
		for _, c := range columns {
			sel := make([]float64, len(rows))
			for j, i := range rows {
				sel[j] = values[c][i]
			}
			r.Means[c] = mean(sel)
		}
		r.spread(solvers)
		return r
	}

	res := make([]GroupRow, 0, len(order)+1)
	for _, l := range order {
		res = append(res, row(l, rowsOf[l]))
	}
	slices.SortStableFunc(res, func(a, b GroupRow) int {
		return compareDesc(a.key(sortBy), b.key(sortBy))
	})

	all := make([]int, t.Len())
	for i := range all {
		all[i] = i
	}
	return append(res, row(AllGroup, all)), nil
}

func (r *GroupRow) spread(solvers []string) {
	if len(solvers) == 0 {
		return
	}
	means := make([]float64, 0, len(solvers))
	for _, s := range solvers {
		if m := r.Means[s]; !math.IsNaN(m) {
			means = append(means, m)
		}
	}
	if len(means) == 0 {
		r.Diff, r.Quot, r.Diff2, r.Quot2 = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return
	}
	lo, hi, med := floats.Min(means), floats.Max(means), median(means)
	r.Diff = hi - lo
	r.Quot = hi / lo
	r.Diff2 = med - lo
	r.Quot2 = med / lo
}

// compareDesc orders descending with NaN last.
func compareDesc(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func present(values []float64) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			res = append(res, v)
		}
	}
	return res
}

func mean(values []float64) float64 {
	v := present(values)
	if len(v) == 0 {
		return math.NaN()
	}
	return stat.Mean(v, nil)
}

// median averages the two middle values of an even-sized sample.
func median(values []float64) float64 {
	s := slices.Clone(values)
	slices.Sort(s)
	n := len(s)
	return stat.Mean(s[(n-1)/2:n/2+1], nil)
}
