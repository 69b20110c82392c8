package portfolio

import (
	"fmt"
	"math"
	"slices"

	"github.com/programme-lv/portfolio/internal/runtimes"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Matrix holds penalized runtimes of the solver universe, one column per
// solver and one row per instance.
type Matrix struct {
	solvers []string
	data    *mat.Dense
}

// NewMatrix reads the solver columns of a cleaned runtime table. The columns
// must already be numeric.
func NewMatrix(t *runtimes.Table, solvers []string) (*Matrix, error) {
	cols := make([][]float64, len(solvers))
	for i, s := range solvers {
		values, err := t.Floats(s)
		if err != nil {
			return nil, err
		}
		cols[i] = values
	}
	return NewMatrixFromColumns(solvers, cols)
}

// NewMatrixFromColumns builds a matrix from per-solver runtime columns.
func NewMatrixFromColumns(solvers []string, cols [][]float64) (*Matrix, error) {
	if len(solvers) == 0 {
		return nil, fmt.Errorf("%w: no solvers", ErrEmptyInput)
	}
	if len(cols) != len(solvers) {
		return nil, fmt.Errorf("%w: %d solvers but %d columns", ErrInvalidOption, len(solvers), len(cols))
	}
	rows := len(cols[0])
	if rows == 0 {
		return nil, fmt.Errorf("%w: no instances", ErrEmptyInput)
	}
	data := mat.NewDense(rows, len(cols), nil)
	for i, c := range cols {
		if len(c) != rows {
			return nil, fmt.Errorf("%w: solver %q has %d rows, expected %d", ErrInvalidOption, solvers[i], len(c), rows)
		}
		if slices.Index(solvers, solvers[i]) != i {
			return nil, fmt.Errorf("%w: duplicate solver %q", ErrInvalidOption, solvers[i])
		}
		data.SetCol(i, c)
	}
	return &Matrix{solvers: slices.Clone(solvers), data: data}, nil
}

// Solvers returns the solver universe in column order.
func (m *Matrix) Solvers() []string { return slices.Clone(m.solvers) }

// Rows returns the number of instances.
func (m *Matrix) Rows() int {
	r, _ := m.data.Dims()
	return r
}

// Column returns a copy of the runtimes of one solver.
func (m *Matrix) Column(solver string) ([]float64, error) {
	j := slices.Index(m.solvers, solver)
	if j < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, solver)
	}
	return mat.Col(nil, j, m.data), nil
}

// Score returns the mean over instances of the fastest member runtime.
func (m *Matrix) Score(members ...string) (float64, error) {
	if len(members) == 0 {
		return 0, fmt.Errorf("%w: empty portfolio", ErrInvalidPortfolioSize)
	}
	idx := make([]int, len(members))
	for i, s := range members {
		j := slices.Index(m.solvers, s)
		if j < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, s)
		}
		idx[i] = j
	}
	return m.score(idx), nil
}

// score skips NaN cells; instances without any member value are left out of
// the mean. A portfolio with no scorable instance scores NaN.
func (m *Matrix) score(idx []int) float64 {
	rows := m.Rows()
	best := make([]float64, 0, rows)
	cells := make([]float64, 0, len(idx))
	for r := 0; r < rows; r++ {
		row := m.data.RawRowView(r)
		cells = cells[:0]
		for _, j := range idx {
			if !math.IsNaN(row[j]) {
				cells = append(cells, row[j])
			}
		}
		if len(cells) == 0 {
			continue
		}
		best = append(best, floats.Min(cells))
	}
	if len(best) == 0 {
		return math.NaN()
	}
	return stat.Mean(best, nil)
}

func (m *Matrix) names(idx []int) []string {
	res := make([]string, len(idx))
	for i, j := range idx {
		res[i] = m.solvers[j]
	}
	return res
}
