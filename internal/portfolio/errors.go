package portfolio

import (
	"errors"

	"github.com/programme-lv/portfolio/internal/runtimes"
)

var (
	// ErrEmptyInput indicates a search without candidate solvers or rows.
	ErrEmptyInput = errors.New("portfolio: no candidate solvers or no instances")
	// ErrInvalidPortfolioSize indicates a portfolio size outside 1..|solvers|.
	ErrInvalidPortfolioSize = errors.New("portfolio: invalid portfolio size")
	// ErrNotComputed indicates a query for a generation that was not generated.
	ErrNotComputed = errors.New("portfolio: generation not computed")
	// ErrInvalidOption indicates bad search or reporting parameters.
	ErrInvalidOption = errors.New("portfolio: invalid option")
	// ErrMissingColumn indicates a solver absent from the runtime table.
	ErrMissingColumn = runtimes.ErrMissingColumn
)
