package portfolio

import (
	"fmt"
	"slices"
)

// Portfolio is a scored solver subset. Values returned by a Search are copies.
type Portfolio struct {
	Solvers []string
	Score   float64
}

// Generation holds the retained portfolios of one size, best first.
type Generation struct {
	K          int
	Portfolios []Portfolio
	// Scored is the number of unique subsets scored for this size. It is only
	// set on generations passed to the progress callback.
	Scored int
}

// Record is one reported portfolio.
type Record struct {
	K         int
	Portfolio []string
	Score     float64
}

func (s *Search) portfolio(c candidate) Portfolio {
	return Portfolio{Solvers: s.m.names(c.members), Score: c.score}
}

func (s *Search) generation(k int) Generation {
	gen := s.gens[k-1]
	res := Generation{K: k, Portfolios: make([]Portfolio, len(gen))}
	for i, c := range gen {
		res.Portfolios[i] = s.portfolio(c)
	}
	return res
}

// Generations returns every computed generation in order of size.
func (s *Search) Generations() []Generation {
	res := make([]Generation, len(s.gens))
	for k := range s.gens {
		res[k] = s.generation(k + 1)
	}
	return res
}

func (s *Search) checkSize(size int) error {
	if size < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPortfolioSize, size)
	}
	if size > len(s.gens) {
		return fmt.Errorf("%w: size %d, generated up to %d: %w", ErrNotComputed, size, len(s.gens), ErrInvalidPortfolioSize)
	}
	return nil
}

// Best returns the best portfolio of the given size.
func (s *Search) Best(size int) (Portfolio, error) {
	if err := s.checkSize(size); err != nil {
		return Portfolio{}, err
	}
	return s.portfolio(s.gens[size-1][0]), nil
}

// Top returns up to n best portfolios of the given size.
func (s *Search) Top(size int, n int) ([]Portfolio, error) {
	if err := s.checkSize(size); err != nil {
		return nil, err
	}
	gen := s.gens[size-1]
	n = min(n, len(gen))
	res := make([]Portfolio, 0, n)
	for _, c := range gen[:n] {
		res = append(res, s.portfolio(c))
	}
	return res, nil
}

// Records returns, for every generated size, the nBest best portfolios. The
// members of each portfolio are ordered by how often they occur across all
// retained portfolios of all sizes, most frequent first; this does not affect
// scores.
func (s *Search) Records(nBest int) ([]Record, error) {
	if nBest < 1 || nBest > s.opts.BeamWidth {
		return nil, fmt.Errorf("%w: n best %d with beam width %d", ErrInvalidOption, nBest, s.opts.BeamWidth)
	}
	if len(s.gens) == 0 {
		return nil, ErrNotComputed
	}

	freq := make([]int, len(s.m.solvers))
	for _, gen := range s.gens {
		for _, c := range gen {
			for _, j := range c.members {
				freq[j]++
			}
		}
	}

	var res []Record
	for k, gen := range s.gens {
		for _, c := range gen[:min(nBest, len(gen))] {
			members := slices.Clone(c.members)
			slices.SortStableFunc(members, func(a, b int) int {
				return freq[b] - freq[a]
			})
			res = append(res, Record{K: k + 1, Portfolio: s.m.names(members), Score: c.score})
		}
	}
	return res, nil
}
