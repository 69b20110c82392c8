// Package portfolio selects solver portfolios that minimize the mean runtime
// of the fastest member per instance.
//
// Subsets of size one and two are scored exhaustively. Larger subsets are
// found by beam search: only the best BeamWidth subsets of size k-1 are
// extended by one solver, so a subset whose smaller prefixes all fell out of
// the beam is never considered. Exhaustive mode scores every subset at every
// size and is meant for small universes and for cross-checking the beam.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBeamWidth = 10

	// scoring work is handed to workers in chunks of this many subsets
	chunkSize = 64
)

// Options configures a Search.
type Options struct {
	MaxK       int
	BeamWidth  int
	Workers    int
	Exhaustive bool
	Progress   func(Generation)
}

// Option modifies Options.
type Option func(*Options)

// WithBeamWidth sets how many subsets survive each generation.
func WithBeamWidth(w int) Option { return func(o *Options) { o.BeamWidth = w } }

// WithWorkers sets the number of goroutines scoring one generation.
func WithWorkers(n int) Option { return func(o *Options) { o.Workers = n } }

// WithExhaustive makes every generation enumerate all subsets of its size.
func WithExhaustive(on bool) Option { return func(o *Options) { o.Exhaustive = on } }

// WithProgress registers a callback invoked after each generation.
func WithProgress(f func(Generation)) Option { return func(o *Options) { o.Progress = f } }

type candidate struct {
	members []int // ascending solver indices
	score   float64
}

// Search is one portfolio search over a fixed matrix. It is not safe for
// concurrent use.
type Search struct {
	m      *Matrix
	opts   Options
	gens   [][]candidate
	scored *xsync.Counter
}

// NewSearch validates the parameters of a search up to portfolio size maxK.
func NewSearch(m *Matrix, maxK int, opts ...Option) (*Search, error) {
	o := Options{
		MaxK:      maxK,
		BeamWidth: DefaultBeamWidth,
		Workers:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil || len(m.solvers) == 0 || m.Rows() == 0 {
		return nil, ErrEmptyInput
	}
	if o.MaxK < 1 || o.MaxK > len(m.solvers) {
		return nil, fmt.Errorf("%w: max k %d with %d solvers", ErrInvalidPortfolioSize, o.MaxK, len(m.solvers))
	}
	if o.BeamWidth < 1 {
		return nil, fmt.Errorf("%w: beam width %d", ErrInvalidOption, o.BeamWidth)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return &Search{m: m, opts: o, scored: xsync.NewCounter()}, nil
}

// Options returns the effective search options.
func (s *Search) Options() Options { return s.opts }

// Scored returns how many subsets have been scored so far.
func (s *Search) Scored() int64 { return s.scored.Value() }

// Run computes generations 1..MaxK, replacing earlier results. On error no
// partial generation is kept.
func (s *Search) Run(ctx context.Context) error {
	s.gens = nil
	n := len(s.m.solvers)
	for k := 1; k <= s.opts.MaxK; k++ {
		var subsets [][]int
		if k <= 2 || s.opts.Exhaustive {
			subsets = combinations(n, k)
		} else {
			subsets = extend(s.gens[k-2], n)
		}

		gen, err := s.scoreAll(ctx, subsets)
		if err != nil {
			return fmt.Errorf("failed to score generation %d: %w", k, err)
		}
		slices.SortStableFunc(gen, func(a, b candidate) int {
			return compareScores(a.score, b.score)
		})
		if len(gen) > s.opts.BeamWidth {
			gen = gen[:s.opts.BeamWidth]
		}
		s.gens = append(s.gens, gen)

		slog.Debug("scored generation", "k", k, "subsets", len(subsets), "best", gen[0].score)
		if s.opts.Progress != nil {
			g := s.generation(k)
			g.Scored = len(subsets)
			s.opts.Progress(g)
		}
	}
	return nil
}

func (s *Search) scoreAll(ctx context.Context, subsets [][]int) ([]candidate, error) {
	res := make([]candidate, len(subsets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for start := 0; start < len(subsets); start += chunkSize {
		end := min(start+chunkSize, len(subsets))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				res[i] = candidate{members: subsets[i], score: s.m.score(subsets[i])}
			}
			s.scored.Add(int64(end - start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// compareScores orders ascending with NaN last.
func compareScores(a, b float64) int {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return 0
	case math.IsNaN(a):
		return 1
	case math.IsNaN(b):
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// combinations enumerates k-subsets of 0..n-1 in lexicographic order.
func combinations(n, k int) [][]int {
	var res [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		res = append(res, slices.Clone(idx))
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return res
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// extend adds every missing solver to each parent, in parent order, keeping
// the first occurrence of each resulting set.
func extend(parents []candidate, n int) [][]int {
	seen := mapset.NewThreadUnsafeSet[string]()
	var res [][]int
	for _, p := range parents {
		members := mapset.NewThreadUnsafeSet(p.members...)
		for j := 0; j < n; j++ {
			if members.Contains(j) {
				continue
			}
			child := append(slices.Clone(p.members), j)
			slices.Sort(child)
			if !seen.Add(subsetKey(child)) {
				continue
			}
			res = append(res, child)
		}
	}
	return res
}

func subsetKey(idx []int) string {
	var b strings.Builder
	for i, j := range idx {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(j))
	}
	return b.String()
}
