package preprocess

import (
	"github.com/programme-lv/portfolio/internal/runtimes"
)

// Options configures the standard cleaning pipeline.
type Options struct {
	MaxRuntime   float64
	Penalty      float64
	MinGroupSize int
	Bucket       string
}

// DefaultOptions returns the settings used for SAT competition results.
func DefaultOptions() Options {
	return Options{
		MaxRuntime:   DefaultMaxRuntime,
		Penalty:      DefaultPenalty,
		MinGroupSize: DefaultMinGroupSize,
		Bucket:       DefaultBucket,
	}
}

// RetrievePenalized returns solver runtimes and group features for the rows
// matching query, with numeric solver columns, collapsed small groups and
// penalized runtimes.
func RetrievePenalized(src runtimes.Source, solvers []string, groups []string, query string, opts Options) (*runtimes.Table, error) {
	features := append(append([]string{}, groups...), solvers...)
	p, err := New(src, query, features)
	if err != nil {
		return nil, err
	}
	p = p.Numeric(solvers...)
	for _, g := range groups {
		p = p.Remainder(g, opts.MinGroupSize, opts.Bucket)
	}
	return p.Penalize(solvers, opts.MaxRuntime, opts.Penalty).Table()
}

// RetrieveVBS returns a table holding only the VbsColumn over solvers for the
// rows matching query.
func RetrieveVBS(src runtimes.Source, solvers []string, query string, opts Options) (*runtimes.Table, error) {
	p, err := New(src, query, solvers)
	if err != nil {
		return nil, err
	}
	t, err := p.Numeric(solvers...).Penalize(solvers, opts.MaxRuntime, opts.Penalty).VBS(solvers...).Table()
	if err != nil {
		return nil, err
	}
	return t.Drop(solvers...), nil
}
