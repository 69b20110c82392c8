package evaluator

import (
	"context"
	"fmt"
	"math"

	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/portfolio"
	"github.com/programme-lv/portfolio/internal/preprocess"
	"github.com/programme-lv/portfolio/internal/runtimes"
	"github.com/programme-lv/portfolio/internal/scores"
)

// Options are the cleaning and search defaults.
type Options struct {
	preprocess.Options
	BeamWidth int
}

func DefaultOptions() Options {
	return Options{Options: preprocess.DefaultOptions(), BeamWidth: portfolio.DefaultBeamWidth}
}

func cleaning(req api.SearchReq) preprocess.Options {
	return preprocess.Options{
		MaxRuntime:   req.MaxRuntime,
		Penalty:      req.Penalty,
		MinGroupSize: req.MinGroupSize,
		Bucket:       preprocess.DefaultBucket,
	}
}

// Search evaluates one request. Every failure is reported to gath through
// InternalError and returned.
func (e *Evaluator) Search(ctx context.Context, gath internal.ResultGatherer, req api.SearchReq) error {
	req = WithDefaults(req)
	fail := func(err error) error {
		gath.InternalError(err.Error())
		return err
	}
	if len(req.Solvers) == 0 {
		return fail(fmt.Errorf("%w: no solvers", portfolio.ErrEmptyInput))
	}
	if req.NBest > req.BeamWidth {
		return fail(fmt.Errorf("%w: n best %d with beam width %d", portfolio.ErrInvalidOption, req.NBest, req.BeamWidth))
	}

	cat, err := e.Load(ctx, req.Sources, req.Key)
	if err != nil {
		return fail(fmt.Errorf("failed to load runtime tables: %w", err))
	}
	df, err := preprocess.RetrievePenalized(cat, req.Solvers, req.Groups, req.Query, cleaning(req))
	if err != nil {
		return fail(fmt.Errorf("failed to retrieve runtimes: %w", err))
	}
	vbs, err := vbsScore(cat, req)
	if err != nil {
		return fail(fmt.Errorf("failed to compute virtual best solver: %w", err))
	}

	m, err := portfolio.NewMatrix(df, req.Solvers)
	if err != nil {
		return fail(err)
	}
	s, err := portfolio.NewSearch(m, req.MaxK,
		portfolio.WithBeamWidth(req.BeamWidth),
		portfolio.WithExhaustive(req.Exhaustive),
		portfolio.WithWorkers(e.workers),
		portfolio.WithProgress(gath.FinishGeneration),
	)
	if err != nil {
		return fail(err)
	}

	gath.StartSearch(internal.SearchInfo{
		Instances:  m.Rows(),
		Solvers:    m.Solvers(),
		MaxK:       req.MaxK,
		BeamWidth:  req.BeamWidth,
		Exhaustive: req.Exhaustive,
		VbsScore:   vbs,
	})
	if err := s.Run(ctx); err != nil {
		return fail(err)
	}
	records, err := s.Records(req.NBest)
	if err != nil {
		return fail(err)
	}
	gath.Report(records)
	gath.FinishNoError()
	return nil
}

func vbsScore(src *runtimes.Catalog, req api.SearchReq) (float64, error) {
	t, err := preprocess.RetrieveVBS(src, req.VbsSolvers, req.Query, cleaning(req))
	if err != nil {
		return math.NaN(), err
	}
	means, err := scores.Means(t, []string{preprocess.VbsColumn})
	if err != nil {
		return math.NaN(), err
	}
	return means[preprocess.VbsColumn], nil
}

// GroupScores loads and cleans the request's runtimes and returns the
// group-wise score table over group, with the virtual best solver as an extra
// column. The returned columns are the solvers followed by the VBS.
func (e *Evaluator) GroupScores(ctx context.Context, req api.SearchReq, group string, sortBy scores.SortKey) ([]scores.GroupRow, []string, error) {
	req = WithDefaults(req)
	cat, err := e.Load(ctx, req.Sources, req.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load runtime tables: %w", err)
	}
	opts := cleaning(req)
	p, err := preprocess.New(cat, req.Query, append([]string{group}, req.Solvers...))
	if err != nil {
		return nil, nil, err
	}
	df, err := p.Numeric(req.Solvers...).
		Remainder(group, opts.MinGroupSize, opts.Bucket).
		Penalize(req.Solvers, opts.MaxRuntime, opts.Penalty).
		VBS(req.VbsSolvers...).
		Table()
	if err != nil {
		return nil, nil, err
	}
	rows, err := scores.GroupWise(df, group, req.Solvers, []string{preprocess.VbsColumn}, sortBy)
	if err != nil {
		return nil, nil, err
	}
	return rows, append(append([]string{}, req.Solvers...), preprocess.VbsColumn), nil
}
