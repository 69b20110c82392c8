// Package evaluator runs search requests: it loads the runtime tables,
// cleans them, searches for portfolios and reports every step to a
// ResultGatherer.
package evaluator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal/filestore"
	"github.com/programme-lv/portfolio/internal/runtimes"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxK = 3

var (
	ErrNoSources   = errors.New("request lists no runtime tables")
	ErrBadSource   = errors.New("source needs content, a path, or a url with sha256")
	ErrNoFileStore = errors.New("remote sources need a file store")
)

type Evaluator struct {
	files   *filestore.FileStore
	workers int
}

// NewEvaluator creates an evaluator. files may be nil when every source is
// local.
func NewEvaluator(files *filestore.FileStore) *Evaluator {
	return &Evaluator{files: files, workers: runtime.GOMAXPROCS(0)}
}

// SetWorkers sets how many goroutines score one generation.
func (e *Evaluator) SetWorkers(n int) {
	e.workers = max(n, 1)
}

// WithDefaults fills unset request fields.
func WithDefaults(req api.SearchReq) api.SearchReq {
	if req.Key == "" {
		req.Key = runtimes.DefaultKey
	}
	if req.MaxRuntime == 0 {
		req.MaxRuntime = DefaultOptions().MaxRuntime
	}
	if req.Penalty == 0 {
		req.Penalty = DefaultOptions().Penalty
	}
	if req.MinGroupSize == 0 {
		req.MinGroupSize = DefaultOptions().MinGroupSize
	}
	if req.MaxK == 0 {
		req.MaxK = min(DefaultMaxK, len(req.Solvers))
	}
	if req.BeamWidth == 0 {
		req.BeamWidth = DefaultOptions().BeamWidth
	}
	if req.NBest == 0 {
		req.NBest = 1
	}
	if len(req.VbsSolvers) == 0 {
		req.VbsSolvers = req.Solvers
	}
	return req
}

// Load reads every source and joins them into a catalog on key. Remote
// sources are scheduled before any table is parsed.
func (e *Evaluator) Load(ctx context.Context, sources []api.Source, key string) (*runtimes.Catalog, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	for i, src := range sources {
		if src.Content != nil || src.Path != nil {
			continue
		}
		if src.Url == nil || src.Sha256 == nil {
			return nil, fmt.Errorf("source %d: %w", i+1, ErrBadSource)
		}
		if e.files == nil {
			return nil, fmt.Errorf("source %d: %w", i+1, ErrNoFileStore)
		}
		if err := e.files.Schedule(*src.Sha256, *src.Url); err != nil {
			return nil, fmt.Errorf("failed to schedule file for download: %w", err)
		}
	}

	tables := make([]*runtimes.Table, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			t, err := e.load(ctx, src, key)
			if err != nil {
				return fmt.Errorf("source %d: %w", i+1, err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runtimes.NewCatalog(key, tables...)
}

func (e *Evaluator) load(ctx context.Context, src api.Source, key string) (*runtimes.Table, error) {
	switch {
	case src.Content != nil:
		return runtimes.ReadCSV(strings.NewReader(*src.Content), key)
	case src.Path != nil:
		return runtimes.Open(*src.Path, key)
	}
	data, err := e.files.Await(ctx, *src.Sha256)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded remote table", "url", *src.Url, "bytes", len(data))
	return runtimes.ReadCSV(bytes.NewReader(data), key)
}
