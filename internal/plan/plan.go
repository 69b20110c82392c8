// Package plan reads evaluation plans: TOML files listing runtime tables and
// several search scenarios over them, with optional expected results.
package plan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal/preprocess"
	"github.com/programme-lv/portfolio/internal/runtimes"
)

var ErrExpectation = errors.New("search result differs from expectation")

// SpecSource is one runtime table of the plan. Relative paths are resolved
// against the plan file's directory.
type SpecSource struct {
	Path   string `toml:"path"`
	Url    string `toml:"url"`
	Sha256 string `toml:"sha256"`
}

// SpecExpect names the expected best portfolio of one size.
type SpecExpect struct {
	K    int      `toml:"k"`
	Best []string `toml:"best"`
}

// SpecSearch holds search settings. Zero values fall back to the plan
// defaults and then to the built-in defaults.
type SpecSearch struct {
	Query        string   `toml:"query"`
	Solvers      []string `toml:"solvers"`
	Groups       []string `toml:"groups"`
	VbsSolvers   []string `toml:"vbs_solvers"`
	MaxRuntime   float64  `toml:"max_runtime"`
	Penalty      float64  `toml:"penalty"`
	MinGroupSize int      `toml:"min_group_size"`
	MaxK         int      `toml:"max_k"`
	BeamWidth    int      `toml:"beam_width"`
	NBest        int      `toml:"n_best"`
	Exhaustive   bool     `toml:"exhaustive"`
}

type specScenario struct {
	Description string `toml:"description"`
	SpecSearch
	Expect []SpecExpect `toml:"expect"`
}

type specRoot struct {
	Key       string         `toml:"key"`
	Sources   []SpecSource   `toml:"sources"`
	Defaults  SpecSearch     `toml:"defaults"`
	Scenarios []specScenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML
type Case struct {
	Name    string
	Request api.SearchReq
	Expect  []SpecExpect
}

// Parse reads a plan file and converts it to runnable cases, each with a
// fresh run uuid.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParseBytes(data, filepath.Dir(path))
}

// ParseBytes converts plan data whose relative paths are rooted at dir.
func ParseBytes(data []byte, dir string) ([]Case, error) {
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if len(root.Sources) == 0 {
		return nil, errors.New("plan lists no sources")
	}
	if root.Key == "" {
		root.Key = runtimes.DefaultKey
	}

	sources := make([]api.Source, 0, len(root.Sources))
	for i, s := range root.Sources {
		var src api.Source
		switch {
		case s.Path != "":
			p := s.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			src.Path = &p
		case s.Url != "" && s.Sha256 != "":
			u, sum := s.Url, s.Sha256
			src.Url, src.Sha256 = &u, &sum
		default:
			return nil, fmt.Errorf("source %d needs either path or url with sha256", i+1)
		}
		sources = append(sources, src)
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		s := merge(sc.SpecSearch, root.Defaults)
		if len(s.Solvers) == 0 {
			return nil, fmt.Errorf("scenario %d (%s) lists no solvers", i+1, sc.Description)
		}
		for _, e := range sc.Expect {
			if e.K < 1 || len(e.Best) != e.K {
				return nil, fmt.Errorf("scenario %d (%s): expectation for k=%d lists %d solvers", i+1, sc.Description, e.K, len(e.Best))
			}
		}
		name := sc.Description
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		cases = append(cases, Case{
			Name: name,
			Request: api.SearchReq{
				RunUuid:      uuid.NewString(),
				Sources:      sources,
				Key:          root.Key,
				Query:        s.Query,
				Solvers:      s.Solvers,
				Groups:       s.Groups,
				VbsSolvers:   s.VbsSolvers,
				MaxRuntime:   s.MaxRuntime,
				Penalty:      s.Penalty,
				MinGroupSize: s.MinGroupSize,
				MaxK:         s.MaxK,
				BeamWidth:    s.BeamWidth,
				NBest:        s.NBest,
				Exhaustive:   s.Exhaustive,
			},
			Expect: sc.Expect,
		})
	}
	return cases, nil
}

func merge(s, d SpecSearch) SpecSearch {
	if s.Query == "" {
		s.Query = d.Query
	}
	if s.Solvers == nil {
		s.Solvers = d.Solvers
	}
	if s.Groups == nil {
		s.Groups = d.Groups
	}
	if s.VbsSolvers == nil {
		s.VbsSolvers = d.VbsSolvers
	}
	if s.MaxRuntime == 0 {
		s.MaxRuntime = firstSet(d.MaxRuntime, preprocess.DefaultMaxRuntime)
	}
	if s.Penalty == 0 {
		s.Penalty = firstSet(d.Penalty, preprocess.DefaultPenalty)
	}
	if s.MinGroupSize == 0 {
		s.MinGroupSize = firstSet(d.MinGroupSize, preprocess.DefaultMinGroupSize)
	}
	if s.MaxK == 0 {
		s.MaxK = d.MaxK
	}
	if s.BeamWidth == 0 {
		s.BeamWidth = d.BeamWidth
	}
	if s.NBest == 0 {
		s.NBest = d.NBest
	}
	s.Exhaustive = s.Exhaustive || d.Exhaustive
	return s
}

// firstSet returns the first non-zero value.
func firstSet[T comparable](vals ...T) T {
	var zero T
	for _, v := range vals {
		if v != zero {
			return v
		}
	}
	return zero
}

// Check compares the best portfolio of each expected size with the
// response's records. Member order does not matter.
func (c Case) Check(resp api.SearchResponse) error {
	var errs []error
	for _, e := range c.Expect {
		got, ok := best(resp.Records, e.K)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: no portfolio of size %d", ErrExpectation, e.K))
			continue
		}
		want := slices.Sorted(slices.Values(e.Best))
		if !slices.Equal(want, slices.Sorted(slices.Values(got))) {
			errs = append(errs, fmt.Errorf("%w: k=%d expected %v, got %v", ErrExpectation, e.K, e.Best, got))
		}
	}
	return errors.Join(errs...)
}

func best(records []api.Record, k int) ([]string, bool) {
	for _, r := range records {
		if r.K == k {
			return r.Portfolio, true
		}
	}
	return nil, false
}
