package preprocess

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/programme-lv/portfolio/internal/runtimes"
)

const (
	DefaultMaxRuntime   = 5000
	DefaultPenalty      = 2
	DefaultMinGroupSize = 5
	DefaultBucket       = "miscellaneous"

	// VbsColumn is the column written by VBS.
	VbsColumn = "vbs"
)

// Placeholders are group labels that always go to the bucket.
var Placeholders = []string{"empty", "unknown"}

var (
	// ErrMissingColumn is returned for columns absent from both the working
	// table and the source.
	ErrMissingColumn = runtimes.ErrMissingColumn
	// ErrInvalidPenalty is returned for a non-positive threshold or a penalty
	// factor below one.
	ErrInvalidPenalty = errors.New("preprocess: invalid penalty settings")
)

type penalty struct {
	maxRuntime float64
	factor     float64
}

// Preprocessor is one state of the cleaning pipeline over a working copy of
// the rows matched by a query. Every stage returns a new Preprocessor with
// its own table; the receiver is never modified. The first failing stage
// makes every later stage a no-op, and its error is returned by Table and Err.
//
// Penalize must be applied once per pipeline run: penalized values already
// lie above the threshold when the factor exceeds one, so a second pass with
// the same threshold leaves them unchanged, but a pass with a lower threshold
// does not.
type Preprocessor struct {
	src      runtimes.Source
	query    string
	features []string

	df      *runtimes.Table
	penalty *penalty
	err     error
}

// New retrieves the features for the rows matching query from src.
func New(src runtimes.Source, query string, features []string) (*Preprocessor, error) {
	df, err := src.Query(query, features)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve %v: %w", features, err)
	}
	return &Preprocessor{
		src:      src,
		query:    query,
		features: slices.Clone(features),
		df:       df,
	}, nil
}

// Table returns a copy of the working table, or the first pipeline error.
func (p *Preprocessor) Table() (*runtimes.Table, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.df.Clone(), nil
}

// Err returns the first error raised by a pipeline stage.
func (p *Preprocessor) Err() error {
	return p.err
}

func (p *Preprocessor) next(stage string, apply func(df *runtimes.Table) error) *Preprocessor {
	if p.err != nil {
		return p
	}
	res := &Preprocessor{
		src:      p.src,
		query:    p.query,
		features: p.features,
		df:       p.df.Clone(),
		penalty:  p.penalty,
	}
	if err := apply(res.df); err != nil {
		res.err = fmt.Errorf("%s: %w", stage, err)
	}
	return res
}

// ensure makes the columns available in df, retrieving the ones the working
// table lacks from the source.
func (p *Preprocessor) ensure(df *runtimes.Table, columns []string) (*runtimes.Table, error) {
	var missing []string
	for _, c := range columns {
		if !df.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return df, nil
	}
	features := p.src.Features()
	for _, c := range missing {
		if !slices.Contains(features, c) {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, c)
		}
	}
	extra, err := p.src.Query(p.query, missing)
	if err != nil {
		return nil, err
	}
	return df.LeftJoin(extra, missing...)
}

func (p *Preprocessor) withColumns(stage string, columns []string, apply func(df *runtimes.Table) error) *Preprocessor {
	return p.next(stage, func(df *runtimes.Table) error {
		full, err := p.ensure(df, columns)
		if err != nil {
			return err
		}
		if err := apply(full); err != nil {
			return err
		}
		*df = *full
		return nil
	})
}

// Numeric re-reads each column as numbers; unparsable cells become NaN.
func (p *Preprocessor) Numeric(columns ...string) *Preprocessor {
	return p.withColumns("numeric", columns, func(df *runtimes.Table) error {
		for _, name := range columns {
			c, err := df.Column(name)
			if err != nil {
				return err
			}
			if c.IsNumeric() {
				continue
			}
			values := make([]float64, len(c.Text))
			for i, s := range c.Text {
				values[i] = runtimes.ParseFloat(s)
			}
			if err := df.SetFloats(name, values); err != nil {
				return err
			}
		}
		return nil
	})
}

// Penalize replaces every value v with v >= maxRuntime or v < 0 by
// factor*maxRuntime. NaN cells are left as they are.
func (p *Preprocessor) Penalize(columns []string, maxRuntime float64, factor float64) *Preprocessor {
	if maxRuntime <= 0 || factor < 1 || math.IsNaN(maxRuntime) || math.IsNaN(factor) {
		return p.next("penalize", func(*runtimes.Table) error {
			return fmt.Errorf("%w: max runtime %v, factor %v", ErrInvalidPenalty, maxRuntime, factor)
		})
	}
	res := p.withColumns("penalize", columns, func(df *runtimes.Table) error {
		for _, name := range columns {
			values, err := df.Floats(name)
			if err != nil {
				return err
			}
			n := Penalize(values, maxRuntime, factor)
			slog.Debug("penalized runtimes", "column", name, "count", n)
			if err := df.SetFloats(name, values); err != nil {
				return err
			}
		}
		return nil
	})
	if res.err == nil {
		res.penalty = &penalty{maxRuntime: maxRuntime, factor: factor}
	}
	return res
}

// Penalize applies the penalty rule to values in place and returns the
// number of replaced cells.
func Penalize(values []float64, maxRuntime float64, factor float64) int {
	n := 0
	for i, v := range values {
		if v >= maxRuntime || v < 0 {
			values[i] = factor * maxRuntime
			n++
		}
	}
	return n
}

// Remainder replaces group labels of column that occur in fewer than
// minGroupSize rows, and the Placeholders, by bucket. An empty bucket means
// DefaultBucket.
func (p *Preprocessor) Remainder(column string, minGroupSize int, bucket string) *Preprocessor {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return p.withColumns("remainder", []string{column}, func(df *runtimes.Table) error {
		labels, err := df.Strings(column)
		if err != nil {
			return err
		}
		small := Remainder(labels, minGroupSize, bucket)
		if len(small) > 0 {
			slog.Debug("collapsed small groups", "column", column, "bucket", bucket, "groups", small)
		}
		return df.SetText(column, labels)
	})
}

// Remainder applies the bucket rule to labels in place and returns the
// replaced group names, sorted.
func Remainder(labels []string, minGroupSize int, bucket string) []string {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	small := make(map[string]bool)
	for l, n := range counts {
		if n < minGroupSize || slices.Contains(Placeholders, l) {
			small[l] = true
		}
	}
	for i, l := range labels {
		if small[l] {
			labels[i] = bucket
		}
	}
	res := make([]string, 0, len(small))
	for l := range small {
		res = append(res, l)
	}
	slices.Sort(res)
	return res
}

// VBS adds the VbsColumn holding the per-row minimum over columns. When the
// working table lacks any of them, the columns are retrieved and cleaned by
// an independent pipeline over the same query, so the reference set may be
// wider than the table.
func (p *Preprocessor) VBS(columns ...string) *Preprocessor {
	return p.next("vbs", func(df *runtimes.Table) error {
		if len(columns) == 0 {
			return fmt.Errorf("%w: empty reference set", ErrMissingColumn)
		}
		if df.Has(columns...) {
			vbs, err := RowMin(df, columns)
			if err != nil {
				return err
			}
			return df.SetFloats(VbsColumn, vbs)
		}

		pen := penalty{maxRuntime: DefaultMaxRuntime, factor: DefaultPenalty}
		if p.penalty != nil {
			pen = *p.penalty
		}
		ref, err := New(p.src, p.query, columns)
		if err != nil {
			return err
		}
		ref = ref.Numeric(columns...).Penalize(columns, pen.maxRuntime, pen.factor).VBS(columns...)
		refTab, err := ref.Table()
		if err != nil {
			return err
		}
		joined, err := df.LeftJoin(refTab, VbsColumn)
		if err != nil {
			return err
		}
		*df = *joined
		return nil
	})
}

// RowMin returns the per-row minimum over numeric columns, skipping NaN
// cells. Rows where every cell is NaN yield NaN.
func RowMin(df *runtimes.Table, columns []string) ([]float64, error) {
	res := make([]float64, df.Len())
	for i := range res {
		res[i] = math.NaN()
	}
	for _, name := range columns {
		values, err := df.Floats(name)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(res[i]) || v < res[i] {
				res[i] = v
			}
		}
	}
	return res, nil
}
