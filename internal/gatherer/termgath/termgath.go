package termgath

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/names"
	"github.com/programme-lv/portfolio/internal/portfolio"
)

var (
	title = color.New(color.Bold)
	good  = color.New(color.FgGreen)
	bad   = color.New(color.FgRed, color.Bold)
	faint = color.New(color.Faint)
)

type TerminalGatherer struct {
	StartedAt time.Time

	w    io.Writer
	name names.Resolver
}

var _ internal.ResultGatherer = (*TerminalGatherer)(nil)

// New prints search progress to w, showing solvers by their display names.
func New(w io.Writer, name names.Resolver) *TerminalGatherer {
	if name == nil {
		name = names.Identity
	}
	return &TerminalGatherer{StartedAt: time.Now(), w: w, name: name}
}

func (t *TerminalGatherer) StartSearch(info internal.SearchInfo) {
	t.StartedAt = time.Now()
	title.Fprintln(t.w, "== Search started ==")
	fmt.Fprintf(t.w, "instances=%d solvers=%d max_k=%d beam=%d", info.Instances, len(info.Solvers), info.MaxK, info.BeamWidth)
	if info.Exhaustive {
		fmt.Fprint(t.w, " exhaustive")
	}
	fmt.Fprintln(t.w)
	if !math.IsNaN(info.VbsScore) {
		fmt.Fprintf(t.w, "virtual best solver: %s\n", FormatScore(info.VbsScore))
	}
}

func (t *TerminalGatherer) FinishGeneration(gen portfolio.Generation) {
	fmt.Fprintf(t.w, "-> k=%d scored %d subsets", gen.K, gen.Scored)
	if len(gen.Portfolios) > 0 {
		best := gen.Portfolios[0]
		fmt.Fprint(t.w, ", best ")
		good.Fprint(t.w, FormatScore(best.Score))
		faint.Fprintf(t.w, " %s", t.set(best.Solvers))
	}
	fmt.Fprintln(t.w)
}

func (t *TerminalGatherer) Report(records []portfolio.Record) {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{fmt.Sprint(r.K), FormatScore(r.Score), t.set(r.Portfolio)}
	}
	title.Fprintln(t.w, "-- Portfolios --")
	WriteTable(t.w, []string{"k", "score", "portfolio"}, rows, 1, 2)
}

func (t *TerminalGatherer) InternalError(msg string) {
	bad.Fprintf(t.w, "== Internal error: %s ==\n", msg)
}

func (t *TerminalGatherer) FinishNoError() {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	title.Fprintf(t.w, "== Search finished in %s ==\n", dur)
}

func (t *TerminalGatherer) set(solvers []string) string {
	return "{" + strings.Join(t.name.All(solvers), ", ") + "}"
}

// FormatScore prints NaN as a dash.
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
