package termgath_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/gatherer/termgath"
	"github.com/programme-lv/portfolio/internal/names"
	"github.com/programme-lv/portfolio/internal/portfolio"
	"github.com/programme-lv/portfolio/internal/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestTerminalGatherer(t *testing.T) {
	var buf bytes.Buffer
	g := termgath.New(&buf, names.FromMap(map[string]string{"a": "Alpha"}))

	g.StartSearch(internal.SearchInfo{Instances: 4, Solvers: []string{"a", "b"}, MaxK: 2, BeamWidth: 10, VbsScore: 1.5})
	g.FinishGeneration(portfolio.Generation{K: 1, Scored: 2, Portfolios: []portfolio.Portfolio{{Solvers: []string{"a"}, Score: 3}}})
	g.Report([]portfolio.Record{
		{K: 1, Portfolio: []string{"a"}, Score: 3},
		{K: 2, Portfolio: []string{"b", "a"}, Score: math.NaN()},
	})
	g.FinishNoError()

	out := buf.String()
	assert.Contains(t, out, "instances=4 solvers=2 max_k=2 beam=10")
	assert.Contains(t, out, "virtual best solver: 1.50")
	assert.Contains(t, out, "-> k=1 scored 2 subsets, best 3.00 {Alpha}")
	assert.Contains(t, fieldLines(out), "2 - {b, Alpha}")
	assert.Contains(t, out, "== Search finished in")
}

// fieldLines joins the fields of every line with single spaces.
func fieldLines(out string) []string {
	var res []string
	for _, l := range strings.Split(out, "\n") {
		res = append(res, strings.Join(strings.Fields(l), " "))
	}
	return res
}

// column returns the display offset of the last field of a line.
func column(line string) int {
	f := strings.Fields(line)
	return runewidth.StringWidth(line[:strings.LastIndex(line, f[len(f)-1])])
}

func TestWriteTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	termgath.WriteTable(&buf, []string{"name", "x"}, [][]string{{"日本", "1"}, {"abcde", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"name x", "日本 1", "abcde 2"}, fieldLines(strings.Join(lines, "\n")))
	assert.Equal(t, column(lines[0]), column(lines[1]))
	assert.Equal(t, column(lines[0]), column(lines[2]))
}

func TestWriteScores(t *testing.T) {
	var buf bytes.Buffer
	rows := []scores.GroupRow{
		{Group: "crypto", Count: 2, Means: map[string]float64{"a": 20, "b": 30}, Diff: 10, Quot: 1.5, Diff2: 5, Quot2: 1.25},
		{Group: scores.AllGroup, Count: 12, Means: map[string]float64{"a": 120, "b": math.NaN()}, Diff: math.NaN(), Quot: math.NaN(), Diff2: math.NaN(), Quot2: math.NaN()},
	}
	termgath.WriteScores(&buf, "family", []string{"a", "b"}, rows, nil)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{
		"family count a b diff quot diff2 quot2",
		"crypto 2 20.00 30.00 10.00 1.50 5.00 1.25",
		"all 12 120.00 - - - - -",
	}, fieldLines(strings.Join(lines, "\n")))
	// numbers are right-aligned, so counts end in the same column
	assert.Equal(t, strings.Index(lines[1], "2 "), strings.Index(lines[2], "12 ")+1)
}
