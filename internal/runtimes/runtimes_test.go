package runtimes_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/portfolio/internal/runtimes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsCsv = `hash,kissat,cadical
h1,10.5,20
h2,timeout,3
h3,-1,7
`

const metaCsv = `hash,family,track
h1,crypto,main_2023
h2,planning,main_2023
h3,crypto,special
h4,planning,main_2023
`

func mustRead(t *testing.T, s string) *runtimes.Table {
	t.Helper()
	tab, err := runtimes.ReadCSV(strings.NewReader(s), runtimes.DefaultKey)
	require.NoError(t, err)
	return tab
}

func TestReadCSV(t *testing.T) {
	tab := mustRead(t, resultsCsv)
	require.Equal(t, 3, tab.Len())
	require.Equal(t, []string{"kissat", "cadical"}, tab.Columns())
	require.Equal(t, []string{"h1", "h2", "h3"}, tab.Keys())

	kissat, err := tab.Strings("kissat")
	require.NoError(t, err)
	require.Equal(t, []string{"10.5", "timeout", "-1"}, kissat)

	_, err = tab.Floats("kissat")
	require.ErrorIs(t, err, runtimes.ErrNotNumeric)

	_, err = runtimes.ReadCSV(strings.NewReader("id,a\n1,2\n"), runtimes.DefaultKey)
	require.ErrorIs(t, err, runtimes.ErrMissingColumn)

	_, err = runtimes.ReadCSV(strings.NewReader("hash,a\n1,2\n1,3\n"), runtimes.DefaultKey)
	require.ErrorIs(t, err, runtimes.ErrDuplicateKey)
}

func TestOpenZstd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv.zst")

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(resultsCsv))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	tab, err := runtimes.Open(path, runtimes.DefaultKey)
	require.NoError(t, err)
	require.Equal(t, 3, tab.Len())
	require.True(t, tab.Has("kissat", "cadical"))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tab := mustRead(t, resultsCsv)
	require.NoError(t, tab.SetFloats("vbs", []float64{10.5, 3, math.NaN()}))

	var buf bytes.Buffer
	require.NoError(t, runtimes.WriteCSV(&buf, tab))
	require.Equal(t, "hash,kissat,cadical,vbs\nh1,10.5,20,10.5\nh2,timeout,3,3\nh3,-1,7,\n", buf.String())
}

func TestTableCopiesAreIndependent(t *testing.T) {
	tab := mustRead(t, resultsCsv)
	require.NoError(t, tab.SetFloats("x", []float64{1, 2, 3}))

	cp := tab.Clone()
	require.NoError(t, cp.SetFloats("x", []float64{9, 9, 9}))

	x, err := tab.Floats("x")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, x)

	err = tab.SetFloats("y", []float64{1})
	require.ErrorIs(t, err, runtimes.ErrLength)

	dropped := tab.Drop("kissat", "nope")
	require.Equal(t, []string{"cadical", "x"}, dropped.Columns())
}

func TestParseFilter(t *testing.T) {
	f, err := runtimes.ParseFilter("track = main_2023 AND family != 'unknown'")
	require.NoError(t, err)
	require.Equal(t, runtimes.Filter{
		{Feature: "track", Value: "main_2023"},
		{Feature: "family", Value: "unknown", Negate: true},
	}, f)

	f, err = runtimes.ParseFilter("   ")
	require.NoError(t, err)
	require.Empty(t, f)

	_, err = runtimes.ParseFilter("track main_2023")
	require.ErrorIs(t, err, runtimes.ErrBadQuery)

	for _, q := range []string{
		"= x",
		"track == main",
		"family = a!=b",
		"family != a=b",
		"track = main and",
		"and track = main",
		"track =",
		"track = ''",
		"track ! main",
	} {
		_, err = runtimes.ParseFilter(q)
		require.ErrorIs(t, err, runtimes.ErrBadQuery, q)
	}

	f, err = runtimes.ParseFilter("brand = x and band!=y")
	require.NoError(t, err)
	require.Equal(t, runtimes.Filter{
		{Feature: "brand", Value: "x"},
		{Feature: "band", Value: "y", Negate: true},
	}, f)
}

func TestCatalogQuery(t *testing.T) {
	meta := mustRead(t, metaCsv)
	results := mustRead(t, resultsCsv)
	cat, err := runtimes.NewCatalog(runtimes.DefaultKey, meta, results)
	require.NoError(t, err)

	require.Equal(t, []string{"family", "track", "kissat", "cadical"}, cat.Features())

	tab, err := cat.Query("track = main_2023", []string{"kissat", "family"})
	require.NoError(t, err)
	require.Equal(t, []string{"h1", "h2", "h4"}, tab.Keys())
	require.Equal(t, []string{"kissat", "family"}, tab.Columns())

	kissat, err := tab.Strings("kissat")
	require.NoError(t, err)
	// h4 has no results row
	require.Equal(t, []string{"10.5", "timeout", runtimes.EmptyValue}, kissat)

	_, err = cat.Query("", []string{"glucose"})
	require.ErrorIs(t, err, runtimes.ErrMissingColumn)

	_, err = cat.Query("nope = 1", []string{"kissat"})
	require.ErrorIs(t, err, runtimes.ErrMissingColumn)
}

func TestCatalogQueryBaseIsFirstOwner(t *testing.T) {
	meta := mustRead(t, metaCsv)
	results := mustRead(t, resultsCsv)
	cat, err := runtimes.NewCatalog(runtimes.DefaultKey, meta, results)
	require.NoError(t, err)

	tab, err := cat.Query("", []string{"cadical"})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2", "h3"}, tab.Keys())

	other, err := runtimes.NewTable("id", nil)
	require.NoError(t, err)
	_, err = runtimes.NewCatalog(runtimes.DefaultKey, other)
	require.Error(t, err)
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 12.5, runtimes.ParseFloat(" 12.5 "))
	assert.True(t, math.IsNaN(runtimes.ParseFloat("timeout")))
	assert.True(t, math.IsNaN(runtimes.ParseFloat("")))
	assert.Equal(t, "", runtimes.FormatFloat(math.NaN()))
	assert.Equal(t, "5000", runtimes.FormatFloat(5000))
}
