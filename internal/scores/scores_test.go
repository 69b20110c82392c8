package scores_test

import (
	"math"
	"testing"

	"github.com/programme-lv/portfolio/internal/runtimes"
	"github.com/programme-lv/portfolio/internal/scores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T) *runtimes.Table {
	t.Helper()
	tab, err := runtimes.NewTable(runtimes.DefaultKey, []string{"h1", "h2", "h3", "h4"})
	require.NoError(t, err)
	require.NoError(t, tab.SetText("family", []string{"crypto", "planning", "crypto", "planning"}))
	require.NoError(t, tab.SetFloats("a", []float64{10, 100, 30, 300}))
	require.NoError(t, tab.SetFloats("b", []float64{20, 10, 40, math.NaN()}))
	require.NoError(t, tab.SetFloats("vbs", []float64{10, 10, 30, 300}))
	return tab
}

func TestMeans(t *testing.T) {
	m, err := scores.Means(table(t), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 110.0, m["a"])
	// NaN cells are skipped
	assert.Equal(t, 70.0/3, m["b"])

	_, err = scores.Means(table(t), []string{"family"})
	require.ErrorIs(t, err, runtimes.ErrNotNumeric)
}

func TestGroupWise(t *testing.T) {
	rows, err := scores.GroupWise(table(t), "family", []string{"a", "b"}, []string{"vbs"}, scores.ByDiff)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// planning: a=200, b=10 -> diff 190; crypto: a=20, b=30 -> diff 10
	assert.Equal(t, "planning", rows[0].Group)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, 190.0, rows[0].Diff)
	assert.Equal(t, 20.0, rows[0].Quot)
	assert.Equal(t, 155.0, rows[0].Means["vbs"])

	assert.Equal(t, "crypto", rows[1].Group)
	assert.Equal(t, 10.0, rows[1].Diff)
	assert.Equal(t, 5.0, rows[1].Diff2)
	assert.Equal(t, 1.25, rows[1].Quot2)

	assert.Equal(t, scores.AllGroup, rows[2].Group)
	assert.Equal(t, 4, rows[2].Count)
	assert.Equal(t, 110.0, rows[2].Means["a"])
}

func TestGroupWiseSortKeys(t *testing.T) {
	_, err := scores.GroupWise(table(t), "family", []string{"a"}, nil, "median")
	require.ErrorIs(t, err, scores.ErrSortKey)

	rows, err := scores.GroupWise(table(t), "family", []string{"a", "b"}, nil, scores.ByCount)
	require.NoError(t, err)
	// equal counts keep alphabetical group order
	assert.Equal(t, []string{"crypto", "planning", scores.AllGroup},
		[]string{rows[0].Group, rows[1].Group, rows[2].Group})

	_, err = scores.GroupWise(table(t), "track", []string{"a"}, nil, scores.ByCount)
	require.ErrorIs(t, err, runtimes.ErrMissingColumn)
}

func TestGroupWiseUndefinedRatiosSortLast(t *testing.T) {
	tab, err := runtimes.NewTable(runtimes.DefaultKey, []string{"h1", "h2", "h3", "h4", "h5", "h6"})
	require.NoError(t, err)
	require.NoError(t, tab.SetText("family", []string{"instant", "instant", "sat", "sat", "unsat", "unsat"}))
	require.NoError(t, tab.SetFloats("a", []float64{0, 0, 1, 1, 1, 1}))
	require.NoError(t, tab.SetFloats("b", []float64{0, 0, 2, 2, 4, 4}))
	require.NoError(t, tab.SetFloats("c", []float64{0, 0, 3, 3, 5, 5}))

	rows, err := scores.GroupWise(tab, "family", []string{"a", "b", "c"}, nil, scores.ByQuot)
	require.NoError(t, err)
	// instant has 0/0 ratios and sorts after every defined one
	assert.Equal(t, []string{"unsat", "sat", "instant", scores.AllGroup},
		[]string{rows[0].Group, rows[1].Group, rows[2].Group, rows[3].Group})
	assert.True(t, math.IsNaN(rows[2].Quot))
	assert.Equal(t, 1.0, rows[1].Diff2)
	assert.Equal(t, 4.0, rows[0].Quot2)

	rows, err = scores.GroupWise(tab, "family", []string{"a", "b", "c"}, nil, scores.ByQuot2)
	require.NoError(t, err)
	assert.Equal(t, "instant", rows[2].Group)
}
