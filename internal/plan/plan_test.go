package plan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sc2023 = `
key = "hash"

[[sources]]
path = "results.csv"

[[sources]]
url = "https://runs.s3.eu-central-1.amazonaws.com/meta.csv.zst"
sha256 = "572619f3013c7840cfd6113674ca0aefbdb573d4b334e3ee4e5be1642e27bd5a"

[defaults]
solvers = ["kissat", "cadical", "lingeling"]
groups = ["family"]
max_k = 2
n_best = 1

[[scenarios]]
description = "main track"
query = "track = main_2023"

[[scenarios.expect]]
k = 2
best = ["lingeling", "kissat"]

[[scenarios]]
description = "anni track, wide beam"
query = "track = anni_2022"
beam_width = 20
penalty = 3
`

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(sc2023), 0o644))

	cases, err := plan.Parse(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	main := cases[0]
	assert.Equal(t, "main track", main.Name)
	require.NoError(t, uuid.Validate(main.Request.RunUuid))
	require.Len(t, main.Request.Sources, 2)
	assert.Equal(t, filepath.Join(dir, "results.csv"), *main.Request.Sources[0].Path)
	assert.Equal(t, "572619f3013c7840cfd6113674ca0aefbdb573d4b334e3ee4e5be1642e27bd5a", *main.Request.Sources[1].Sha256)
	assert.Equal(t, []string{"kissat", "cadical", "lingeling"}, main.Request.Solvers)
	assert.Equal(t, "track = main_2023", main.Request.Query)
	assert.Equal(t, 5000.0, main.Request.MaxRuntime)
	assert.Equal(t, 2.0, main.Request.Penalty)
	assert.Equal(t, 5, main.Request.MinGroupSize)
	assert.Equal(t, 2, main.Request.MaxK)

	anni := cases[1]
	assert.Equal(t, 20, anni.Request.BeamWidth)
	assert.Equal(t, 3.0, anni.Request.Penalty)
	assert.NotEqual(t, main.Request.RunUuid, anni.Request.RunUuid)
}

func TestParseErrors(t *testing.T) {
	_, err := plan.ParseBytes([]byte(`[[scenarios]]`), ".")
	require.Error(t, err)

	_, err = plan.ParseBytes([]byte("[[sources]]\nurl = \"https://x\"\n[[scenarios]]\nsolvers=[\"a\"]\n"), ".")
	require.Error(t, err)

	_, err = plan.ParseBytes([]byte("[[sources]]\npath = \"a.csv\"\n[[scenarios]]\ndescription = \"x\"\n"), ".")
	require.ErrorContains(t, err, "no solvers")

	_, err = plan.ParseBytes([]byte("[[sources]]\npath = \"a.csv\"\n[[scenarios]]\nsolvers=[\"a\"]\n[[scenarios.expect]]\nk = 2\nbest = [\"a\"]\n"), ".")
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	c := plan.Case{Expect: []plan.SpecExpect{{K: 2, Best: []string{"c", "a"}}}}

	resp := api.SearchResponse{Records: []api.Record{
		api.NewRecord(1, []string{"c"}, 30),
		api.NewRecord(2, []string{"a", "c"}, 10),
		api.NewRecord(2, []string{"a", "b"}, 10),
	}}
	require.NoError(t, c.Check(resp))

	resp.Records[1].Portfolio = []string{"b", "c"}
	require.ErrorIs(t, c.Check(resp), plan.ErrExpectation)

	require.ErrorIs(t, c.Check(api.SearchResponse{}), plan.ErrExpectation)
}
