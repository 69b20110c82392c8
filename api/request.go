package api

type SearchReq struct {
	RunUuid string `json:"run_uuid"`

	// Runtime tables joined on Key. The first table owning a column wins.
	Sources []Source `json:"sources"`
	Key     string   `json:"key"`

	// Equality filter, e.g. "track = main_2023 and family != unknown"
	Query   string   `json:"query"`
	Solvers []string `json:"solvers"`
	// Group columns whose small groups are bucketed before search
	Groups []string `json:"groups"`

	MaxRuntime   float64 `json:"max_runtime"`
	Penalty      float64 `json:"penalty"`
	MinGroupSize int     `json:"min_group_size"`

	MaxK       int  `json:"max_k"`
	BeamWidth  int  `json:"beam_width"`
	NBest      int  `json:"n_best"`
	Exhaustive bool `json:"exhaustive"`

	// Reference solvers of the virtual best solver. Defaults to Solvers.
	VbsSolvers []string `json:"vbs_solvers"`

	ResSqsUrl string `json:"res_sqs_url"`
}

type Source struct {
	// Sha256 to check if file exists in cache
	Sha256 *string `json:"sha256"`
	// URL to download file if missing
	Url *string `json:"url"`
	// Local path as an alternative to URL
	Path *string `json:"path"`
	// Content directly as an alternative to URL
	Content *string `json:"content"`
}
