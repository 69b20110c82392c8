package api

import "math"

// Record is one reported portfolio. Score is nil when no instance could be
// scored.
type Record struct {
	K         int      `json:"k"`
	Portfolio []string `json:"portfolio"`
	Score     *float64 `json:"score"`
}

func NewRecord(k int, portfolio []string, score float64) Record {
	return Record{K: k, Portfolio: portfolio, Score: Float(score)}
}

// Float returns nil for NaN, which JSON cannot carry.
func Float(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

type SearchStatus string

const (
	Success       SearchStatus = "success"
	InternalError SearchStatus = "internal_error"
)

// SearchResponse is a simple, complete response for one search request
type SearchResponse struct {
	RunUuid string       `json:"run_uuid" yaml:"run_uuid"`
	Status  SearchStatus `json:"status" yaml:"status"`

	Instances int      `json:"instances" yaml:"instances"`
	Solvers   []string `json:"solvers" yaml:"solvers"`
	VbsScore  *float64 `json:"vbs_score,omitempty" yaml:"vbs_score,omitempty"`

	// Records are sorted by k, then ascending by score
	Records []Record `json:"records" yaml:"records"`
	// Number of subsets scored over all generations
	Scored int64 `json:"scored" yaml:"scored"`

	ErrorMessage *string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	StartTime   string `json:"start_time" yaml:"start_time"`
	FinishTime  string `json:"finish_time" yaml:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms" yaml:"total_time_ms"`
}
