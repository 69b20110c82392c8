package respbuilder

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/gatherer/stream"
	"github.com/programme-lv/portfolio/internal/portfolio"
	"gopkg.in/yaml.v3"
)

// Builder gathers search events and builds a complete api.SearchResponse.
type Builder struct {
	runUuid string

	started  time.Time
	finished *time.Time

	info    internal.SearchInfo
	records []api.Record
	scored  int64

	status       api.SearchStatus
	errorMessage *string
}

var _ internal.ResultGatherer = (*Builder)(nil)

func New(runUuid string) *Builder {
	return &Builder{
		runUuid: runUuid,
		started: time.Now(),
		status:  api.Success,
	}
}

// StartSearch implements ResultGatherer.
func (b *Builder) StartSearch(info internal.SearchInfo) {
	b.info = info
}

// FinishGeneration implements ResultGatherer.
func (b *Builder) FinishGeneration(gen portfolio.Generation) {
	b.scored += int64(gen.Scored)
}

// Report implements ResultGatherer.
func (b *Builder) Report(records []portfolio.Record) {
	b.records = stream.Records(records)
}

// InternalError implements ResultGatherer.
func (b *Builder) InternalError(msg string) {
	b.status = api.InternalError
	b.errorMessage = &msg
	b.finish()
}

// FinishNoError implements ResultGatherer.
func (b *Builder) FinishNoError() {
	b.finish()
}

func (b *Builder) finish() {
	now := time.Now()
	b.finished = &now
}

// Response builds the api.SearchResponse from gathered data.
func (b *Builder) Response() api.SearchResponse {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	resp := api.SearchResponse{
		RunUuid:     b.runUuid,
		Status:      b.status,
		Instances:   b.info.Instances,
		Solvers:     b.info.Solvers,
		Records:     b.records,
		Scored:      b.scored,
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
	}
	if b.info.Solvers != nil {
		resp.VbsScore = api.Float(b.info.VbsScore)
	}
	if b.errorMessage != nil {
		v := *b.errorMessage
		resp.ErrorMessage = &v
	}
	return resp
}

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Encode writes the response in the given format.
func (b *Builder) Encode(w io.Writer, format Format) error {
	resp := b.Response()
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
