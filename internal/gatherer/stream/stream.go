// Package stream turns gatherer events into api streaming messages and hands
// them to a transport.
package stream

import (
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/portfolio"
)

// Gatherer encodes events for one run. Send failures are the transport's
// concern.
type Gatherer struct {
	runUuid string
	send    func(msg any)
	records []api.Record
}

func New(runUuid string, send func(msg any)) *Gatherer {
	return &Gatherer{runUuid: runUuid, send: send}
}

var _ internal.ResultGatherer = (*Gatherer)(nil)

func (g *Gatherer) StartSearch(info internal.SearchInfo) {
	g.send(api.NewStartSearch(g.runUuid, info.Instances, info.Solvers,
		info.MaxK, info.BeamWidth, info.Exhaustive, info.VbsScore))
}

func (g *Gatherer) FinishGeneration(gen portfolio.Generation) {
	best := gen.Portfolios[:min(len(gen.Portfolios), api.MaxGenerationBest)]
	records := make([]api.Record, len(best))
	for i, p := range best {
		records[i] = api.NewRecord(gen.K, p.Solvers, p.Score)
	}
	g.send(api.NewFinishGeneration(g.runUuid, gen.K, gen.Scored, records))
}

// Report is deferred until FinishNoError so that the final message carries
// the records.
func (g *Gatherer) Report(records []portfolio.Record) {
	g.records = Records(records)
}

func (g *Gatherer) InternalError(msg string) {
	g.send(api.NewFinishSearch(g.runUuid, nil, &msg))
}

func (g *Gatherer) FinishNoError() {
	g.send(api.NewFinishSearch(g.runUuid, g.records, nil))
}

// Records converts search records to their api form.
func Records(records []portfolio.Record) []api.Record {
	res := make([]api.Record, len(records))
	for i, r := range records {
		res[i] = api.NewRecord(r.K, r.Portfolio, r.Score)
	}
	return res
}
