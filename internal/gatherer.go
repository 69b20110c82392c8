package internal

import "github.com/programme-lv/portfolio/internal/portfolio"

//go:generate mockgen -source=gatherer.go -destination=mocks/gatherer.go -package=mocks

// ResultGatherer receives the events of one search request in order:
// StartSearch, FinishGeneration per portfolio size, Report, and finally
// FinishNoError. InternalError replaces the remaining events on failure.
type ResultGatherer interface {
	StartSearch(info SearchInfo)
	FinishGeneration(gen portfolio.Generation)
	Report(records []portfolio.Record)

	InternalError(msg string)
	FinishNoError()
}

// Gatherers fans every event out to each gatherer in order.
type Gatherers []ResultGatherer

func (gs Gatherers) StartSearch(info SearchInfo) {
	for _, g := range gs {
		g.StartSearch(info)
	}
}

func (gs Gatherers) FinishGeneration(gen portfolio.Generation) {
	for _, g := range gs {
		g.FinishGeneration(gen)
	}
}

func (gs Gatherers) Report(records []portfolio.Record) {
	for _, g := range gs {
		g.Report(records)
	}
}

func (gs Gatherers) InternalError(msg string) {
	for _, g := range gs {
		g.InternalError(msg)
	}
}

func (gs Gatherers) FinishNoError() {
	for _, g := range gs {
		g.FinishNoError()
	}
}
