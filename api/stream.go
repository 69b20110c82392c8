package api

import "time"

// MsgType is a message type for streaming responses
type MsgType string

// Streaming message type constants
const (
	StartSearchMsg      MsgType = "search_start"
	FinishGenerationMsg MsgType = "generation_finish"
	FinishSearchMsg     MsgType = "search_finish"
)

// At most this many portfolios are listed per generation message
const MaxGenerationBest = 10

// Header is the common header for all streaming response messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartSearch message sent once the runtime matrix is ready
type StartSearch struct {
	Header
	Instances   int      `json:"instances"`
	Solvers     []string `json:"solvers"`
	MaxK        int      `json:"max_k"`
	BeamWidth   int      `json:"beam_width"`
	Exhaustive  bool     `json:"exhaustive"`
	VbsScore    *float64 `json:"vbs_score"`
	StartedTime string   `json:"started_time"`
}

// FinishGeneration message sent after all subsets of one size are scored
type FinishGeneration struct {
	Header
	K      int      `json:"k"`
	Scored int      `json:"scored"`
	Best   []Record `json:"best"`
}

// FinishSearch message sent when the search completes
type FinishSearch struct {
	Header
	Records       []Record `json:"records"`
	ErrorMessage  *string  `json:"error_message"`
	InternalError bool     `json:"internal_error"`
}

// Helper function to create a header
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartSearch(runUuid string, instances int, solvers []string, maxK, beamWidth int, exhaustive bool, vbs float64) StartSearch {
	return StartSearch{
		Header:      NewHeader(runUuid, StartSearchMsg),
		Instances:   instances,
		Solvers:     solvers,
		MaxK:        maxK,
		BeamWidth:   beamWidth,
		Exhaustive:  exhaustive,
		VbsScore:    Float(vbs),
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewFinishGeneration(runUuid string, k, scored int, best []Record) FinishGeneration {
	return FinishGeneration{
		Header: NewHeader(runUuid, FinishGenerationMsg),
		K:      k,
		Scored: scored,
		Best:   best,
	}
}

func NewFinishSearch(runUuid string, records []Record, errorMessage *string) FinishSearch {
	return FinishSearch{
		Header:        NewHeader(runUuid, FinishSearchMsg),
		Records:       records,
		ErrorMessage:  errorMessage,
		InternalError: errorMessage != nil,
	}
}
