package natsgath

import (
	"github.com/programme-lv/portfolio/internal/gatherer/stream"
)

// Publisher is the part of *nats.Conn the gatherer uses.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// New creates a new NATS gatherer that streams search events to the given
// inbox subject.
func New(nc Publisher, runUuid string, inbox string) *stream.Gatherer {
	s := &natsSender{nc: nc, inbox: inbox}
	return stream.New(runUuid, s.send)
}
