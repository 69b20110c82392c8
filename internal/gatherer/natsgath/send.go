package natsgath

import (
	"encoding/json"
	"log/slog"
)

type natsSender struct {
	nc    Publisher
	inbox string
}

func (s *natsSender) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "error", err)
		return
	}

	if err := s.nc.Publish(s.inbox, b); err != nil {
		slog.Error("failed to publish message to NATS", "subject", s.inbox, "error", err)
	}
}
