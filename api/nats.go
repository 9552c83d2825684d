package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// HandleRequest answers one JSON PhraseRequest with a JSON PhraseResponse.
// Failures are reported in the response's error field.
func (s *Server) HandleRequest(data []byte) []byte {
	var req PhraseRequest
	var resp PhraseResponse
	if err := json.Unmarshal(data, &req); err != nil {
		resp.Error = fmt.Sprintf("invalid request: %v", err)
	} else if resp, err = s.Phrases(req); err != nil {
		resp = PhraseResponse{Language: req.Language, Error: err.Error()}
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"error":"marshal response"}`)
	}
	return out
}

// ServeNATS answers phrase requests on subject until ctx is done. Replicas
// sharing queue split the load.
func (s *Server) ServeNATS(ctx context.Context, nc *nats.Conn, subject, queue string) error {
	sub, err := nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		if msg.Reply == "" {
			s.logger.Debug("Dropping request without reply subject", slog.String("subject", msg.Subject))
			return
		}
		if err := msg.Respond(s.HandleRequest(msg.Data)); err != nil {
			s.logger.Warn("Failed to respond", slog.String("subject", msg.Subject), slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.logger.Info("Serving phrase requests", slog.String("subject", subject), slog.String("queue", queue))

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain %s: %w", subject, err)
	}
	return nil
}
