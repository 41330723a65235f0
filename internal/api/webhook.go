package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/launchline/concierge/internal/metrics"
	"github.com/launchline/concierge/internal/processor"
	"github.com/launchline/concierge/internal/transcript"
)

// webhookResponse is the acknowledgement the voice platform expects. Handled
// and gracefully-failed deliveries both get 200: the call already happened,
// so a redelivery can't improve anything.
type webhookResponse struct {
	Received   bool             `json:"received"`
	Timestamp  string           `json:"timestamp"`
	Processing processor.Result `json:"processing"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret != "" && r.Header.Get("x-vapi-secret") != s.webhookSecret {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4<<20))
	if err != nil {
		s.ack(w, processor.Result{Success: false, Error: "unreadable body"})
		return
	}

	evt, err := transcript.ParsePayload(body)
	if err != nil {
		// Missing transcript or phone is a malformed delivery, not a server
		// fault: log the warning and acknowledge with nothing to process.
		switch {
		case errors.Is(err, transcript.ErrNoPhone), errors.Is(err, transcript.ErrNoTranscript):
			slog.Warn("webhook missing required data", "type", string(evt.Type), "error", err)
		default:
			slog.Warn("unparseable webhook payload", "error", err)
		}
		metrics.WebhooksReceived.WithLabelValues("malformed").Inc()
		s.ack(w, processor.Result{Success: false, Error: err.Error()})
		return
	}

	metrics.WebhooksReceived.WithLabelValues(string(evt.Type)).Inc()

	var result processor.Result
	switch evt.Type {
	case transcript.EventCallStart:
		result = s.pipeline.HandleCallStart(r.Context(), evt)
	case transcript.EventCallEnd:
		result = s.pipeline.HandleCallEnd(r.Context(), evt)
	default:
		result = processor.Result{Success: true, Action: "ignored"}
	}

	s.ack(w, result)
}

func (s *Server) ack(w http.ResponseWriter, result processor.Result) {
	writeJSON(w, http.StatusOK, webhookResponse{
		Received:   true,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Processing: result,
	})
}
