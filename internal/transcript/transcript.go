// Package transcript normalizes voice-platform webhook payloads into events
// the pipeline can process.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPhone means no customer phone number was found in any of the
	// payload locations the platform is known to use.
	ErrNoPhone = errors.New("no customer phone in payload")
	// ErrNoTranscript means a call-end event carried no usable transcript.
	ErrNoTranscript = errors.New("no transcript in payload")
)

type EventType string

const (
	EventCallStart EventType = "call-start"
	EventCallEnd   EventType = "call-end"
	EventIgnored   EventType = "ignored"
)

// Event is a normalized webhook delivery.
type Event struct {
	Type        EventType
	Phone       string
	Email       string
	AssistantID string
	Transcript  string
	EndedReason string
}

type payload struct {
	Message struct {
		Type     string `json:"type"`
		Status   string `json:"status"`
		Call     call   `json:"call"`
		Customer party  `json:"customer"`
		Assistant struct {
			ID string `json:"id"`
		} `json:"assistant"`
		Artifact struct {
			Messages   []turn `json:"messages"`
			Transcript string `json:"transcript"`
		} `json:"artifact"`
		Transcript  string `json:"transcript"`
		EndedReason string `json:"endedReason"`
	} `json:"message"`
}

type call struct {
	AssistantID string `json:"assistantId"`
	Customer    party  `json:"customer"`
}

type party struct {
	Number string `json:"number"`
	Email  string `json:"email"`
}

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Message string `json:"message"`
}

// ParsePayload maps a raw webhook body to an Event. Deliveries the pipeline
// does not act on (status updates other than in-progress, tool calls, speech
// updates) come back as EventIgnored, not as errors.
func ParsePayload(body []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, fmt.Errorf("parse webhook payload: %w", err)
	}

	evt := Event{
		Phone:       firstNonEmpty(p.Message.Call.Customer.Number, p.Message.Customer.Number),
		Email:       firstNonEmpty(p.Message.Call.Customer.Email, p.Message.Customer.Email),
		AssistantID: firstNonEmpty(p.Message.Call.AssistantID, p.Message.Assistant.ID),
		EndedReason: p.Message.EndedReason,
	}

	switch p.Message.Type {
	case "call-start":
		evt.Type = EventCallStart
	case "status-update":
		if p.Message.Status == "in-progress" {
			evt.Type = EventCallStart
		} else {
			evt.Type = EventIgnored
			return evt, nil
		}
	case "call-end", "end-of-call-report":
		evt.Type = EventCallEnd
		evt.Transcript = flatten(p)
	default:
		evt.Type = EventIgnored
		return evt, nil
	}

	if evt.Phone == "" {
		return evt, ErrNoPhone
	}
	if evt.Type == EventCallEnd && strings.TrimSpace(evt.Transcript) == "" {
		return evt, ErrNoTranscript
	}
	return evt, nil
}

// flatten prefers the structured turn list over flat transcript strings.
func flatten(p payload) string {
	if len(p.Message.Artifact.Messages) > 0 {
		var b strings.Builder
		for _, t := range p.Message.Artifact.Messages {
			text := firstNonEmpty(t.Content, t.Message)
			if text == "" {
				continue
			}
			switch t.Role {
			case "user", "customer":
				b.WriteString("Customer: ")
			case "assistant", "bot":
				b.WriteString("Assistant: ")
			default:
				continue // system prompts and tool output are not conversation
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return firstNonEmpty(p.Message.Artifact.Transcript, p.Message.Transcript)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
