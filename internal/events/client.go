// Package events publishes operational events to NATS. The publisher is
// optional infrastructure: the pipeline works without it, just with less
// visibility, so every caller tolerates a nil client.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectCallProcessed = "concierge.call.processed"
	SubjectPromptUpdated = "concierge.prompt.updated"
	SubjectError         = "concierge.error"
)

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

// Publish sends an event. A nil client is a no-op so callers don't need to
// branch on whether the bus is configured.
func (c *Client) Publish(subject string, data any) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// PublishError emits a structured error event for the observability sink.
func (c *Client) PublishError(component, phone string, err error) {
	if c == nil {
		return
	}
	if pubErr := c.Publish(SubjectError, map[string]any{
		"component": component,
		"phone":     phone,
		"error":     err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}); pubErr != nil {
		c.logger.Warn("failed to publish error event", "component", component, "error", pubErr)
	}
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	c.conn.Close()
}
