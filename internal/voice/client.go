// Package voice talks to the external voice platform: pushing assistant
// system prompts and re-pointing phone numbers at the next stage's assistant.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.vapi.ai"

// One retry with backoff: a missed prompt update degrades personalization but
// must never block call routing, so we don't try harder than this.
const (
	retryAttempts = 2
	retryBackoff  = 2 * time.Second
)

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	backoff time.Duration
}

// NewClient builds a platform client. An empty baseURL selects the public
// API endpoint; deployments behind a proxy set VOICE_BASE_URL instead.
func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		backoff: retryBackoff,
	}
}

// UpdateAssistantPrompt replaces an assistant's system prompt so the next
// call it answers runs the freshly generated script.
func (c *Client) UpdateAssistantPrompt(ctx context.Context, assistantID, systemPrompt string) error {
	body := map[string]any{
		"model": map[string]any{
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
			},
		},
	}
	return c.patch(ctx, "/assistant/"+assistantID, body)
}

// AssignPhoneAssistant routes a phone number's next inbound call to the given
// assistant.
func (c *Client) AssignPhoneAssistant(ctx context.Context, phoneNumberID, assistantID string) error {
	return c.patch(ctx, "/phone-number/"+phoneNumberID, map[string]any{
		"assistantId": assistantID,
	})
}

func (c *Client) patch(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Warn("voice api retry", "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = c.doPatch(ctx, path, body); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

func (c *Client) doPatch(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("voice api call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("voice api %s returned %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}
