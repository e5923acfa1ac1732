// Package slackclient posts digest messages through the Slack Web API.
package slackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
)

// requestTimeout bounds each API call independently of the run context.
const requestTimeout = 15 * time.Second

// Client posts to one Slack channel via chat.postMessage.
type Client struct {
	token   string
	channel string
	baseURL string
	hc      *http.Client
}

var _ contract.Notifier = (*Client)(nil)

// NewClient builds a Slack client from validated configuration.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		token:   cfg.SlackToken,
		channel: cfg.SlackChannel,
		baseURL: cfg.SlackAPIURL,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// postMessageResponse is the Slack envelope. The API reports most failures
// with a 200 status and ok=false.
type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends one message to the configured channel.
func (c *Client) PostMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(postMessageRequest{Channel: c.channel, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var env postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !env.OK {
		return fmt.Errorf("slack API error: %s", env.Error)
	}
	return nil
}
