package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"reminder-service/internal/config"
)

// Client delivers browser reminders through the push gateway, the
// service-side counterpart of the in-page notification call. An unset
// gateway URL means the capability is unsupported and dispatch through
// this channel degrades to a no-op.
type Client struct {
	gatewayURL string
	httpClient *http.Client
}

// NewClient creates a push gateway client.
func NewClient(cfg *config.PushConfig) *Client {
	return &Client{
		gatewayURL: cfg.GatewayURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Supported reports whether the push gateway is configured.
func (c *Client) Supported() bool {
	return c.gatewayURL != ""
}

type pushRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// SendPush posts the reminder to the gateway for delivery to the
// user's subscribed browsers.
func (c *Client) SendPush(ctx context.Context, userID, title, body string) error {
	payload, err := json.Marshal(pushRequest{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	return nil
}
