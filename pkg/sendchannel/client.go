// Package sendchannel wraps the external HTTP endpoint that performs one
// outbound delivery. The endpoint is stateless: a POST per message, 2xx for
// success, and a human-readable error body on failure.
package sendchannel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client interface {
	Send(ctx context.Context, req SendRequest) error
}

// SendRequest is the wire payload of one delivery.
type SendRequest struct {
	Message  string `json:"message"`
	Target   string `json:"target"`
	Token    string `json:"token"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// StatusError reports a non-2xx response. Body is shown to the user verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("send channel returned status %d: %s", e.StatusCode, e.Body)
}

type HTTPClient struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *HTTPClient) Send(ctx context.Context, sendReq SendRequest) error {
	jsonData, err := json.Marshal(sendReq)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
