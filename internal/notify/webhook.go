package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// WebhookSender posts a JSON payload to a destination URL. One call is one
// delivery attempt; bounded retry lives in the delivery service.
type WebhookSender interface {
	Post(ctx context.Context, url string, payload any) error
}

// WebhookClient is the production WebhookSender, a plain JSON POST with a
// bounded timeout. Any non-2xx response counts as a failed attempt.
type WebhookClient struct {
	client *http.Client
}

// NewWebhookClient builds a webhook sender with the given per-attempt timeout.
func NewWebhookClient(timeout time.Duration) *WebhookClient {
	return &WebhookClient{client: &http.Client{Timeout: timeout}}
}

// Post serializes payload and delivers it to url.
func (w *WebhookClient) Post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("webhook rejected")
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
