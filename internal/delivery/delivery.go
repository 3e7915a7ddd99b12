package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"flatbot/pkg/logger"
)

// Deliverer pushes an outbound notification (fired reminder, weekly
// announcement) toward the chat transport.
type Deliverer interface {
	Deliver(target, message string) error
}

type payload struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Webhook posts notifications as JSON to the transport's callback URL.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) Deliver(target, message string) error {
	body, err := json.Marshal(payload{Target: target, Message: message})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Log is the fallback when no webhook is configured: notifications land
// in the process log instead of vanishing.
type Log struct{}

func (Log) Deliver(target, message string) error {
	log.Info().
		Str(logger.SenderField, target).
		Str("message", message).
		Msg("notification (no webhook configured)")
	return nil
}
