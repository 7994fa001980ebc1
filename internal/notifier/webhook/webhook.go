// Package webhook implements an HTTP webhook notifier
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/sentinel/internal/notifier"
)

// Webhook implements the Notifier interface for HTTP webhooks
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New creates a new Webhook notifier
func New(url string, headers map[string]string) (*Webhook, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook: url is required")
	}
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Send(ctx context.Context, alert notifier.Alert) error {
	return w.post(ctx, alertToPayload(alert))
}

type quotePayload struct {
	Symbol string  `json:"symbol"`
	Label  string  `json:"label"`
	Price  float64 `json:"price"`
	Open   float64 `json:"open"`
}

type payload struct {
	Type          string         `json:"type"`
	Kind          notifier.Kind  `json:"kind"`
	SessionID     string         `json:"session_id"`
	Color         string         `json:"color"`
	Label         string         `json:"label"`
	Summary       string         `json:"summary"`
	BreakingEvent string         `json:"breaking_event,omitempty"`
	PreviousColor string         `json:"previous_color"`
	Quotes        []quotePayload `json:"quotes,omitempty"`
	GeneratedAt   string         `json:"generated_at"`
}

func alertToPayload(a notifier.Alert) payload {
	p := payload{
		Type:          "sentiment",
		Kind:          a.Kind,
		SessionID:     a.SessionID,
		Color:         string(a.Current.Color),
		Label:         a.Current.Label,
		Summary:       a.Current.Summary,
		BreakingEvent: a.Current.BreakingEvent,
		PreviousColor: string(a.Previous.Color),
		GeneratedAt:   a.At.Format(time.RFC3339),
	}
	for _, q := range a.Quotes {
		p.Quotes = append(p.Quotes, quotePayload{Symbol: q.Symbol, Label: q.Label, Price: q.Price, Open: q.Open})
	}
	return p
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}

	return nil
}
