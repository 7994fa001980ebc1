package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/notifier"
	"github.com/newthinker/sentinel/internal/sentiment"
)

func TestWebhook_ImplementsNotifier(t *testing.T) {
	var _ notifier.Notifier = (*Webhook)(nil)
}

func testAlert() notifier.Alert {
	return notifier.Alert{
		Kind:      notifier.KindColorChange,
		SessionID: "s-1",
		Previous:  sentiment.Result{Color: sentiment.ColorGreen, Label: sentiment.LabelBullish},
		Current: sentiment.Result{
			Color:         sentiment.ColorRed,
			Label:         sentiment.LabelBearish,
			Summary:       "Yields spike",
			BreakingEvent: "Fed hike",
		},
		Quotes: []core.Quote{{Symbol: "NQ=F", Label: "US100 FUTURES", Price: 18000, Open: 18100}},
		At:     time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
	}
}

func TestWebhook_Name(t *testing.T) {
	w, err := New("http://example.com/hook", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Name() != "webhook" {
		t.Errorf("expected 'webhook', got %s", w.Name())
	}
}

func TestWebhook_New_RequiresURL(t *testing.T) {
	if _, err := New("", nil); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestWebhook_Send(t *testing.T) {
	var receivedPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&receivedPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	w, _ := New(server.URL, nil)

	if err := w.Send(context.Background(), testAlert()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if receivedPayload["kind"] != "color_change" {
		t.Errorf("expected kind color_change, got %v", receivedPayload["kind"])
	}
	if receivedPayload["color"] != "RED" {
		t.Errorf("expected color RED, got %v", receivedPayload["color"])
	}
	if receivedPayload["previous_color"] != "GREEN" {
		t.Errorf("expected previous_color GREEN, got %v", receivedPayload["previous_color"])
	}
	if receivedPayload["breaking_event"] != "Fed hike" {
		t.Errorf("expected breaking_event, got %v", receivedPayload["breaking_event"])
	}
	quotes, ok := receivedPayload["quotes"].([]any)
	if !ok || len(quotes) != 1 {
		t.Errorf("expected one quote, got %v", receivedPayload["quotes"])
	}
}

func TestWebhook_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	w, _ := New(server.URL, nil)

	if err := w.Send(context.Background(), testAlert()); err == nil {
		t.Error("expected error for server error response")
	}
}

func TestWebhook_CustomHeaders(t *testing.T) {
	var receivedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	headers := map[string]string{
		"Authorization": "Bearer test-token",
		"X-Custom":      "value",
	}
	w, _ := New(server.URL, headers)

	w.Send(context.Background(), testAlert())

	if receivedHeaders.Get("Authorization") != "Bearer test-token" {
		t.Error("expected Authorization header")
	}
	if receivedHeaders.Get("X-Custom") != "value" {
		t.Error("expected X-Custom header")
	}
}
