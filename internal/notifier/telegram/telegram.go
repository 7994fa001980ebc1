package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/sentinel/internal/notifier"
	"github.com/newthinker/sentinel/internal/sentiment"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram implements the Notifier interface for Telegram Bot API
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// New creates a new Telegram notifier
func New(botToken, chatID string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram: bot_token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram: chat_id is required")
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Send(ctx context.Context, alert notifier.Alert) error {
	return t.sendMessage(ctx, formatAlert(alert))
}

func colorEmoji(c sentiment.Color) string {
	switch c {
	case sentiment.ColorGreen:
		return "🟢"
	case sentiment.ColorRed:
		return "🔴"
	case sentiment.ColorOrange:
		return "🟠"
	default:
		return "⚪"
	}
}

func formatAlert(a notifier.Alert) string {
	var sb strings.Builder

	cur := a.Current
	switch a.Kind {
	case notifier.KindBreakingEvent:
		sb.WriteString(fmt.Sprintf("🚨 *BREAKING:* %s\n", cur.BreakingEvent))
		sb.WriteString(fmt.Sprintf("%s *%s*\n", colorEmoji(cur.Color), cur.Label))
	default:
		sb.WriteString(fmt.Sprintf("%s *%s* (was %s)\n", colorEmoji(cur.Color), cur.Label, a.Previous.Label))
		if cur.HasBreakingEvent() {
			sb.WriteString(fmt.Sprintf("🚨 %s\n", cur.BreakingEvent))
		}
	}

	if cur.Summary != "" {
		sb.WriteString(fmt.Sprintf("💡 %s\n", cur.Summary))
	}

	for _, q := range a.Quotes {
		if !q.IsValid() {
			continue
		}
		sb.WriteString(fmt.Sprintf("📊 %s: %.2f (%+.2f%%)\n", q.Label, q.Price, q.ChangePct()))
	}

	sb.WriteString(fmt.Sprintf("⏰ Time: %s", a.At.Format("2006-01-02 15:04:05")))

	return sb.String()
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The request URL carries the bot token.
		return fmt.Errorf("telegram: failed to send message: %s", redact(err.Error(), t.botToken))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result)
	}

	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
