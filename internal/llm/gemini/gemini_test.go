// internal/llm/gemini/gemini_test.go
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newthinker/sentinel/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ llm.Provider = (*Provider)(nil)
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("", "")
	assert.True(t, errors.Is(err, llm.ErrNoAPIKey))
}

func TestNew_Defaults(t *testing.T) {
	p, err := New("key", "")
	require.NoError(t, err)
	assert.Equal(t, defaultModel, p.model)
	assert.Equal(t, defaultBaseURL, p.baseURL)
}

func TestChat(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "GREEN|Rates steady, "}, {"text": "risk-on|NONE"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 50, "candidatesTokenCount": 9, "totalTokenCount": 59}
		}`))
	}))
	defer srv.Close()

	p, err := New("secret", "gemini-test", WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "be terse",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "headlines"},
			{Role: llm.RoleAssistant, Content: "previous"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "GREEN|Rates steady, risk-on|NONE", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 50, resp.Usage.InputTokens)
	assert.Equal(t, 9, resp.Usage.OutputTokens)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be terse", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 2)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, llm.DefaultMaxTokens, got.GenerationConfig.MaxOutputTokens)
}

func TestChat_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, llm.ErrNoAPIKey},
		{http.StatusUnauthorized, llm.ErrNoAPIKey},
		{http.StatusTooManyRequests, llm.ErrRateLimited},
		{http.StatusInternalServerError, nil},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"code":1,"message":"nope","status":"X"}}`))
			}))
			defer srv.Close()

			p, _ := New("secret", "m", WithBaseURL(srv.URL))
			_, err := p.Chat(context.Background(), llm.ChatRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "x"}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "nope")
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestChat_TransportErrorHidesKey(t *testing.T) {
	p, _ := New("super-secret", "m", WithBaseURL("http://127.0.0.1:1"))

	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "x"}},
	})
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "super-secret"))
}
