// internal/llm/factory/factory.go
package factory

import (
	"errors"
	"fmt"

	"github.com/newthinker/sentinel/internal/config"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/llm"
	"github.com/newthinker/sentinel/internal/llm/claude"
	"github.com/newthinker/sentinel/internal/llm/gemini"
	"github.com/newthinker/sentinel/internal/llm/ollama"
	"github.com/newthinker/sentinel/internal/llm/openai"
)

// New creates an LLM provider based on configuration. Missing credentials
// are reported as core.ErrAIUnavailable so callers can fall back to a
// disabled analysis instead of failing.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	var (
		p   llm.Provider
		err error
	)
	switch cfg.Provider {
	case "claude":
		p, err = claude.New(cfg.Claude.APIKey, cfg.Claude.Model)
	case "openai":
		p, err = openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	case "ollama":
		p, err = ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model)
	case "gemini":
		p, err = gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model)
	case "":
		return nil, core.WrapError(core.ErrAIUnavailable, errors.New("no llm provider configured"))
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown LLM provider: %s", cfg.Provider))
	}
	if errors.Is(err, llm.ErrNoAPIKey) {
		return nil, core.WrapError(core.ErrAIUnavailable, err)
	}
	return p, err
}
