// Package analysis invokes the sentiment service and turns its answer into a
// situation report.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/llm"
	"github.com/newthinker/sentinel/internal/sentiment"
	"go.uber.org/zap"
)

// Request is the input of a single analysis.
type Request struct {
	Headlines       []string
	Mode            sentiment.Mode
	PreviousSummary string
}

// Invoker produces a situation report. A non-nil error means the service
// could not be reached or failed; the returned Result is then undefined.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (sentiment.Result, error)
}

// Config holds invoker settings.
type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default invoker settings.
func DefaultConfig() Config {
	return Config{
		Timeout:     60 * time.Second,
		MaxTokens:   256,
		Temperature: 0.2,
	}
}

// LLMInvoker calls an llm.Provider once per Invoke, without retries.
type LLMInvoker struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewLLMInvoker creates an invoker over provider.
func NewLLMInvoker(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMInvoker {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMInvoker{provider: provider, cfg: cfg, logger: logger, now: time.Now}
}

// Invoke sends the headlines to the service and parses its answer.
func (i *LLMInvoker) Invoke(ctx context.Context, req Request) (sentiment.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	start := i.now()
	resp, err := i.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(req)}},
		MaxTokens:    i.cfg.MaxTokens,
		Temperature:  i.cfg.Temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return sentiment.Result{}, core.WrapError(core.ErrAnalysisTimeout, err)
		}
		return sentiment.Result{}, core.WrapError(core.ErrAnalysisFailed, err)
	}

	result := sentiment.ParseResponse(resp.Content, req.Mode, i.now())
	i.logger.Debug("sentiment analysis complete",
		zap.String("provider", i.provider.Name()),
		zap.String("mode", string(req.Mode)),
		zap.String("color", string(result.Color)),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("latency", i.now().Sub(start)),
	)
	return result, nil
}

// BuildPrompt renders the user prompt for a request.
func BuildPrompt(req Request) string {
	var sb strings.Builder
	if len(req.Headlines) == 0 {
		sb.WriteString("- (no headlines available)\n")
	}
	for _, h := range req.Headlines {
		sb.WriteString("- ")
		sb.WriteString(h)
		sb.WriteString("\n")
	}

	prev := ""
	if req.PreviousSummary != "" {
		prev = fmt.Sprintf(previousLine, req.PreviousSummary)
	}

	tmpl := standardPrompt
	if req.Mode == sentiment.ModeEndOfDay {
		tmpl = endOfDayPrompt
	}
	return fmt.Sprintf(tmpl, sb.String(), prev)
}

// Unavailable stands in when the service has no credentials. It never
// fails and never leaves the process.
type Unavailable struct {
	now func() time.Time
}

// NewUnavailable creates the disabled invoker.
func NewUnavailable() *Unavailable {
	return &Unavailable{now: time.Now}
}

// Invoke returns the fixed "AI UNAVAILABLE" report.
func (u *Unavailable) Invoke(_ context.Context, req Request) (sentiment.Result, error) {
	r := sentiment.UnavailableResult(u.now())
	r.Mode = req.Mode
	return r, nil
}
