package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/newthinker/sentinel/internal/analysis"
	"github.com/newthinker/sentinel/internal/app"
	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/collector/yahoo"
	"github.com/newthinker/sentinel/internal/config"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/llm/factory"
	"github.com/newthinker/sentinel/internal/metrics"
	"github.com/newthinker/sentinel/internal/news"
	"github.com/newthinker/sentinel/internal/notifier"
	"github.com/newthinker/sentinel/internal/notifier/telegram"
	"github.com/newthinker/sentinel/internal/notifier/webhook"
	"github.com/newthinker/sentinel/internal/storage/archive"
	"github.com/newthinker/sentinel/internal/storage/report"
	"github.com/newthinker/sentinel/internal/trigger"
	"github.com/newthinker/sentinel/internal/view"
)

// runtime is the assembled dashboard shared by every command.
type runtime struct {
	app     *app.App
	reports *report.MemoryStore
	metrics *metrics.Registry
}

// loadConfig reads the config file, or falls back to defaults when none is
// given, and validates the result.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildRuntime wires the refresh loop and its publishers from cfg.
func buildRuntime(cfg *config.Config, log *zap.Logger) (*runtime, error) {
	loc, err := cfg.Session.Location()
	if err != nil {
		return nil, err
	}
	cal, err := calendar.New(calendar.Config{
		Location:  loc,
		OpenHour:  cfg.Session.OpenHour,
		CloseHour: cfg.Session.CloseHour,
	})
	if err != nil {
		return nil, err
	}

	policy, err := trigger.ParsePolicy(cfg.Session.Policy)
	if err != nil {
		return nil, err
	}
	engine := trigger.New(trigger.Config{
		Interval: cfg.Session.AnalysisInterval,
		Policy:   policy,
		MinGap:   cfg.Session.MinGap,
	}, cal)

	invoker, err := buildInvoker(cfg, log)
	if err != nil {
		return nil, err
	}

	rt := &runtime{reports: report.NewMemoryStore(cfg.History.MaxReports)}

	publishers := []view.Publisher{report.NewRecorder(rt.reports)}

	opts := []app.Option{app.WithRefreshInterval(cfg.Session.RefreshInterval)}
	var recorder notifier.Recorder
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.NewRegistry()
		opts = append(opts, app.WithMetrics(rt.metrics))
		recorder = rt.metrics
	}

	if cfg.Archive.Enabled {
		store, err := archive.New(cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating archive: %w", err)
		}
		publishers = append(publishers, archive.NewArchiver(store))
		log.Info("report archive enabled", zap.String("type", cfg.Archive.Type))
	}

	registry, err := buildNotifiers(cfg.Notifiers)
	if err != nil {
		return nil, err
	}
	if registry.Len() > 0 {
		publishers = append(publishers, notifier.NewDispatcher(registry, recorder, log))
		log.Info("notifiers enabled", zap.Int("count", registry.Len()))
	}

	opts = append(opts, app.WithPublishers(publishers...))

	a, err := app.New(app.Deps{
		Collector:   yahoo.New(cfg.Market.Timeout),
		Feed:        news.NewRSS(cfg.News.Sources, cfg.News.PerSource, cfg.News.Timeout),
		Invoker:     invoker,
		Calendar:    cal,
		Trigger:     engine,
		Instruments: cfg.Market.Instruments,
	}, log, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	rt.app = a
	return rt, nil
}

// buildInvoker creates the sentiment invoker. Missing credentials leave the
// dashboard running with the analysis disabled.
func buildInvoker(cfg *config.Config, log *zap.Logger) (analysis.Invoker, error) {
	provider, err := factory.New(cfg.LLM)
	if errors.Is(err, core.ErrAIUnavailable) {
		log.Warn("AI analysis disabled", zap.Error(err))
		return analysis.NewUnavailable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating llm provider: %w", err)
	}

	icfg := analysis.DefaultConfig()
	icfg.Timeout = cfg.LLM.Timeout
	log.Info("AI analysis enabled", zap.String("provider", provider.Name()))
	return analysis.NewLLMInvoker(provider, icfg, log), nil
}

func buildNotifiers(cfg config.NotifiersConfig) (*notifier.Registry, error) {
	registry := notifier.NewRegistry()

	if cfg.Webhook.Enabled {
		n, err := webhook.New(cfg.Webhook.URL, cfg.Webhook.Headers)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(n); err != nil {
			return nil, err
		}
	}
	if cfg.Telegram.Enabled {
		n, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(n); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
