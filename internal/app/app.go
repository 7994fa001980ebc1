// Package app owns the refresh loop and the live session it drives.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/newthinker/sentinel/internal/analysis"
	"github.com/newthinker/sentinel/internal/calendar"
	"github.com/newthinker/sentinel/internal/collector"
	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/fingerprint"
	"github.com/newthinker/sentinel/internal/news"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/trigger"
	"github.com/newthinker/sentinel/internal/view"
)

// DefaultRefreshInterval is the wake interval of the loop.
const DefaultRefreshInterval = 60 * time.Second

// Metrics receives per-cycle observations.
type Metrics interface {
	RecordCycle(d time.Duration)
	RecordDecision(reason string, run bool)
	RecordInvocation(mode, outcome string, d time.Duration)
	SetPhase(phase string)
}

type noopMetrics struct{}

func (noopMetrics) RecordCycle(time.Duration)                      {}
func (noopMetrics) RecordDecision(string, bool)                    {}
func (noopMetrics) RecordInvocation(string, string, time.Duration) {}
func (noopMetrics) SetPhase(string)                                {}

// Session is one live dashboard session. Its cache is owned by the loop and
// discarded with the session.
type Session struct {
	ID        string
	StartedAt time.Time
	Cache     *sentiment.Cache
}

// Deps are the collaborators of the refresh loop.
type Deps struct {
	Collector   collector.Collector
	Feed        news.Feed
	Invoker     analysis.Invoker
	Calendar    *calendar.Calendar
	Trigger     *trigger.Engine
	Instruments []core.Instrument
}

func (d Deps) validate() error {
	switch {
	case d.Collector == nil:
		return errors.New("collector required")
	case d.Feed == nil:
		return errors.New("news feed required")
	case d.Invoker == nil:
		return errors.New("invoker required")
	case d.Calendar == nil:
		return errors.New("calendar required")
	case d.Trigger == nil:
		return errors.New("trigger engine required")
	}
	return nil
}

// Option configures an App.
type Option func(*App)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(a *App) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithPublishers adds view publishers.
func WithPublishers(ps ...view.Publisher) Option {
	return func(a *App) { a.publishers = append(a.publishers, ps...) }
}

// WithRefreshInterval sets the wake interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// App is the refresh loop. Cycles never overlap; the sentiment cache is
// written only from inside a cycle and read through immutable snapshots.
type App struct {
	deps     Deps
	logger   *zap.Logger
	metrics  Metrics
	now      func() time.Time
	interval time.Duration
	session  Session

	pubMu      sync.RWMutex
	publishers []view.Publisher

	override atomic.Bool
	wake     chan struct{}
	latest   atomic.Pointer[view.Dashboard]

	cycleMu sync.Mutex
	cycles  atomic.Int64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates an App with a fresh session.
func New(deps Deps, logger *zap.Logger, opts ...Option) (*App, error) {
	if err := deps.validate(); err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		deps:     deps,
		logger:   logger,
		metrics:  noopMetrics{},
		now:      time.Now,
		interval: DefaultRefreshInterval,
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.session = Session{
		ID:        uuid.NewString(),
		StartedAt: a.now(),
		Cache:     sentiment.NewCache(),
	}
	return a, nil
}

// Session returns the live session.
func (a *App) Session() Session {
	return a.session
}

// AddPublisher registers a publisher for subsequent cycles.
func (a *App) AddPublisher(p view.Publisher) {
	a.pubMu.Lock()
	defer a.pubMu.Unlock()
	a.publishers = append(a.publishers, p)
}

// RequestRefresh asks for an immediate cycle that bypasses the staleness
// rules. The request is consumed by the next cycle to start; a request made
// while a cycle is already fetching is carried to the following cycle, which
// the wake signal schedules right after the current one.
func (a *App) RequestRefresh() {
	a.override.Store(true)
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Latest returns the last published dashboard. Before the first cycle it
// returns a placeholder so views never render an empty state.
func (a *App) Latest() view.Dashboard {
	if d := a.latest.Load(); d != nil {
		return *d
	}
	now := a.now()
	state := a.session.Cache.Load()
	return view.Dashboard{
		SessionID: a.session.ID,
		Phase:     a.deps.Calendar.PhaseAt(now),
		Sentiment: state.Current,
		UpdatedAt: now,
	}
}

// Start runs a cycle immediately and then on every wake until ctx is done.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return fmt.Errorf("app already running")
	}
	a.running = true

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.logger.Info("sentinel starting",
		zap.String("session_id", a.session.ID),
		zap.Int("instruments", len(a.deps.Instruments)),
		zap.Duration("interval", a.interval),
		zap.String("timezone", a.deps.Calendar.Location().String()),
		zap.String("policy", string(a.deps.Trigger.Config().Policy)),
		zap.Duration("analysis_interval", a.deps.Trigger.Config().Interval),
	)

	a.RunOnce(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("sentinel shutting down", zap.String("session_id", a.session.ID))
			return ctx.Err()
		case <-ticker.C:
			a.RunOnce(ctx)
		case <-a.wake:
			a.RunOnce(ctx)
		}
	}
}

// Stop stops the loop
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Running reports whether Start is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// RunOnce performs a single refresh cycle and returns the published
// dashboard. Concurrent callers are serialized.
func (a *App) RunOnce(ctx context.Context) view.Dashboard {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()

	start := a.now()
	cycle := a.cycles.Add(1)
	// Taken before the fetch so a request arriving mid-cycle waits for the
	// next one instead of merging into this decision.
	manual := a.override.Swap(false)

	quotes, headlines := a.fetch(ctx)

	now := a.now()
	phase := a.deps.Calendar.PhaseAt(now)
	titles := core.Titles(headlines)
	fp := fingerprint.Of(titles)
	state := a.session.Cache.Load()

	decision := a.deps.Trigger.Decide(trigger.Context{
		Now:            now,
		Phase:          phase,
		Fingerprint:    fp,
		ManualOverride: manual,
		State:          state,
	})
	a.metrics.SetPhase(string(phase))
	a.metrics.RecordDecision(string(decision.Reason), decision.Run)

	if decision.Run {
		state = a.invoke(ctx, decision, titles, fp, state, now)
		a.session.Cache.Store(state)
	}

	dash := view.Dashboard{
		SessionID: a.session.ID,
		Cycle:     cycle,
		Phase:     phase,
		Quotes:    quotes,
		News:      headlines,
		Sentiment: state.Current,
		LastRunAt: state.LastRunAt,
		Decision:  decision,
		Analyzed:  decision.Run,
		UpdatedAt: now,
	}
	a.latest.Store(&dash)
	a.publish(ctx, dash)

	elapsed := a.now().Sub(start)
	a.metrics.RecordCycle(elapsed)
	a.logger.Debug("refresh cycle complete",
		zap.Int64("cycle", cycle),
		zap.String("phase", string(phase)),
		zap.String("reason", string(decision.Reason)),
		zap.Bool("analyzed", decision.Run),
		zap.String("fingerprint", fp.Short()),
		zap.Duration("duration", elapsed),
	)
	return dash
}

// fetch pulls quotes and headlines concurrently. Failures degrade to zero
// quotes or fewer headlines and are only logged.
func (a *App) fetch(ctx context.Context) ([]core.Quote, []core.Headline) {
	var (
		quotes    []core.Quote
		headlines []core.Headline
	)

	var g errgroup.Group
	g.Go(func() error {
		q, err := collector.Snapshot(ctx, a.deps.Collector, a.deps.Instruments)
		if err != nil {
			a.logger.Warn("market data degraded",
				zap.String("collector", a.deps.Collector.Name()),
				zap.Error(err))
		}
		quotes = q
		return nil
	})
	g.Go(func() error {
		h, err := a.deps.Feed.Headlines(ctx)
		if err != nil {
			a.logger.Warn("news feed degraded", zap.Int("headlines", len(h)), zap.Error(err))
		}
		headlines = h
		return nil
	})
	_ = g.Wait()

	return quotes, headlines
}

func (a *App) invoke(ctx context.Context, d trigger.Decision, titles []string, fp fingerprint.Digest, state sentiment.State, now time.Time) sentiment.State {
	req := analysis.Request{Headlines: titles, Mode: d.Mode}
	if state.Current.IsAnalysis() {
		req.PreviousSummary = state.Current.Summary
	}

	start := a.now()
	result, err := a.deps.Invoker.Invoke(ctx, req)
	elapsed := a.now().Sub(start)

	if err != nil {
		outcome := "error"
		if errors.Is(err, core.ErrAnalysisTimeout) {
			outcome = "timeout"
		}
		a.metrics.RecordInvocation(string(d.Mode), outcome, elapsed)
		a.logger.Warn("sentiment analysis failed",
			zap.String("mode", string(d.Mode)),
			zap.String("reason", string(d.Reason)),
			zap.Error(err))
		return state.Failed(now, err)
	}

	outcome := "success"
	if result.Label == sentiment.LabelUnavailable {
		outcome = "unavailable"
	}
	a.metrics.RecordInvocation(string(d.Mode), outcome, elapsed)
	a.logger.Info("sentiment updated",
		zap.String("mode", string(d.Mode)),
		zap.String("reason", string(d.Reason)),
		zap.String("color", string(result.Color)),
		zap.Bool("breaking", result.HasBreakingEvent()))
	return state.Succeeded(now, fp, result)
}

func (a *App) publish(ctx context.Context, d view.Dashboard) {
	a.pubMu.RLock()
	pubs := make([]view.Publisher, len(a.publishers))
	copy(pubs, a.publishers)
	a.pubMu.RUnlock()

	for _, p := range pubs {
		if err := p.Publish(ctx, d); err != nil {
			a.logger.Warn("publish failed",
				zap.String("publisher", fmt.Sprintf("%T", p)),
				zap.Error(err))
		}
	}
}

// Stats returns loop statistics.
func (a *App) Stats() map[string]any {
	state := a.session.Cache.Load()
	return map[string]any{
		"running":     a.Running(),
		"session_id":  a.session.ID,
		"started_at":  a.session.StartedAt,
		"cycles":      a.cycles.Load(),
		"analyses":    state.Runs,
		"last_run_at": state.LastRunAt,
	}
}
