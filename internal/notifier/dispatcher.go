package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/newthinker/sentinel/internal/core"
	"github.com/newthinker/sentinel/internal/sentiment"
	"github.com/newthinker/sentinel/internal/view"
)

// Recorder receives per-notifier delivery outcomes.
type Recorder interface {
	RecordNotification(notifier, status string)
}

// Dispatcher turns dashboards into alerts. The first report of a session
// sets the baseline; afterwards an alert is raised when the color changes
// or a breaking event differs from the last one seen. Error and
// unavailable stand-ins never raise alerts.
type Dispatcher struct {
	registry *Registry
	metrics  Recorder
	logger   *zap.Logger

	mu   sync.Mutex
	last *sentiment.Result
}

// NewDispatcher creates a dispatcher. metrics and logger may be nil.
func NewDispatcher(registry *Registry, metrics Recorder, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, metrics: metrics, logger: logger}
}

// Evaluate returns the alert raised by d, if any, and advances the baseline.
func (d *Dispatcher) Evaluate(dash view.Dashboard) (Alert, bool) {
	if !dash.Analyzed || !dash.Sentiment.IsAnalysis() {
		return Alert{}, false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current := dash.Sentiment
	prev := d.last
	d.last = &current
	if prev == nil {
		return Alert{}, false
	}

	alert := Alert{
		SessionID: dash.SessionID,
		Previous:  *prev,
		Current:   current,
		Quotes:    dash.Quotes,
		At:        dash.UpdatedAt,
	}
	switch {
	case current.Color != prev.Color:
		alert.Kind = KindColorChange
	case current.HasBreakingEvent() && current.BreakingEvent != prev.BreakingEvent:
		alert.Kind = KindBreakingEvent
	default:
		return Alert{}, false
	}
	return alert, true
}

// Publish implements view.Publisher.
func (d *Dispatcher) Publish(ctx context.Context, dash view.Dashboard) error {
	alert, ok := d.Evaluate(dash)
	if !ok || d.registry.Len() == 0 {
		return nil
	}

	failed := d.registry.NotifyAll(ctx, alert)
	var errs []error
	for _, n := range d.registry.GetAll() {
		status := "success"
		if err, bad := failed[n.Name()]; bad {
			status = "error"
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			d.logger.Warn("notification failed",
				zap.String("notifier", n.Name()),
				zap.String("kind", string(alert.Kind)),
				zap.Error(err))
		}
		if d.metrics != nil {
			d.metrics.RecordNotification(n.Name(), status)
		}
	}
	if len(errs) > 0 {
		return core.WrapError(core.ErrNotifierFailed, errors.Join(errs...))
	}

	d.logger.Info("notification sent",
		zap.String("kind", string(alert.Kind)),
		zap.String("color", string(alert.Current.Color)))
	return nil
}
