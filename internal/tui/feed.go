package tui

import (
	"context"
	"sync"

	"github.com/newthinker/sentinel/internal/view"
)

// Feed hands dashboards from the refresh loop to the terminal program. Only
// the newest undelivered dashboard is kept, so a busy terminal never slows
// the loop down.
type Feed struct {
	ch        chan view.Dashboard
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan view.Dashboard, 1)}
}

// Publish implements view.Publisher.
func (f *Feed) Publish(_ context.Context, d view.Dashboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	for {
		select {
		case f.ch <- d:
			return nil
		default:
		}
		// Drop the stale dashboard and retry.
		select {
		case <-f.ch:
		default:
		}
	}
}

// Close ends the feed; the program sees feedClosedMsg.
func (f *Feed) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		close(f.ch)
		f.mu.Unlock()
	})
}

// C returns the receive side of the feed.
func (f *Feed) C() <-chan view.Dashboard {
	return f.ch
}
