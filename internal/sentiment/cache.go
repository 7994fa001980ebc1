package sentiment

import (
	"sync/atomic"
	"time"

	"github.com/newthinker/sentinel/internal/fingerprint"
)

// State is an immutable snapshot of a session's sentiment cache.
type State struct {
	// LastRunAt is the time of the last invocation, successful or not.
	// Zero means never run.
	LastRunAt time.Time `json:"last_run_at"`
	// LastFingerprint is the headline digest of the last successful run.
	LastFingerprint fingerprint.Digest `json:"last_fingerprint,omitempty"`
	// Current is the report shown on the dashboard.
	Current Result `json:"current"`
	// Runs counts invocations in this session.
	Runs int `json:"runs"`
}

// NeverRun reports whether the session has not invoked the analysis yet.
func (s State) NeverRun() bool {
	return s.LastRunAt.IsZero()
}

// Succeeded returns the state after a successful invocation.
func (s State) Succeeded(at time.Time, fp fingerprint.Digest, r Result) State {
	return State{
		LastRunAt:       at,
		LastFingerprint: fp,
		Current:         r,
		Runs:            s.Runs + 1,
	}
}

// Failed returns the state after a failed invocation. The run time advances
// so the normal interval applies before the next attempt, while the
// fingerprint is cleared so content-based staleness does not suppress the
// retry.
func (s State) Failed(at time.Time, cause error) State {
	return State{
		LastRunAt: at,
		Current:   ErrorResult(cause, at),
		Runs:      s.Runs + 1,
	}
}

// Cache is the mutable, session-scoped holder of the sentiment State.
// Readers always observe a complete snapshot; writers replace the whole
// record.
type Cache struct {
	state atomic.Pointer[State]
}

// NewCache creates a cache in the "never run" state.
func NewCache() *Cache {
	c := &Cache{}
	c.state.Store(&State{Current: Placeholder()})
	return c
}

// Load returns the current snapshot.
func (c *Cache) Load() State {
	return *c.state.Load()
}

// Store replaces the snapshot.
func (c *Cache) Store(s State) {
	c.state.Store(&s)
}
