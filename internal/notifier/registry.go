package notifier

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/newthinker/sentinel/internal/core"
)

// DefaultSendTimeout bounds a single delivery so that one unreachable
// endpoint cannot stall the refresh loop.
const DefaultSendTimeout = 10 * time.Second

// Registry holds the configured notifiers by unique name.
type Registry struct {
	mu          sync.RWMutex
	notifiers   map[string]Notifier
	sendTimeout time.Duration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		notifiers:   make(map[string]Notifier),
		sendTimeout: DefaultSendTimeout,
	}
}

// Register adds n. Names must be unique.
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, exists := r.notifiers[name]; exists {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("notifier %s already registered", name))
	}
	r.notifiers[name] = n
	return nil
}

// Get returns the notifier called name.
func (r *Registry) Get(name string) (Notifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notifiers[name]
	if !exists {
		return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("notifier %s", name))
	}
	return n, nil
}

// GetAll returns all registered notifiers sorted by name
func (r *Registry) GetAll() []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Notifier, 0, len(r.notifiers))
	for _, n := range r.notifiers {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Len returns the number of registered notifiers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notifiers)
}

// NotifyAll delivers alert to every notifier concurrently, each bounded by
// the send timeout. It returns the failures keyed by notifier name.
func (r *Registry) NotifyAll(ctx context.Context, alert Alert) map[string]error {
	var (
		mu     sync.Mutex
		failed = make(map[string]error)
	)

	var g errgroup.Group
	for _, n := range r.GetAll() {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, r.sendTimeout)
			defer cancel()
			if err := n.Send(sctx, alert); err != nil {
				mu.Lock()
				failed[n.Name()] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failed
}
