// internal/storage/report/memory.go
package report

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/newthinker/sentinel/internal/core"
)

// MemoryStore is a bounded in-memory report store scoped to one session.
type MemoryStore struct {
	reports []Report
	maxSize int
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory store with max capacity.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &MemoryStore{
		reports: make([]Report, 0, maxSize),
		maxSize: maxSize,
	}
}

// Save adds a report, dropping the oldest once over capacity.
func (m *MemoryStore) Save(ctx context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	saved := *r
	saved.Headlines = append([]string(nil), r.Headlines...)
	m.reports = append(m.reports, saved)

	if len(m.reports) > m.maxSize {
		m.reports = append([]Report(nil), m.reports[len(m.reports)-m.maxSize:]...)
	}

	return nil
}

// GetByID retrieves a report by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.reports {
		if m.reports[i].ID == id {
			r := m.reports[i]
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

// List returns reports matching the filter, newest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []Report{}
	for i := len(m.reports) - 1; i >= 0; i-- {
		if matches(m.reports[i], filter) {
			result = append(result, m.reports[i])
		}
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []Report{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Count returns the count of matching reports.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, r := range m.reports {
		if matches(r, filter) {
			count++
		}
	}
	return count, nil
}

func matches(r Report, filter ListFilter) bool {
	if filter.Color != "" && r.Result.Color != filter.Color {
		return false
	}
	if filter.Mode != "" && r.Result.Mode != filter.Mode {
		return false
	}
	if !filter.From.IsZero() && r.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && r.CreatedAt.After(filter.To) {
		return false
	}
	return true
}
