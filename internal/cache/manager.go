// Package cache keeps the order candidate list in memory so every matched
// page does not re-query the orders table. Candidate sets are small but a
// single PDF can trigger hundreds of lookups.
package cache

import (
	"sync"
	"time"

	"label-matcher/internal/match"
)

// Manager caches the candidate list with a TTL. Order mutations invalidate
// it so freshly created orders are matchable immediately.
type Manager struct {
	mu        sync.Mutex
	disabled  bool
	ttl       time.Duration
	expiresAt time.Time
	snapshot  []match.Candidate
	valid     bool
}

// NewManager creates a cache manager. A disabled manager always misses.
func NewManager(disabled bool, ttl time.Duration) *Manager {
	return &Manager{
		disabled: disabled,
		ttl:      ttl,
	}
}

// Get returns the cached candidate list, or ok=false on a miss.
func (m *Manager) Get() ([]match.Candidate, bool) {
	if m.disabled {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.valid || time.Now().After(m.expiresAt) {
		m.valid = false
		return nil, false
	}

	// Callers iterate only, but hand out a copy so a future append cannot
	// corrupt the snapshot.
	out := make([]match.Candidate, len(m.snapshot))
	copy(out, m.snapshot)
	return out, true
}

// Set stores a fresh candidate list.
func (m *Manager) Set(candidates []match.Candidate) {
	if m.disabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = make([]match.Candidate, len(candidates))
	copy(m.snapshot, candidates)
	m.expiresAt = time.Now().Add(m.ttl)
	m.valid = true
}

// Invalidate drops the snapshot. Called on any order mutation.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valid = false
	m.snapshot = nil
}
