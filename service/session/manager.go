// Package session tracks per-node navigation state. The manager owns the
// only shared mutable state in the server; handlers read a session value,
// derive the next one and put it back.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/internal/metrics"
	"github.com/viant/meshgopher/model"
)

// Manager keeps sessions keyed by node ID. Safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
	timeout  time.Duration
}

// New creates a session manager. Sessions idle beyond timeout become
// eligible for sweeping; a non-positive timeout disables expiry.
func New(timeout time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]model.Session),
		timeout:  timeout,
	}
}

// GetOrCreate returns the session for nodeID, creating a fresh one rooted
// at / when none exists. Access refreshes LastActivity.
func (m *Manager) GetOrCreate(nodeID string) model.Session {
	now := clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[nodeID]
	if !ok {
		session = model.NewSession(nodeID)
	}
	session = session.Touched(now)
	m.sessions[nodeID] = session
	metrics.SetActiveSessions(len(m.sessions))
	return session
}

// Get returns the stored session for nodeID without refreshing activity,
// so observers never interfere with last-writer-wins persistence.
func (m *Manager) Get(nodeID string) (model.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[nodeID]
	return session, ok
}

// Put stores a session, last-writer-wins: a write carrying an older
// LastActivity than the stored one is discarded. This keeps a concurrent
// sweep-then-recreate from being clobbered by a stale delivery result.
func (m *Manager) Put(nodeID string, session model.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stored, ok := m.sessions[nodeID]; ok && stored.LastActivity.After(session.LastActivity) {
		return
	}
	m.sessions[nodeID] = session
	metrics.SetActiveSessions(len(m.sessions))
}

// Remove drops the session for nodeID, if any.
func (m *Manager) Remove(nodeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, nodeID)
	metrics.SetActiveSessions(len(m.sessions))
}

// Sweep removes sessions idle beyond the timeout as of now and returns
// how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.timeout <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for nodeID, session := range m.sessions {
		if now.Sub(session.LastActivity) > m.timeout {
			delete(m.sessions, nodeID)
			removed++
		}
	}
	if removed > 0 {
		metrics.AddSessionsSwept(removed)
		metrics.SetActiveSessions(len(m.sessions))
	}
	return removed
}

// Count returns the number of tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Nodes returns the tracked node IDs in lexical order.
func (m *Manager) Nodes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nodes := make([]string, 0, len(m.sessions))
	for nodeID := range m.sessions {
		nodes = append(nodes, nodeID)
	}
	sort.Strings(nodes)
	return nodes
}
