package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/taskforge/orchestrator/internal/orcherr"
)

const sweepInterval = 60 * time.Second

// AgentFactory constructs the Agent backing a freshly admitted session.
// Supplied by the caller (cmd/orchestratord) so this package never depends
// on internal/agent directly.
type AgentFactory func(sessionID string) (Agent, error)

// entry pairs an Agent with the bookkeeping the Manager needs. lastActivityAt
// is tracked here rather than read out of the Agent, since Agent doesn't
// expose it.
type entry struct {
	mu             sync.Mutex
	agent          Agent
	lastActivityAt time.Time
}

// Handle is the serialized view of a session's Agent that Acquire hands
// out: Run acquires the entry's mutex before delegating, so two
// consecutive Run calls on the same session never overlap, even if the
// caller races them.
type Handle struct {
	e *entry
}

// Run serializes access to the underlying Agent's Run.
func (h *Handle) Run(task string) (TaskResult, error) {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()
	return h.e.agent.Run(task)
}

// Cleanup serializes access to the underlying Agent's Cleanup.
func (h *Handle) Cleanup() error {
	h.e.mu.Lock()
	defer h.e.mu.Unlock()
	return h.e.agent.Cleanup()
}

// Manager keeps at most MaxSessions live Agents keyed by session id,
// guarantees at-most-one Agent per id, evicts the least-recently-used
// entry on overflow, and reclaims sessions idle past SessionTimeout.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry

	maxSessions    int
	sessionTimeout time.Duration
	factory        AgentFactory

	done     chan struct{}
	closeOne sync.Once
}

// NewManager starts the background sweeper immediately; call Shutdown to
// stop it.
func NewManager(maxSessions int, sessionTimeout time.Duration, factory AgentFactory) *Manager {
	m := &Manager{
		entries:        make(map[string]*entry),
		maxSessions:    maxSessions,
		sessionTimeout: sessionTimeout,
		factory:        factory,
		done:           make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Acquire returns the Agent for id, creating one via the factory if id is
// new. Refreshes lastActivityAt either way. If admitting a new session
// pushes the table over maxSessions, the least-recently-used other entry
// is evicted (never id itself).
func (m *Manager) Acquire(id string) (*Handle, error) {
	m.mu.Lock()

	if e, ok := m.entries[id]; ok {
		e.lastActivityAt = time.Now()
		m.mu.Unlock()
		return &Handle{e: e}, nil
	}

	agent, err := m.factory(id)
	if err != nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: constructing agent for session %q: %v", orcherr.ErrResourceExhausted, id, err)
	}

	e := &entry{agent: agent, lastActivityAt: time.Now()}
	m.entries[id] = e

	var evictID string
	if len(m.entries) > m.maxSessions && m.maxSessions > 0 {
		evictID = m.oldestOtherThan(id)
	}
	m.mu.Unlock()

	if evictID != "" {
		m.Release(evictID)
	}
	return &Handle{e: e}, nil
}

// oldestOtherThan returns the id with the smallest lastActivityAt,
// excluding except. Caller must hold m.mu.
func (m *Manager) oldestOtherThan(except string) string {
	var oldestID string
	var oldestAt time.Time
	for id, e := range m.entries {
		if id == except {
			continue
		}
		if oldestID == "" || e.lastActivityAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.lastActivityAt
		}
	}
	return oldestID
}

// Release runs the Agent's Cleanup and forgets the session. A cleanup
// error is logged and swallowed — it never prevents removal from the
// table. Releasing an unknown id is a no-op.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.entries, id)
	m.mu.Unlock()

	// Acquiring the entry's own mutex ensures we wait for any in-flight
	// Run to finish before Cleanup runs, per the serialization contract.
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.agent.Cleanup(); err != nil {
		log.Printf("[Session] cleanup error for %q: %v", id, err)
	}
}

// ActiveSessions lists the ids currently live.
func (m *Manager) ActiveSessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Shutdown stops the sweeper and releases every session. Idempotent.
func (m *Manager) Shutdown() {
	m.closeOne.Do(func() {
		close(m.done)
	})
	for _, id := range m.ActiveSessions() {
		m.Release(id)
	}
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweepOnce()
		}
	}
}

func (m *Manager) sweepOnce() {
	cutoff := time.Now().Add(-m.sessionTimeout)
	m.mu.Lock()
	var expired []string
	for id, e := range m.entries {
		if e.lastActivityAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.Release(id)
	}
}
