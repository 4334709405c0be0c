package realtime

import (
	"context"
	"fmt"
	"sync"
)

// Manager owns the room subscription for one screen. A screen is in at
// most one room at a time: switching complaints leaves the old room
// before joining the new one, and Close always leaves. Events that
// arrive for a complaint other than the current one (a slow unsubscribe
// can race a delivery) are dropped before the handler sees them.
type Manager struct {
	broker Broker

	mu          sync.Mutex
	complaintID string
	sub         Subscription
}

// NewManager creates a manager over the given broker.
func NewManager(b Broker) *Manager {
	return &Manager{broker: b}
}

// Subscribe enters the given complaint's room. Any existing room is
// left first. Subscribing again to the current complaint re-issues the
// join, which is idempotent server-side.
func (m *Manager) Subscribe(ctx context.Context, complaintID string, h Handler) error {
	if complaintID == "" {
		return fmt.Errorf("subscribe: empty complaint id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sub != nil {
		_ = m.sub.Close()
		m.sub = nil
		m.complaintID = ""
	}

	guarded := func(ev Event) {
		m.mu.Lock()
		current := m.complaintID
		m.mu.Unlock()
		if ev.ComplaintID != current {
			return
		}
		h(ev)
	}

	sub, err := m.broker.Join(ctx, complaintID, guarded)
	if err != nil {
		return err
	}
	m.sub = sub
	m.complaintID = complaintID
	return nil
}

// Unsubscribe leaves the current room, if any.
func (m *Manager) Unsubscribe() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub == nil {
		return nil
	}
	err := m.sub.Close()
	m.sub = nil
	m.complaintID = ""
	return err
}

// Current returns the complaint id of the room currently joined, or ""
// when unsubscribed.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.complaintID
}

// Close is Unsubscribe under the name teardown paths expect.
func (m *Manager) Close() error {
	return m.Unsubscribe()
}
