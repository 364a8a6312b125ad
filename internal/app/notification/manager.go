// Package notification provides the notification manager for broadcasting playback events.
package notification

import (
	"sync"

	"github.com/google/uuid"

	"github.com/osa030/sdbox/internal/app/playback"
)

// Notification is a playback event stamped with a sequence number.
type Notification struct {
	SequenceNo uint64
	Event      playback.Event
}

// Subscriber receives notifications. Receive is called from the control loop
// and must return promptly.
type Subscriber interface {
	Receive(n Notification) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(n Notification) error

// Receive calls f(n).
func (f SubscriberFunc) Receive(n Notification) error {
	return f(n)
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id         string
	subscriber Subscriber
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions []*subscription
	sequenceNo    uint64
	failures      map[string]int
}

// maxFailures is the number of consecutive errors after which a subscriber is dropped.
const maxFailures = 3

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		failures: make(map[string]int),
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(s Subscriber) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions = append(m.subscriptions, &subscription{
		id:         id,
		subscriber: s,
	})
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribeLocked(subscriptionID)
}

func (m *Manager) unsubscribeLocked(subscriptionID string) {
	for i, sub := range m.subscriptions {
		if sub.id == subscriptionID {
			m.subscriptions = append(m.subscriptions[:i], m.subscriptions[i+1:]...)
			break
		}
	}
	delete(m.failures, subscriptionID)
}

// Broadcast stamps e with the next sequence number and delivers it to every
// subscriber in subscription order. A subscriber failing maxFailures times in a
// row is removed.
func (m *Manager) Broadcast(e playback.Event) Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sequenceNo++
	n := Notification{SequenceNo: m.sequenceNo, Event: e}

	var dropped []string
	for _, sub := range m.subscriptions {
		if err := sub.subscriber.Receive(n); err != nil {
			m.failures[sub.id]++
			if m.failures[sub.id] >= maxFailures {
				dropped = append(dropped, sub.id)
			}
			continue
		}
		delete(m.failures, sub.id)
	}
	for _, id := range dropped {
		m.unsubscribeLocked(id)
	}

	return n
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = nil
	m.failures = make(map[string]int)
}
