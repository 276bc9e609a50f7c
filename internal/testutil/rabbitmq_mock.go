package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

// PublishedEvent is one event captured by MockPublisher
type PublishedEvent struct {
	RoutingKey string
	RawJSON    []byte
}

// Decode unmarshals the captured payload into out
func (e PublishedEvent) Decode(t *testing.T, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.RawJSON, out); err != nil {
		t.Fatalf("Failed to decode %s event: %v", e.RoutingKey, err)
	}
}

// MockPublisher records portal events in memory instead of sending them to RabbitMQ
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish stores the JSON form of the event
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, RawJSON: raw})
	return nil
}

// Close is a no-op for mock publisher
func (m *MockPublisher) Close() error {
	return nil
}

// EventsByKey returns all events with the given routing key, oldest first
func (m *MockPublisher) EventsByKey(routingKey string) []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []PublishedEvent
	for _, event := range m.events {
		if event.RoutingKey == routingKey {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// AssertEventCount asserts the exact number of events with the given routing key
func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()

	if count := len(m.EventsByKey(routingKey)); count != expected {
		t.Errorf("Expected %d events with routing key '%s', got %d", expected, routingKey, count)
	}
}

// LastEvent returns the most recent event with the given routing key
func (m *MockPublisher) LastEvent(t *testing.T, routingKey string) PublishedEvent {
	t.Helper()

	events := m.EventsByKey(routingKey)
	if len(events) == 0 {
		t.Fatalf("Expected an event with routing key '%s', found none", routingKey)
	}
	return events[len(events)-1]
}
