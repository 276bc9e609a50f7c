package messaging

import (
	"context"
	"log"
)

// PublisherInterface defines the contract for event publishing
// This allows for easy mocking in tests
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

// Ensure Publisher implements PublisherInterface
var _ PublisherInterface = (*Publisher)(nil)

// PublishOrLog publishes an event and only logs a failure. Panels never let
// event delivery affect what the user sees.
func PublishOrLog(ctx context.Context, p PublisherInterface, routingKey string, eventData interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, eventData); err != nil {
		log.Printf("[WARN] Failed to publish %s: %v", routingKey, err)
	}
}
