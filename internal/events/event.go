package events

import "context"

// Event is anything that can be queued for Kafka.
type Event interface {
	EventName() string
	EventTopic() string
	// EventKey is the partition key and the aggregate id.
	EventKey() string
	AggregateType() string
	// DedupeKey identifies the fact the event describes; enqueueing the same
	// fact twice is a no-op.
	DedupeKey() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops events; used when no outbox is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
