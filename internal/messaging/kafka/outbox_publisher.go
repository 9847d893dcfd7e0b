package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"etqan-payroll/internal/events"
	"etqan-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
)

// OutboxPublisher queues events in the outbox table; the worker forwards
// them to Kafka.
type OutboxPublisher struct {
	repo OutboxRepository
}

func NewOutboxPublisher(repo OutboxRepository) *OutboxPublisher {
	return &OutboxPublisher{repo: repo}
}

func (p *OutboxPublisher) Publish(ctx context.Context, event events.Event) error {
	outboxEvent, err := NewOutboxEvent(event, contextutil.GetRequestID(ctx))
	if err != nil {
		return err
	}
	return p.repo.Create(ctx, outboxEvent)
}

func NewOutboxEvent(event events.Event, requestID string) (OutboxEvent, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}

	outboxEvent := OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     requestID,
		AggregateType: event.AggregateType(),
		AggregateID:   event.EventKey(),
		EventType:     event.EventName(),
		Topic:         event.EventTopic(),
		DedupeKey:     event.DedupeKey(),
		Payload:       payload,
		Status:        OutboxStatusPending,
	}
	if err := ValidateOutboxEvent(outboxEvent); err != nil {
		return OutboxEvent{}, err
	}
	return outboxEvent, nil
}
