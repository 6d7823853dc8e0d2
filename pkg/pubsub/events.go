package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const EventOrderCreated = "order.created"

// Envelope is the JSON body of every published domain event.
type Envelope struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Sender delivers one encoded message and returns the server-assigned id.
type Sender interface {
	Send(ctx context.Context, data []byte, attributes map[string]string) (string, error)
}

// EventPublisher wraps domain payloads in an Envelope and hands them to a Sender.
type EventPublisher struct {
	sender Sender
	now    func() time.Time
}

func NewEventPublisher(sender Sender) *EventPublisher {
	return &EventPublisher{sender: sender, now: time.Now}
}

// Publish encodes payload under eventType and blocks until the broker acks.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	if p == nil || p.sender == nil {
		return errors.New("event publisher not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	env := Envelope{
		ID:         uuid.New(),
		Type:       eventType,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", eventType, err)
	}
	if _, err := p.sender.Send(ctx, body, map[string]string{
		"event_type": eventType,
		"event_id":   env.ID.String(),
	}); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// TopicSender adapts a Pub/Sub publisher to Sender.
type TopicSender struct {
	publisher *pubsub.Publisher
}

func NewTopicSender(publisher *pubsub.Publisher) *TopicSender {
	return &TopicSender{publisher: publisher}
}

func (s *TopicSender) Send(ctx context.Context, data []byte, attributes map[string]string) (string, error) {
	if s == nil || s.publisher == nil {
		return "", errors.New("pubsub publisher not configured")
	}
	result := s.publisher.Publish(ctx, &pubsub.Message{Data: data, Attributes: attributes})
	return result.Get(ctx)
}
