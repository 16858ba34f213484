// Package messaging delivers relayed outbox events to subscribers over
// Redis pub/sub.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"synexpos/internal/infrastructure/storage/postgres"
	"synexpos/pkg/logger"
)

// DefaultChannelPrefix prefixes every pub/sub channel, so a sale is
// published on "synexpos.events.sale.completed".
const DefaultChannelPrefix = "synexpos.events."

// Envelope is the message body seen by subscribers.
type Envelope struct {
	ID            string          `json:"id"`
	EventType     string          `json:"eventType"`
	AggregateType string          `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Payload       json.RawMessage `json:"payload"`
}

// RedisPublisher implements postgres.OutboxHandler.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

var _ postgres.OutboxHandler = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher. An empty prefix uses DefaultChannelPrefix.
func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel of an event type.
func (p *RedisPublisher) Channel(eventType string) string {
	return p.prefix + eventType
}

func newEnvelope(msg *postgres.OutboxMessage) Envelope {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return Envelope{
		ID:            msg.ID.String(),
		EventType:     msg.EventType,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		OccurredAt:    msg.CreatedAt,
		Payload:       payload,
	}
}

// Handle publishes the message. Having no subscriber is not an error; the
// event is delivered at most once per relay attempt.
func (p *RedisPublisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	body, err := json.Marshal(newEnvelope(msg))
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.Channel(msg.EventType), body).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.EventType, err)
	}

	logger.Debug(ctx, "outbox event published",
		"event_type", msg.EventType, "aggregate_id", msg.AggregateID, "receivers", receivers)
	return nil
}

// LogHandler is the outbox handler used when Redis is not configured.
type LogHandler struct{}

func (LogHandler) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	logger.Info(ctx, "outbox event",
		"event_type", msg.EventType, "aggregate_type", msg.AggregateType, "aggregate_id", msg.AggregateID)
	return nil
}
