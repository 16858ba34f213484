package messaging

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/id"
	"synexpos/internal/infrastructure/storage/postgres"
)

func sampleMessage() *postgres.OutboxMessage {
	return &postgres.OutboxMessage{
		ID:            id.New(),
		AggregateType: "bill",
		AggregateID:   "20260601-000001",
		EventType:     "sale.completed",
		Payload:       []byte(`{"total":"180.00"}`),
		CreatedAt:     time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEnvelope(t *testing.T) {
	msg := sampleMessage()
	env := newEnvelope(msg)

	assert.Equal(t, msg.ID.String(), env.ID)
	assert.Equal(t, "sale.completed", env.EventType)
	assert.JSONEq(t, `{"total":"180.00"}`, string(env.Payload))

	msg.Payload = nil
	assert.Equal(t, "null", string(newEnvelope(msg).Payload))
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "synexpos.events.stock.moved", NewRedisPublisher(nil, "").Channel("stock.moved"))
	assert.Equal(t, "pos.sale.completed", NewRedisPublisher(nil, "pos.").Channel("sale.completed"))
}

func TestRedisPublisher_DeliversToSubscriber(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pub := NewRedisPublisher(client, "synexpos.test.")
	sub := client.Subscribe(ctx, pub.Channel("sale.completed"))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Handle(ctx, sampleMessage()))

	select {
	case m := <-sub.Channel():
		assert.Contains(t, m.Payload, `"aggregateId":"20260601-000001"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
