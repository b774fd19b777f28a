package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversPublishedEvents(t *testing.T) {
	bus := NewBus(8)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(ctx, BaseEvent{
		Type:       UserLoggedIn,
		Data:       map[string]interface{}{"user_id": "alice"},
		OccurredAt: at,
	}))

	select {
	case msg := <-messages:
		evt, err := Decode(msg)
		require.NoError(t, err)
		msg.Ack()
		assert.Equal(t, UserLoggedIn, evt.EventType())
		assert.Equal(t, "alice", evt.Payload()["user_id"])
		assert.True(t, at.Equal(evt.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(0)
	defer bus.Close()

	assert.NoError(t, bus.Publish(context.Background(), New(GuestBlocked, nil)))
}
