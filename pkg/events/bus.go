package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ActivityTopic is the in-process topic carrying every activity event.
const ActivityTopic = "synthmind.activity"

// Bus is an in-process pub/sub for activity events.
type Bus struct {
	pubSub *gochannel.GoChannel
}

var _ Publisher = (*Bus)(nil)

func NewBus(buffer int64) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: buffer},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *Bus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}

	// ctx is not attached: request contexts do not outlive the request.
	return b.pubSub.Publish(ActivityTopic, message.NewMessage(watermill.NewUUID(), payload))
}

// Subscribe returns the raw message stream. Every message must be acked.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, ActivityTopic)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Decode turns a bus message back into an event.
func Decode(msg *message.Message) (BaseEvent, error) {
	var evt BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}
	return evt, nil
}
