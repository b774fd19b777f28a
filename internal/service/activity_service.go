package service

import (
	"context"

	"synthmind-be/internal/pkg/logger"
	"synthmind-be/internal/pkg/metrics"
	"synthmind-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

const activityModule = "Activity"

type IActivityService interface {
	Consume(ctx context.Context) error
}

type activityService struct {
	bus     *events.Bus
	forward events.Publisher
	logger  logger.ILogger
}

// NewActivityService drains the activity bus. forward may be nil; when set,
// every event is also handed to it (the NATS publisher in production).
func NewActivityService(bus *events.Bus, forward events.Publisher, log logger.ILogger) IActivityService {
	return &activityService{
		bus:     bus,
		forward: forward,
		logger:  log,
	}
}

func (s *activityService) Consume(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: a failed forward is logged, not retried.
func (s *activityService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	evt, err := events.Decode(msg)
	if err != nil {
		s.logger.Error(activityModule, "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return
	}

	details := make(map[string]interface{}, len(evt.Data)+1)
	for k, v := range evt.Data {
		details[k] = v
	}
	details["occurred_at"] = evt.OccurredAt
	s.logger.Info(activityModule, evt.Type, details)
	metrics.RecordActivity(evt.Type)

	if s.forward == nil {
		return
	}
	if err := s.forward.Publish(ctx, evt); err != nil {
		s.logger.Warn(activityModule, "Failed to forward event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}
