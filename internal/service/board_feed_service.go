package service

import (
	"context"
	"encoding/json"
	"time"

	"featureboard-be/internal/pkg/logger"
	"featureboard-be/pkg/events"
	pktNats "featureboard-be/pkg/nats"
)

const boardFeedDurable = "board-feed"

// BoardBroadcaster fans a frame out to everyone watching a product.
type BoardBroadcaster interface {
	Publish(ctx context.Context, productId int64, message []byte) error
}

// IBoardFeedService turns board events into live frames. It also satisfies
// events.Publisher so a single instance without NATS feeds itself directly.
type IBoardFeedService interface {
	events.Publisher
	Start(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type boardFeedService struct {
	subscriber  *pktNats.Subscriber
	broadcaster BoardBroadcaster
	logger      logger.ILogger
}

type boardFrame struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewBoardFeedService(subscriber *pktNats.Subscriber, broadcaster BoardBroadcaster, logger logger.ILogger) IBoardFeedService {
	return &boardFeedService{
		subscriber:  subscriber,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Start attaches to every board event subject. Without a subscriber events
// arrive through Publish instead.
func (s *boardFeedService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Info("BOARD_FEED", "No NATS subscriber, using in-process feed", nil)
		return nil
	}
	return s.subscriber.Subscribe(ctx, "events.>", boardFeedDurable, s.Handle)
}

func (s *boardFeedService) Publish(ctx context.Context, event events.Event) error {
	return s.Handle(ctx, event)
}

// Handle drops events that name no product; they have no board to go to.
func (s *boardFeedService) Handle(ctx context.Context, event events.Event) error {
	productId, ok := events.Int64(event.Payload(), "product_id")
	if !ok {
		s.logger.Debug("BOARD_FEED", "Event without product, skipped", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	frame, err := json.Marshal(boardFrame{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return err
	}

	// a failed cluster relay must not cause redelivery to local watchers
	if err := s.broadcaster.Publish(ctx, productId, frame); err != nil {
		s.logger.Warn("BOARD_FEED", "Frame relay failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
	return nil
}
