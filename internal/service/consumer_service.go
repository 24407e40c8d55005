// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

const reconcileModule = "VOTE_RECONCILER"

// IConsumerService drains the reconcile topic in the background.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	retryDelay time.Duration
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
		retryDelay: 500 * time.Millisecond,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReconcileVoteCountMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(reconcileModule, "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // never retry garbage
		return
	}

	// gochannel redelivers a nacked message immediately, so retries are
	// bounded here instead
	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		res, err := reconcileVoteCount(ctx, cs.uowFactory, payload.FeatureId)
		if err == nil {
			details := map[string]interface{}{
				"feature_id": payload.FeatureId,
				"reason":     payload.Reason,
				"previous":   res.Previous,
				"vote_count": res.VoteCount,
			}
			if res.Previous != res.VoteCount {
				cs.logger.Warn(reconcileModule, "Vote count drift corrected", details)
			} else {
				cs.logger.Info(reconcileModule, "Vote count verified", details)
			}
			msg.Ack()
			return
		}
		if errors.Is(err, entity.ErrNotFound) {
			cs.logger.Warn(reconcileModule, "Feature vanished before reconcile", map[string]interface{}{"feature_id": payload.FeatureId})
			msg.Ack()
			return
		}
		lastErr = err

		select {
		case <-ctx.Done():
			msg.Nack()
			return
		case <-time.After(cs.retryDelay):
		}
	}

	cs.logger.Error(reconcileModule, "Reconcile failed", map[string]interface{}{
		"feature_id": payload.FeatureId,
		"error":      lastErr.Error(),
	})
	msg.Ack()
}

// reconcileVoteCount overwrites a feature's vote_count with the number of
// live vote relations.
func reconcileVoteCount(ctx context.Context, uowFactory unitofwork.RepositoryFactory, featureId int64) (*dto.ReconcileResponse, error) {
	const op = "reconcile vote count"

	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	defer uow.Rollback()

	// votes committed before the lock is granted are counted, later ones
	// wait and adjust on top of the reconciled value
	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: featureId}, specification.ForUpdate{})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}

	live, err := uow.VoteRepository().Count(ctx, specification.ByFeatureID{FeatureID: featureId})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	if int(live) != feature.VoteCount {
		if err := uow.FeatureRepository().SetVoteCount(ctx, featureId, int(live)); err != nil {
			return nil, entity.StoreUnavailable(op, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	return &dto.ReconcileResponse{
		FeatureId: featureId,
		Previous:  feature.VoteCount,
		VoteCount: int(live),
	}, nil
}
