package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/pkg/events"
	"featureboard-be/pkg/lock"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const voteModule = "VOTE_LEDGER"

// IVoteService owns the (user, feature) vote relations and keeps each
// feature's vote_count equal to the number of live relations.
type IVoteService interface {
	HasVoted(ctx context.Context, userId string, featureId int64) (*dto.HasVotedResponse, error)
	AddVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error)
	RemoveVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error)
	ToggleVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error)
	GetUserVotes(ctx context.Context, userId string) (*dto.UserVotesResponse, error)
	GetFeatureVotes(ctx context.Context, featureId int64) ([]*dto.VoteResponse, error)
}

type voteService struct {
	uowFactory     unitofwork.RepositoryFactory
	locker         lock.Locker
	eventPublisher events.Publisher
	reconcileQueue IPublisherService
	logger         logger.ILogger
	tracer         trace.Tracer
}

func NewVoteService(
	uowFactory unitofwork.RepositoryFactory,
	locker lock.Locker,
	eventPublisher events.Publisher,
	reconcileQueue IPublisherService,
	logger logger.ILogger,
) IVoteService {
	return &voteService{
		uowFactory:     uowFactory,
		locker:         locker,
		eventPublisher: eventPublisher,
		reconcileQueue: reconcileQueue,
		logger:         logger,
		tracer:         otel.Tracer("vote-ledger"),
	}
}

// voteMutation is the committed outcome of one add or remove.
type voteMutation struct {
	feature *entity.Feature
	vote    *entity.Vote
	voted   bool
	count   int
	clamped bool
}

func pairKey(userId string, featureId int64) string {
	return fmt.Sprintf("vote:%s:%d", userId, featureId)
}

func (s *voteService) HasVoted(ctx context.Context, userId string, featureId int64) (*dto.HasVotedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	vote, err := uow.VoteRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeatureID{FeatureID: featureId},
	)
	if err != nil {
		return nil, entity.StoreUnavailable("has voted", err)
	}
	return &dto.HasVotedResponse{FeatureId: featureId, Voted: vote != nil}, nil
}

func (s *voteService) AddVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error) {
	m, err := s.mutate(ctx, "add vote", userId, featureId, func(existing *entity.Vote) (bool, error) {
		if existing != nil {
			return false, entity.ErrAlreadyVoted
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, userId, m)
	return toVoteState(m), nil
}

func (s *voteService) RemoveVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error) {
	m, err := s.mutate(ctx, "remove vote", userId, featureId, func(existing *entity.Vote) (bool, error) {
		if existing == nil {
			return false, entity.ErrVoteNotFound
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, userId, m)
	return toVoteState(m), nil
}

// ToggleVote decides between add and remove under the pair lock, so two
// racing toggles flip the state twice instead of adding twice.
func (s *voteService) ToggleVote(ctx context.Context, userId string, featureId int64) (*dto.VoteStateResponse, error) {
	m, err := s.mutate(ctx, "toggle vote", userId, featureId, func(existing *entity.Vote) (bool, error) {
		return existing == nil, nil
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, userId, m)
	return toVoteState(m), nil
}

func (s *voteService) GetUserVotes(ctx context.Context, userId string) (*dto.UserVotesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	votes, err := uow.VoteRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, entity.StoreUnavailable("get user votes", err)
	}

	ids := make([]int64, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.FeatureId)
	}
	return &dto.UserVotesResponse{UserId: userId, FeatureIds: ids}, nil
}

func (s *voteService) GetFeatureVotes(ctx context.Context, featureId int64) ([]*dto.VoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: featureId})
	if err != nil {
		return nil, entity.StoreUnavailable("get feature votes", err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}

	votes, err := uow.VoteRepository().FindAll(ctx,
		specification.ByFeatureID{FeatureID: featureId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, entity.StoreUnavailable("get feature votes", err)
	}

	res := make([]*dto.VoteResponse, 0, len(votes))
	for _, v := range votes {
		res = append(res, toVoteResponse(v))
	}
	return res, nil
}

// mutate runs one add or remove for a pair: lock, transaction, feature and
// relation lookup, then the branch chosen by decide. Nothing is visible to
// other callers unless every step succeeds.
func (s *voteService) mutate(
	ctx context.Context,
	op string,
	userId string,
	featureId int64,
	decide func(existing *entity.Vote) (add bool, err error),
) (m *voteMutation, err error) {
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("vote.user_id", userId),
		attribute.Int64("vote.feature_id", featureId),
	))
	defer func() {
		if errors.Is(err, entity.ErrStoreUnavailable) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "store unavailable")
		}
		span.End()
	}()

	unlock, err := s.locker.Lock(ctx, pairKey(userId, featureId))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, entity.StoreUnavailable(op+": lock", err)
	}
	defer func() {
		// the key expires after its TTL if the release never reached the lock store
		if unlockErr := unlock(); unlockErr != nil {
			s.logger.Warn(voteModule, "Failed to release vote lock", map[string]interface{}{
				"user_id":    userId,
				"feature_id": featureId,
				"error":      unlockErr.Error(),
			})
		}
	}()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	defer uow.Rollback()

	// the row lock orders this mutation against other voters and the
	// reconciler, so feature.VoteCount is the count this update starts from
	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: featureId}, specification.ForUpdate{})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}

	existing, err := uow.VoteRepository().FindOne(ctx,
		specification.ByUserID{UserID: userId},
		specification.ByFeatureID{FeatureID: featureId},
	)
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	add, err := decide(existing)
	if err != nil {
		return nil, err
	}

	if add {
		m, err = s.applyAdd(ctx, uow, op, userId, feature)
	} else {
		m, err = s.applyRemove(ctx, uow, op, userId, feature)
	}
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	span.SetAttributes(attribute.Bool("vote.voted", m.voted), attribute.Int("vote.count", m.count))
	return m, nil
}

func (s *voteService) applyAdd(ctx context.Context, uow unitofwork.UnitOfWork, op, userId string, feature *entity.Feature) (*voteMutation, error) {
	vote := &entity.Vote{
		UserId:    userId,
		FeatureId: feature.Id,
		CreatedAt: time.Now(),
	}
	if err := uow.VoteRepository().Create(ctx, vote); err != nil {
		// unique index caught a writer that bypassed the pair lock
		if errors.Is(err, contract.ErrDuplicateRecord) {
			return nil, entity.ErrAlreadyVoted
		}
		return nil, entity.StoreUnavailable(op, err)
	}

	count, err := uow.FeatureRepository().AdjustVoteCount(ctx, feature.Id, 1)
	if err != nil {
		return nil, adjustError(op, err)
	}

	return &voteMutation{feature: feature, vote: vote, voted: true, count: count}, nil
}

func (s *voteService) applyRemove(ctx context.Context, uow unitofwork.UnitOfWork, op, userId string, feature *entity.Feature) (*voteMutation, error) {
	removed, err := uow.VoteRepository().Delete(ctx, userId, feature.Id)
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if !removed {
		return nil, entity.ErrVoteNotFound
	}

	count, err := uow.FeatureRepository().AdjustVoteCount(ctx, feature.Id, -1)
	if err != nil {
		return nil, adjustError(op, err)
	}

	return &voteMutation{
		feature: feature,
		voted:   false,
		count:   count,
		clamped: feature.VoteCount <= 0,
	}, nil
}

func adjustError(op string, err error) error {
	if errors.Is(err, contract.ErrRecordNotFound) {
		return entity.ErrFeatureNotFound
	}
	return entity.StoreUnavailable(op, err)
}

// afterMutation runs once the transaction is committed. Failures here are
// logged and never change the caller's result.
func (s *voteService) afterMutation(ctx context.Context, userId string, m *voteMutation) {
	eventType := events.VoteRemoved
	if m.voted {
		eventType = events.VoteCast
	}
	s.publish(ctx, eventType, map[string]interface{}{
		"feature_id": m.feature.Id,
		"product_id": m.feature.ProductId,
		"user_id":    userId,
		"vote_count": m.count,
	})

	if m.clamped {
		s.logger.Warn(voteModule, "Vote count clamped at zero, requesting reconcile", map[string]interface{}{
			"feature_id":   m.feature.Id,
			"stored_count": m.feature.VoteCount,
		})
		s.requestReconcile(ctx, m.feature.Id, "floor clamp")
	}
}

func (s *voteService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn(voteModule, "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func (s *voteService) requestReconcile(ctx context.Context, featureId int64, reason string) {
	if s.reconcileQueue == nil {
		return
	}
	payload, err := json.Marshal(dto.ReconcileVoteCountMessage{FeatureId: featureId, Reason: reason})
	if err != nil {
		return
	}
	if err := s.reconcileQueue.Publish(ctx, payload); err != nil {
		s.logger.Error(voteModule, "Failed to queue reconcile", map[string]interface{}{
			"feature_id": featureId,
			"error":      err.Error(),
		})
	}
}

func toVoteState(m *voteMutation) *dto.VoteStateResponse {
	res := &dto.VoteStateResponse{
		FeatureId: m.feature.Id,
		Voted:     m.voted,
		VoteCount: m.count,
	}
	if m.vote != nil {
		res.Vote = toVoteResponse(m.vote)
	}
	return res
}

func toVoteResponse(v *entity.Vote) *dto.VoteResponse {
	return &dto.VoteResponse{
		Id:        v.Id,
		UserId:    v.UserId,
		FeatureId: v.FeatureId,
		CreatedAt: v.CreatedAt,
	}
}
