package service

import (
	"context"
	"errors"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/pkg/events"
	"featureboard-be/pkg/projection"
)

const featureModule = "FEATURE"

type IFeatureService interface {
	GetAll(ctx context.Context, req *dto.ListFeaturesRequest) ([]*dto.FeatureResponse, error)
	Show(ctx context.Context, id int64) (*dto.FeatureResponse, error)
	Create(ctx context.Context, authorId string, req *dto.CreateFeatureRequest) (*dto.FeatureResponse, error)
	Update(ctx context.Context, actorId string, req *dto.UpdateFeatureRequest) (*dto.FeatureResponse, error)
	UpdateStatus(ctx context.Context, actorId string, req *dto.UpdateFeatureStatusRequest) (*dto.FeatureResponse, error)
	Reconcile(ctx context.Context, actorId string, id int64) (*dto.ReconcileResponse, error)
}

type featureService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewFeatureService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) IFeatureService {
	return &featureService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *featureService) GetAll(ctx context.Context, req *dto.ListFeaturesRequest) ([]*dto.FeatureResponse, error) {
	status, ok := projection.ParseFilter(req.Status)
	if !ok {
		// a filter naming no pipeline status matches nothing
		return make([]*dto.FeatureResponse, 0), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{specification.OrderBy{Field: "id"}}
	if req.ProductId > 0 {
		specs = append(specs, specification.ByProductID{ProductID: req.ProductId})
	}
	if parsed, ok := entity.ParseStatus(status); ok {
		specs = append(specs, specification.ByStatus{Status: parsed})
	}
	features, err := uow.FeatureRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, entity.StoreUnavailable("list features", err)
	}

	projected := projection.Project(features, projection.Options{
		Sort:   projection.ParseSortKey(req.Sort),
		Status: status,
	})
	return toFeatureResponses(projected), nil
}

func (s *featureService) Show(ctx context.Context, id int64) (*dto.FeatureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, entity.StoreUnavailable("show feature", err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}
	return toFeatureResponse(feature), nil
}

// Create stores the feature and casts the author's vote in one transaction,
// so a new feature starts at one vote.
func (s *featureService) Create(ctx context.Context, authorId string, req *dto.CreateFeatureRequest) (*dto.FeatureResponse, error) {
	const op = "create feature"

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	defer uow.Rollback()

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: req.ProductId})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if product == nil {
		return nil, entity.ErrProductNotFound
	}

	now := time.Now()
	feature := &entity.Feature{
		ProductId:   req.ProductId,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      entity.StatusSubmitted,
		AuthorId:    authorId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uow.FeatureRepository().Create(ctx, feature); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	if err := uow.VoteRepository().Create(ctx, &entity.Vote{
		UserId:    authorId,
		FeatureId: feature.Id,
		CreatedAt: now,
	}); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	count, err := uow.FeatureRepository().AdjustVoteCount(ctx, feature.Id, 1)
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	feature.VoteCount = count

	if err := uow.Commit(); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	s.logger.Info(featureModule, "Feature submitted", map[string]interface{}{
		"feature_id": feature.Id,
		"product_id": feature.ProductId,
		"author_id":  authorId,
	})
	s.publish(ctx, events.FeatureSubmitted, map[string]interface{}{
		"feature_id": feature.Id,
		"product_id": feature.ProductId,
		"title":      feature.Title,
		"author_id":  authorId,
	})

	return toFeatureResponse(feature), nil
}

// Update edits the text fields. Allowed for the author and the product owner.
func (s *featureService) Update(ctx context.Context, actorId string, req *dto.UpdateFeatureRequest) (*dto.FeatureResponse, error) {
	const op = "update feature"

	uow := s.uowFactory.NewUnitOfWork(ctx)
	feature, product, err := s.loadWithProduct(ctx, uow, op, req.Id)
	if err != nil {
		return nil, err
	}
	if actorId != feature.AuthorId && actorId != product.OwnerId {
		return nil, entity.ErrForbidden
	}

	feature.Title = req.Title
	feature.Description = req.Description
	feature.Category = req.Category
	feature.UpdatedAt = time.Now()

	if err := uow.FeatureRepository().Update(ctx, feature); err != nil {
		if errors.Is(err, contract.ErrRecordNotFound) {
			return nil, entity.ErrFeatureNotFound
		}
		return nil, entity.StoreUnavailable(op, err)
	}

	return toFeatureResponse(feature), nil
}

// UpdateStatus moves a feature along the pipeline. Only the product owner may.
func (s *featureService) UpdateStatus(ctx context.Context, actorId string, req *dto.UpdateFeatureStatusRequest) (*dto.FeatureResponse, error) {
	const op = "update feature status"

	status, ok := entity.ParseStatus(req.Status)
	if !ok {
		return nil, entity.ErrInvalidStatus
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	feature, product, err := s.loadWithProduct(ctx, uow, op, req.Id)
	if err != nil {
		return nil, err
	}
	if actorId != product.OwnerId {
		return nil, entity.ErrForbidden
	}

	previous := feature.Status
	if previous == status {
		return toFeatureResponse(feature), nil
	}

	feature.Status = status
	feature.UpdatedAt = time.Now()
	if err := uow.FeatureRepository().Update(ctx, feature); err != nil {
		if errors.Is(err, contract.ErrRecordNotFound) {
			return nil, entity.ErrFeatureNotFound
		}
		return nil, entity.StoreUnavailable(op, err)
	}

	s.publish(ctx, events.FeatureStatusChanged, map[string]interface{}{
		"feature_id": feature.Id,
		"product_id": feature.ProductId,
		"from":       previous.String(),
		"to":         status.String(),
	})

	return toFeatureResponse(feature), nil
}

// Reconcile recounts the live votes of a feature. Product owner only.
func (s *featureService) Reconcile(ctx context.Context, actorId string, id int64) (*dto.ReconcileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	_, product, err := s.loadWithProduct(ctx, uow, "reconcile feature", id)
	if err != nil {
		return nil, err
	}
	if actorId != product.OwnerId {
		return nil, entity.ErrForbidden
	}

	res, err := reconcileVoteCount(ctx, s.uowFactory, id)
	if err != nil {
		return nil, err
	}
	if res.Previous != res.VoteCount {
		s.logger.Warn(featureModule, "Vote count drift corrected", map[string]interface{}{
			"feature_id": id,
			"previous":   res.Previous,
			"vote_count": res.VoteCount,
		})
	}
	return res, nil
}

func (s *featureService) loadWithProduct(ctx context.Context, uow unitofwork.UnitOfWork, op string, id int64) (*entity.Feature, *entity.Product, error) {
	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, entity.StoreUnavailable(op, err)
	}
	if feature == nil {
		return nil, nil, entity.ErrFeatureNotFound
	}

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: feature.ProductId})
	if err != nil {
		return nil, nil, entity.StoreUnavailable(op, err)
	}
	if product == nil {
		return nil, nil, entity.ErrProductNotFound
	}
	return feature, product, nil
}

func (s *featureService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.New(eventType, data)); err != nil {
		s.logger.Warn(featureModule, "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func toFeatureResponse(f *entity.Feature) *dto.FeatureResponse {
	return &dto.FeatureResponse{
		Id:          f.Id,
		ProductId:   f.ProductId,
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		Status:      f.Status.String(),
		AuthorId:    f.AuthorId,
		VoteCount:   f.VoteCount,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toFeatureResponses(features []*entity.Feature) []*dto.FeatureResponse {
	res := make([]*dto.FeatureResponse, 0, len(features))
	for _, f := range features {
		res = append(res, toFeatureResponse(f))
	}
	return res
}
