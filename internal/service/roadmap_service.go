package service

import (
	"context"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/pkg/roadmap"
)

type IRoadmapService interface {
	Get(ctx context.Context, productId int64) (*dto.RoadmapResponse, error)
}

type roadmapService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRoadmapService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IRoadmapService {
	return &roadmapService{uowFactory: uowFactory, logger: logger}
}

func (s *roadmapService) Get(ctx context.Context, productId int64) (*dto.RoadmapResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, entity.StoreUnavailable("get roadmap", err)
	}
	if product == nil {
		return nil, entity.ErrProductNotFound
	}

	// Column order inside a bucket follows vote count, then submission order
	features, err := uow.FeatureRepository().FindAll(ctx,
		specification.ByProductID{ProductID: productId},
		specification.OrderBy{Field: "vote_count", Desc: true},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, entity.StoreUnavailable("get roadmap", err)
	}

	grouped := roadmap.Group(features)
	if grouped.Dropped > 0 {
		s.logger.Warn("ROADMAP", "Features with unrecognized status left off the roadmap", map[string]interface{}{
			"product_id": productId,
			"dropped":    grouped.Dropped,
		})
	}

	res := &dto.RoadmapResponse{
		ProductId: productId,
		Columns:   make([]dto.RoadmapColumn, 0, len(grouped.Columns)),
		Dropped:   grouped.Dropped,
	}
	for _, col := range grouped.Columns {
		items := make([]dto.FeatureResponse, 0, len(col.Features))
		for _, f := range col.Features {
			items = append(items, *toFeatureResponse(f))
		}
		res.Columns = append(res.Columns, dto.RoadmapColumn{Status: col.Status.String(), Features: items})
	}
	return res, nil
}
