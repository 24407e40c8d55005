package service

import (
	"context"
	"errors"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/memory"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
)

type IProductService interface {
	GetAll(ctx context.Context, ownerId string) ([]*dto.ProductResponse, error)
	Show(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Create(ctx context.Context, ownerId string, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	Update(ctx context.Context, actorId string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
}

type productService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.ProductCache
	logger     logger.ILogger
}

func NewProductService(
	uowFactory unitofwork.RepositoryFactory,
	cache *memory.ProductCache,
	logger logger.ILogger,
) IProductService {
	return &productService{
		uowFactory: uowFactory,
		cache:      cache,
		logger:     logger,
	}
}

// GetAll lists products, optionally only those owned by ownerId.
func (s *productService) GetAll(ctx context.Context, ownerId string) ([]*dto.ProductResponse, error) {
	specs := []specification.Specification{specification.OrderBy{Field: "id"}}
	if ownerId != "" {
		specs = append(specs, specification.ByOwnerID{OwnerID: ownerId})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, err := uow.ProductRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, entity.StoreUnavailable("list products", err)
	}

	res := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res, nil
}

func (s *productService) Show(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// find reads through the cache.
func (s *productService) find(ctx context.Context, id int64) (*entity.Product, error) {
	if product, ok := s.cache.Get(id); ok {
		return product, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, entity.StoreUnavailable("show product", err)
	}
	if product == nil {
		return nil, entity.ErrProductNotFound
	}

	s.cache.Save(product)
	return product, nil
}

func (s *productService) Create(ctx context.Context, ownerId string, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		OwnerId:     ownerId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, entity.StoreUnavailable("create product", err)
	}

	s.logger.Info("PRODUCT", "Product created", map[string]interface{}{
		"product_id": product.Id,
		"owner_id":   ownerId,
	})
	return toProductResponse(product), nil
}

func (s *productService) Update(ctx context.Context, actorId string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, entity.StoreUnavailable("update product", err)
	}
	if product == nil {
		return nil, entity.ErrProductNotFound
	}
	if product.OwnerId != actorId {
		return nil, entity.ErrForbidden
	}

	product.Name = req.Name
	product.Description = req.Description
	product.UpdatedAt = time.Now()

	if err := uow.ProductRepository().Update(ctx, product); err != nil {
		if errors.Is(err, contract.ErrRecordNotFound) {
			return nil, entity.ErrProductNotFound
		}
		return nil, entity.StoreUnavailable("update product", err)
	}
	s.cache.Delete(product.Id)

	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		OwnerId:     p.OwnerId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
