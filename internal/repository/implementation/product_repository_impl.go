package implementation

import (
	"context"
	"errors"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/mapper"
	"featureboard-be/internal/model"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var models []*model.Product
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
