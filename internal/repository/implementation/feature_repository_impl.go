// FILE: internal/repository/implementation/feature_repository_impl.go
// Implementation of FeatureRepository
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

type FeatureRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureMapper
}

func NewFeatureRepository(db *gorm.DB) contract.FeatureRepository {
	return &FeatureRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureMapper(),
	}
}

func (r *FeatureRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FeatureRepositoryImpl) Create(ctx context.Context, feature *entity.Feature) error {
	m := r.mapper.ToModel(feature)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*feature = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureRepositoryImpl) Update(ctx context.Context, feature *entity.Feature) error {
	m := r.mapper.ToModel(feature)
	// vote_count is owned by AdjustVoteCount/SetVoteCount; a stale entity must not overwrite it
	columns := []string{"title", "description", "category", "updated_at"}
	if feature.Status.Valid() {
		// an unrecognized stored status is kept as it is
		columns = append(columns, "status")
	}
	res := r.db.WithContext(ctx).
		Model(&model.Feature{Id: m.Id}).
		Select(columns).
		Updates(m)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return contract.ErrRecordNotFound
	}
	return nil
}

func (r *FeatureRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error) {
	var m model.Feature
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error) {
	var models []*model.Feature
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureRepositoryImpl) AdjustVoteCount(ctx context.Context, id int64, delta int) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("id = ?", id).
		UpdateColumn("vote_count", gorm.Expr("GREATEST(vote_count + ?, 0)", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, contract.ErrRecordNotFound
	}

	var m model.Feature
	if err := r.db.WithContext(ctx).Select("vote_count").Where("id = ?", id).First(&m).Error; err != nil {
		return 0, err
	}
	return m.VoteCount, nil
}

func (r *FeatureRepositoryImpl) SetVoteCount(ctx context.Context, id int64, count int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Feature{}).
		Where("id = ?", id).
		UpdateColumn("vote_count", count)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrRecordNotFound
	}
	return nil
}
