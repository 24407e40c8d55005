// FILE: internal/repository/implementation/vote_repository_impl.go
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

type VoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoteMapper
}

func NewVoteRepository(db *gorm.DB) contract.VoteRepository {
	return &VoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoteMapper(),
	}
}

func (r *VoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VoteRepositoryImpl) Create(ctx context.Context, vote *entity.Vote) error {
	m := r.mapper.ToModel(vote)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*vote = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoteRepositoryImpl) Delete(ctx context.Context, userId string, featureId int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_id = ?", userId, featureId).
		Delete(&model.Vote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *VoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Vote, error) {
	var m model.Vote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error) {
	var models []*model.Vote
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *VoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Vote{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
