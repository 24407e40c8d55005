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

type CommentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CommentMapper
}

func NewCommentRepository(db *gorm.DB) contract.CommentRepository {
	return &CommentRepositoryImpl{
		db:     db,
		mapper: mapper.NewCommentMapper(),
	}
}

func (r *CommentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *entity.Comment) error {
	m := r.mapper.ToModel(comment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*comment = *r.mapper.ToEntity(m)
	return nil
}

func (r *CommentRepositoryImpl) Update(ctx context.Context, comment *entity.Comment) error {
	m := r.mapper.ToModel(comment)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*comment = *r.mapper.ToEntity(m)
	return nil
}

func (r *CommentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}

func (r *CommentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Comment, error) {
	var m model.Comment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CommentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Comment, error) {
	var models []*model.Comment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
