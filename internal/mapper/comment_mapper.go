package mapper

import (
	"featureboard-be/internal/entity"
	"featureboard-be/internal/model"
)

type CommentMapper struct{}

func NewCommentMapper() *CommentMapper {
	return &CommentMapper{}
}

func (m *CommentMapper) ToEntity(model *model.Comment) *entity.Comment {
	if model == nil {
		return nil
	}
	return &entity.Comment{
		Id:         model.Id,
		FeatureId:  model.FeatureId,
		AuthorId:   model.AuthorId,
		AuthorName: model.AuthorName,
		Content:    model.Content,
		IsOfficial: model.IsOfficial,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func (m *CommentMapper) ToModel(entity *entity.Comment) *model.Comment {
	if entity == nil {
		return nil
	}
	return &model.Comment{
		Id:         entity.Id,
		FeatureId:  entity.FeatureId,
		AuthorId:   entity.AuthorId,
		AuthorName: entity.AuthorName,
		Content:    entity.Content,
		IsOfficial: entity.IsOfficial,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (m *CommentMapper) ToEntities(models []*model.Comment) []*entity.Comment {
	entities := make([]*entity.Comment, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
