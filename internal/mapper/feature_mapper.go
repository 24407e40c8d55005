// FILE: internal/mapper/feature_mapper.go
// Mapper for Feature entity <-> model conversion
package mapper

import (
	"featureboard-be/internal/entity"
	"featureboard-be/internal/model"
)

type FeatureMapper struct{}

func NewFeatureMapper() *FeatureMapper {
	return &FeatureMapper{}
}

// ToEntity decodes the stored status; anything outside the pipeline becomes
// entity.StatusUnknown rather than an error so one bad row cannot fail a list.
func (m *FeatureMapper) ToEntity(model *model.Feature) *entity.Feature {
	if model == nil {
		return nil
	}
	status, _ := entity.ParseStatus(model.Status)
	return &entity.Feature{
		Id:          model.Id,
		ProductId:   model.ProductId,
		Title:       model.Title,
		Description: model.Description,
		Category:    model.Category,
		Status:      status,
		AuthorId:    model.AuthorId,
		VoteCount:   model.VoteCount,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (m *FeatureMapper) ToModel(entity *entity.Feature) *model.Feature {
	if entity == nil {
		return nil
	}
	return &model.Feature{
		Id:          entity.Id,
		ProductId:   entity.ProductId,
		Title:       entity.Title,
		Description: entity.Description,
		Category:    entity.Category,
		Status:      entity.Status.String(),
		AuthorId:    entity.AuthorId,
		VoteCount:   entity.VoteCount,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (m *FeatureMapper) ToEntities(models []*model.Feature) []*entity.Feature {
	entities := make([]*entity.Feature, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
