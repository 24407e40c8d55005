package mapper

import (
	"featureboard-be/internal/entity"
	"featureboard-be/internal/model"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(model *model.Product) *entity.Product {
	if model == nil {
		return nil
	}
	return &entity.Product{
		Id:          model.Id,
		Name:        model.Name,
		Description: model.Description,
		OwnerId:     model.OwnerId,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (m *ProductMapper) ToModel(entity *entity.Product) *model.Product {
	if entity == nil {
		return nil
	}
	return &model.Product{
		Id:          entity.Id,
		Name:        entity.Name,
		Description: entity.Description,
		OwnerId:     entity.OwnerId,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (m *ProductMapper) ToEntities(models []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
