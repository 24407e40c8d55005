package mapper

import (
	"featureboard-be/internal/entity"
	"featureboard-be/internal/model"
)

type VoteMapper struct{}

func NewVoteMapper() *VoteMapper {
	return &VoteMapper{}
}

func (m *VoteMapper) ToEntity(model *model.Vote) *entity.Vote {
	if model == nil {
		return nil
	}
	return &entity.Vote{
		Id:        model.Id,
		UserId:    model.UserId,
		FeatureId: model.FeatureId,
		CreatedAt: model.CreatedAt,
	}
}

func (m *VoteMapper) ToModel(entity *entity.Vote) *model.Vote {
	if entity == nil {
		return nil
	}
	return &model.Vote{
		Id:        entity.Id,
		UserId:    entity.UserId,
		FeatureId: entity.FeatureId,
		CreatedAt: entity.CreatedAt,
	}
}

func (m *VoteMapper) ToEntities(models []*model.Vote) []*entity.Vote {
	entities := make([]*entity.Vote, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
