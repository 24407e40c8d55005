package memory

import (
	"cmp"
	"context"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/mapper"
	"featureboard-be/internal/model"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"
)

var featureTable = table[model.Feature]{
	id: func(m *model.Feature) int64 { return m.Id },
	match: func(m *model.Feature, spec specification.Specification) bool {
		switch s := spec.(type) {
		case specification.ByProductID:
			return m.ProductId == s.ProductID
		case specification.ByStatus:
			return m.Status == s.Status.String()
		}
		return false
	},
	compare: func(a, b *model.Feature, field string) int {
		switch field {
		case "vote_count":
			return cmp.Compare(a.VoteCount, b.VoteCount)
		case "created_at":
			return compareTime(a.CreatedAt, b.CreatedAt)
		case "updated_at":
			return compareTime(a.UpdatedAt, b.UpdatedAt)
		case "title":
			return cmp.Compare(a.Title, b.Title)
		}
		return cmp.Compare(a.Id, b.Id)
	},
}

type featureRepository struct {
	uow    *unitOfWork
	mapper *mapper.FeatureMapper
}

func newFeatureRepository(uow *unitOfWork) contract.FeatureRepository {
	return &featureRepository{uow: uow, mapper: mapper.NewFeatureMapper()}
}

func (r *featureRepository) Create(ctx context.Context, feature *entity.Feature) error {
	return r.uow.run(func(t *tables) error {
		m := r.mapper.ToModel(feature)
		t.featureSeq++
		m.Id = t.featureSeq
		now := r.uow.store.now()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
		t.features[m.Id] = *m
		*feature = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *featureRepository) Update(ctx context.Context, feature *entity.Feature) error {
	return r.uow.run(func(t *tables) error {
		current, ok := t.features[feature.Id]
		if !ok {
			return contract.ErrRecordNotFound
		}
		m := r.mapper.ToModel(feature)
		current.Title = m.Title
		current.Description = m.Description
		current.Category = m.Category
		if feature.Status.Valid() {
			current.Status = m.Status
		}
		current.UpdatedAt = r.uow.store.now()
		t.features[current.Id] = current
		return nil
	})
}

func (r *featureRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error) {
	var found *entity.Feature
	err := r.uow.run(func(t *tables) error {
		rows := featureTable.query(t.features, specs)
		if len(rows) > 0 {
			found = r.mapper.ToEntity(rows[0])
		}
		return nil
	})
	return found, err
}

func (r *featureRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error) {
	var found []*entity.Feature
	err := r.uow.run(func(t *tables) error {
		found = r.mapper.ToEntities(featureTable.query(t.features, specs))
		return nil
	})
	return found, err
}

func (r *featureRepository) AdjustVoteCount(ctx context.Context, id int64, delta int) (int, error) {
	var count int
	err := r.uow.run(func(t *tables) error {
		m, ok := t.features[id]
		if !ok {
			return contract.ErrRecordNotFound
		}
		m.VoteCount = max(m.VoteCount+delta, 0)
		t.features[id] = m
		count = m.VoteCount
		return nil
	})
	return count, err
}

func (r *featureRepository) SetVoteCount(ctx context.Context, id int64, count int) error {
	return r.uow.run(func(t *tables) error {
		m, ok := t.features[id]
		if !ok {
			return contract.ErrRecordNotFound
		}
		m.VoteCount = count
		t.features[id] = m
		return nil
	})
}
