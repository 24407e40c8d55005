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

var voteTable = table[model.Vote]{
	id: func(m *model.Vote) int64 { return m.Id },
	match: func(m *model.Vote, spec specification.Specification) bool {
		switch s := spec.(type) {
		case specification.ByUserID:
			return m.UserId == s.UserID
		case specification.ByFeatureID:
			return m.FeatureId == s.FeatureID
		}
		return false
	},
	compare: func(a, b *model.Vote, field string) int {
		if field == "created_at" {
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
		return cmp.Compare(a.Id, b.Id)
	},
}

type voteRepository struct {
	uow    *unitOfWork
	mapper *mapper.VoteMapper
}

func newVoteRepository(uow *unitOfWork) contract.VoteRepository {
	return &voteRepository{uow: uow, mapper: mapper.NewVoteMapper()}
}

func (r *voteRepository) Create(ctx context.Context, vote *entity.Vote) error {
	return r.uow.run(func(t *tables) error {
		for _, existing := range t.votes {
			if existing.UserId == vote.UserId && existing.FeatureId == vote.FeatureId {
				return contract.ErrDuplicateRecord
			}
		}
		m := r.mapper.ToModel(vote)
		t.voteSeq++
		m.Id = t.voteSeq
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.uow.store.now()
		}
		t.votes[m.Id] = *m
		*vote = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *voteRepository) Delete(ctx context.Context, userId string, featureId int64) (bool, error) {
	removed := false
	err := r.uow.run(func(t *tables) error {
		for id, existing := range t.votes {
			if existing.UserId == userId && existing.FeatureId == featureId {
				delete(t.votes, id)
				removed = true
			}
		}
		return nil
	})
	return removed, err
}

func (r *voteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Vote, error) {
	var found *entity.Vote
	err := r.uow.run(func(t *tables) error {
		rows := voteTable.query(t.votes, specs)
		if len(rows) > 0 {
			found = r.mapper.ToEntity(rows[0])
		}
		return nil
	})
	return found, err
}

func (r *voteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error) {
	var found []*entity.Vote
	err := r.uow.run(func(t *tables) error {
		found = r.mapper.ToEntities(voteTable.query(t.votes, specs))
		return nil
	})
	return found, err
}

func (r *voteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := r.uow.run(func(t *tables) error {
		count = int64(len(voteTable.query(t.votes, specs)))
		return nil
	})
	return count, err
}
