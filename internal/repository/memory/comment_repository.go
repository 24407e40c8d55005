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

var commentTable = table[model.Comment]{
	id: func(m *model.Comment) int64 { return m.Id },
	match: func(m *model.Comment, spec specification.Specification) bool {
		if s, ok := spec.(specification.ByFeatureID); ok {
			return m.FeatureId == s.FeatureID
		}
		return false
	},
	compare: func(a, b *model.Comment, field string) int {
		if field == "created_at" {
			return compareTime(a.CreatedAt, b.CreatedAt)
		}
		return cmp.Compare(a.Id, b.Id)
	},
}

type commentRepository struct {
	uow    *unitOfWork
	mapper *mapper.CommentMapper
}

func newCommentRepository(uow *unitOfWork) contract.CommentRepository {
	return &commentRepository{uow: uow, mapper: mapper.NewCommentMapper()}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	return r.uow.run(func(t *tables) error {
		m := r.mapper.ToModel(comment)
		t.commentSeq++
		m.Id = t.commentSeq
		now := r.uow.store.now()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
		t.comments[m.Id] = *m
		*comment = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	return r.uow.run(func(t *tables) error {
		if _, ok := t.comments[comment.Id]; !ok {
			return contract.ErrRecordNotFound
		}
		m := r.mapper.ToModel(comment)
		m.UpdatedAt = r.uow.store.now()
		t.comments[m.Id] = *m
		*comment = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	return r.uow.run(func(t *tables) error {
		delete(t.comments, id)
		return nil
	})
}

func (r *commentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Comment, error) {
	var found *entity.Comment
	err := r.uow.run(func(t *tables) error {
		rows := commentTable.query(t.comments, specs)
		if len(rows) > 0 {
			found = r.mapper.ToEntity(rows[0])
		}
		return nil
	})
	return found, err
}

func (r *commentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Comment, error) {
	var found []*entity.Comment
	err := r.uow.run(func(t *tables) error {
		found = r.mapper.ToEntities(commentTable.query(t.comments, specs))
		return nil
	})
	return found, err
}
