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

var productTable = table[model.Product]{
	id: func(m *model.Product) int64 { return m.Id },
	match: func(m *model.Product, spec specification.Specification) bool {
		if s, ok := spec.(specification.ByOwnerID); ok {
			return m.OwnerId == s.OwnerID
		}
		return false
	},
	compare: func(a, b *model.Product, field string) int {
		switch field {
		case "created_at":
			return compareTime(a.CreatedAt, b.CreatedAt)
		case "name":
			return cmp.Compare(a.Name, b.Name)
		}
		return cmp.Compare(a.Id, b.Id)
	},
}

type productRepository struct {
	uow    *unitOfWork
	mapper *mapper.ProductMapper
}

func newProductRepository(uow *unitOfWork) contract.ProductRepository {
	return &productRepository{uow: uow, mapper: mapper.NewProductMapper()}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.uow.run(func(t *tables) error {
		m := r.mapper.ToModel(product)
		t.productSeq++
		m.Id = t.productSeq
		now := r.uow.store.now()
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = now
		t.products[m.Id] = *m
		*product = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.uow.run(func(t *tables) error {
		if _, ok := t.products[product.Id]; !ok {
			return contract.ErrRecordNotFound
		}
		m := r.mapper.ToModel(product)
		m.UpdatedAt = r.uow.store.now()
		t.products[m.Id] = *m
		*product = *r.mapper.ToEntity(m)
		return nil
	})
}

func (r *productRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	var found *entity.Product
	err := r.uow.run(func(t *tables) error {
		rows := productTable.query(t.products, specs)
		if len(rows) > 0 {
			found = r.mapper.ToEntity(rows[0])
		}
		return nil
	})
	return found, err
}

func (r *productRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	var found []*entity.Product
	err := r.uow.run(func(t *tables) error {
		found = r.mapper.ToEntities(productTable.query(t.products, specs))
		return nil
	})
	return found, err
}
