package service

import (
	"context"
	"testing"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_ReadThroughCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewProductService(f.factory, memory.NewProductCache(time.Minute), logger.NewNopLogger())

	created, err := svc.Create(ctx, "owner", &dto.CreateProductRequest{Name: "Board", Description: "Public roadmap board"})
	require.NoError(t, err)
	assert.Equal(t, "owner", created.OwnerId)

	first, err := svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Board", first.Name)

	// a write that bypasses the service is not seen until the entry is evicted
	stored := &entity.Product{Id: created.Id, Name: "Renamed elsewhere", Description: "x", OwnerId: "owner"}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).ProductRepository().Update(ctx, stored))

	cached, err := svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Board", cached.Name)

	updated, err := svc.Update(ctx, "owner", &dto.UpdateProductRequest{Id: created.Id, Name: "Board v2", Description: "Public roadmap board"})
	require.NoError(t, err)
	assert.Equal(t, "Board v2", updated.Name)

	fresh, err := svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Board v2", fresh.Name)
}

func TestProductService_UpdateRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewProductService(f.factory, memory.NewProductCache(time.Minute), logger.NewNopLogger())
	product := f.product(t, "owner")

	_, err := svc.Update(ctx, "intruder", &dto.UpdateProductRequest{Id: product.Id, Name: "Hijacked"})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = svc.Update(ctx, "owner", &dto.UpdateProductRequest{Id: 404, Name: "Nope"})
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	_, err = svc.Show(ctx, 404)
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	f.product(t, "someone-else")
	all, err := svc.GetAll(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, product.Id, all[0].Id)

	everyone, err := svc.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, everyone, 2)
}
