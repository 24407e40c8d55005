package service

import (
	"context"
	"testing"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoadmapService_GroupsByStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := NewRoadmapService(f.factory, logger.NewNopLogger())

	product := f.product(t, "owner")
	low := f.feature(t, product.Id, "low", entity.StatusPlanned, 1)
	high := f.feature(t, product.Id, "high", entity.StatusPlanned, 5)
	live := f.feature(t, product.Id, "shipped", entity.StatusLive, 2)
	f.feature(t, product.Id, "legacy", entity.StatusUnknown, 9)
	f.feature(t, 999, "elsewhere", entity.StatusPlanned, 3)

	res, err := svc.Get(ctx, product.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)

	require.Len(t, res.Columns, 6)
	var statuses []string
	for _, col := range res.Columns {
		statuses = append(statuses, col.Status)
	}
	assert.Equal(t, []string{"submitted", "under-review", "planned", "in-progress", "staging", "live"}, statuses)

	assert.Empty(t, res.Columns[0].Features)
	planned := res.Columns[2].Features
	require.Len(t, planned, 2)
	assert.Equal(t, high.Id, planned[0].Id)
	assert.Equal(t, low.Id, planned[1].Id)
	require.Len(t, res.Columns[5].Features, 1)
	assert.Equal(t, live.Id, res.Columns[5].Features[0].Id)

	_, err = svc.Get(ctx, 404)
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}
