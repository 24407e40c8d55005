package service

import (
	"context"
	"testing"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeatureHarness() (*fixture, IFeatureService, *events.Recorder) {
	f := newFixture()
	rec := &events.Recorder{}
	return f, NewFeatureService(f.factory, rec, logger.NewNopLogger()), rec
}

func featureIds(list []*dto.FeatureResponse) []int64 {
	out := make([]int64, 0, len(list))
	for _, f := range list {
		out = append(out, f.Id)
	}
	return out
}

func TestFeatureCreate_AuthorVotesAutomatically(t *testing.T) {
	ctx := context.Background()
	f, svc, rec := newFeatureHarness()
	product := f.product(t, "owner")

	res, err := svc.Create(ctx, "alice", &dto.CreateFeatureRequest{
		ProductId:   product.Id,
		Title:       "Dark mode",
		Description: "Dark theme for the board",
		Category:    "UI/UX Improvement",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.VoteCount)
	assert.Equal(t, "submitted", res.Status)
	assert.Equal(t, "alice", res.AuthorId)

	vote, err := f.factory.NewUnitOfWork(ctx).VoteRepository().FindOne(ctx,
		specification.ByUserID{UserID: "alice"},
		specification.ByFeatureID{FeatureID: res.Id},
	)
	require.NoError(t, err)
	assert.NotNil(t, vote)
	assert.Equal(t, 1, f.reload(t, res.Id).VoteCount)

	assert.Equal(t, []string{events.FeatureSubmitted}, rec.Types())
}

func TestFeatureCreate_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	f, svc, rec := newFeatureHarness()

	_, err := svc.Create(ctx, "alice", &dto.CreateFeatureRequest{ProductId: 9, Title: "Ghost feature"})
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	all, err := f.factory.NewUnitOfWork(ctx).FeatureRepository().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, rec.Events())
}

func TestFeatureGetAll_Projection(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newFeatureHarness()

	a := f.feature(t, 1, "a", entity.StatusSubmitted, 3)
	b := f.feature(t, 1, "b", entity.StatusLive, 7)
	c := f.feature(t, 1, "c", entity.StatusLive, 3)
	f.feature(t, 2, "other product", entity.StatusLive, 100)

	cases := []struct {
		name string
		req  dto.ListFeaturesRequest
		want []int64
	}{
		{name: "votes desc keeps ties in id order", req: dto.ListFeaturesRequest{ProductId: 1, Sort: "votes-desc"}, want: []int64{b.Id, a.Id, c.Id}},
		{name: "votes asc", req: dto.ListFeaturesRequest{ProductId: 1, Sort: "votes-asc"}, want: []int64{a.Id, c.Id, b.Id}},
		{name: "unknown sort falls back to votes desc", req: dto.ListFeaturesRequest{ProductId: 1, Sort: "hot"}, want: []int64{b.Id, a.Id, c.Id}},
		{name: "status filter", req: dto.ListFeaturesRequest{ProductId: 1, Status: "live"}, want: []int64{b.Id, c.Id}},
		{name: "all", req: dto.ListFeaturesRequest{ProductId: 1, Status: "all"}, want: []int64{b.Id, a.Id, c.Id}},
		{name: "unrecognized filter matches nothing", req: dto.ListFeaturesRequest{ProductId: 1, Status: "archived"}, want: []int64{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.GetAll(ctx, &tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, featureIds(got))
		})
	}

	all, err := svc.GetAll(ctx, &dto.ListFeaturesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFeatureGetAll_SortsByDate(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newFeatureHarness()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []int64
	for i, offset := range []int{2, 0, 1} {
		feat := &entity.Feature{
			ProductId: 1,
			Title:     string(rune('a' + i)),
			Status:    entity.StatusSubmitted,
			AuthorId:  "author",
			CreatedAt: base.Add(time.Duration(offset) * time.Hour),
		}
		require.NoError(t, f.factory.NewUnitOfWork(ctx).FeatureRepository().Create(ctx, feat))
		ids = append(ids, feat.Id)
	}

	newest, err := svc.GetAll(ctx, &dto.ListFeaturesRequest{Sort: "date-desc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[0], ids[2], ids[1]}, featureIds(newest))

	oldest, err := svc.GetAll(ctx, &dto.ListFeaturesRequest{Sort: "date-asc"})
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[2], ids[0]}, featureIds(oldest))
}

func TestFeatureUpdateStatus_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	f, svc, rec := newFeatureHarness()
	product := f.product(t, "owner")
	feat := f.feature(t, product.Id, "SSO", entity.StatusSubmitted, 4)

	_, err := svc.UpdateStatus(ctx, "author", &dto.UpdateFeatureStatusRequest{Id: feat.Id, Status: "planned"})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, "owner", &dto.UpdateFeatureStatusRequest{Id: feat.Id, Status: "archived"})
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)

	res, err := svc.UpdateStatus(ctx, "owner", &dto.UpdateFeatureStatusRequest{Id: feat.Id, Status: "planned"})
	require.NoError(t, err)
	assert.Equal(t, "planned", res.Status)
	assert.Equal(t, 4, f.reload(t, feat.Id).VoteCount)

	// unchanged status is a no-op
	_, err = svc.UpdateStatus(ctx, "owner", &dto.UpdateFeatureStatusRequest{Id: feat.Id, Status: "planned"})
	require.NoError(t, err)

	require.Equal(t, []string{events.FeatureStatusChanged}, rec.Types())
	payload := rec.Events()[0].Payload()
	assert.Equal(t, "submitted", payload["from"])
	assert.Equal(t, "planned", payload["to"])

	_, err = svc.UpdateStatus(ctx, "owner", &dto.UpdateFeatureStatusRequest{Id: 999, Status: "live"})
	assert.ErrorIs(t, err, entity.ErrFeatureNotFound)
}

func TestFeatureUpdate_AuthorOrOwner(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newFeatureHarness()
	product := f.product(t, "owner")
	feat := f.feature(t, product.Id, "Export", entity.StatusSubmitted, 2)

	req := &dto.UpdateFeatureRequest{Id: feat.Id, Title: "Export to CSV", Description: "Export all the things", Category: "New Feature"}

	_, err := svc.Update(ctx, "stranger", req)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	for _, actor := range []string{"author", "owner"} {
		res, err := svc.Update(ctx, actor, req)
		require.NoError(t, err, actor)
		assert.Equal(t, "Export to CSV", res.Title)
	}

	stored := f.reload(t, feat.Id)
	assert.Equal(t, "Export to CSV", stored.Title)
	assert.Equal(t, 2, stored.VoteCount)
}

func TestFeatureReconcile_FixesDrift(t *testing.T) {
	ctx := context.Background()
	f, svc, _ := newFeatureHarness()
	product := f.product(t, "owner")
	feat := f.feature(t, product.Id, "Webhooks", entity.StatusSubmitted, 9)

	votes := f.factory.NewUnitOfWork(ctx).VoteRepository()
	require.NoError(t, votes.Create(ctx, &entity.Vote{UserId: "u1", FeatureId: feat.Id}))
	require.NoError(t, votes.Create(ctx, &entity.Vote{UserId: "u2", FeatureId: feat.Id}))

	_, err := svc.Reconcile(ctx, "author", feat.Id)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	res, err := svc.Reconcile(ctx, "owner", feat.Id)
	require.NoError(t, err)
	assert.Equal(t, 9, res.Previous)
	assert.Equal(t, 2, res.VoteCount)
	assert.Equal(t, 2, f.reload(t, feat.Id).VoteCount)
}
