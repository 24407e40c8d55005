package memory

import (
	"context"
	"testing"
	"time"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFeature(t *testing.T, ctx context.Context, store *Store, title string, votes int) *entity.Feature {
	t.Helper()
	uow := NewRepositoryFactory(store).NewUnitOfWork(ctx)
	f := &entity.Feature{
		ProductId: 1,
		Title:     title,
		Status:    entity.StatusSubmitted,
		AuthorId:  "author",
		VoteCount: votes,
	}
	require.NoError(t, uow.FeatureRepository().Create(ctx, f))
	return f
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "Dark mode", 0)

	uow := NewRepositoryFactory(store).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.VoteRepository().Create(ctx, &entity.Vote{UserId: "u1", FeatureId: f.Id}))
	_, err := uow.FeatureRepository().AdjustVoteCount(ctx, f.Id, 1)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	check := NewRepositoryFactory(store).NewUnitOfWork(ctx)
	got, err := check.FeatureRepository().FindOne(ctx, specification.ByID{ID: f.Id})
	require.NoError(t, err)
	assert.Equal(t, 0, got.VoteCount)

	count, err := check.VoteRepository().Count(ctx, specification.ByFeatureID{FeatureID: f.Id})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommitThenRollbackIsRejected(t *testing.T) {
	ctx := context.Background()
	uow := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())
	assert.Error(t, uow.Rollback())
	assert.Error(t, uow.Commit())
}

func TestVoteCreateEnforcesUniquePair(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "Export", 0)
	repo := NewRepositoryFactory(store).NewUnitOfWork(ctx).VoteRepository()

	require.NoError(t, repo.Create(ctx, &entity.Vote{UserId: "u1", FeatureId: f.Id}))
	err := repo.Create(ctx, &entity.Vote{UserId: "u1", FeatureId: f.Id})
	assert.ErrorIs(t, err, contract.ErrDuplicateRecord)
	require.NoError(t, repo.Create(ctx, &entity.Vote{UserId: "u2", FeatureId: f.Id}))

	removed, err := repo.Delete(ctx, "u1", f.Id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "u1", f.Id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAdjustVoteCountFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "SSO", 1)
	repo := NewRepositoryFactory(store).NewUnitOfWork(ctx).FeatureRepository()

	count, err := repo.AdjustVoteCount(ctx, f.Id, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = repo.AdjustVoteCount(ctx, f.Id, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = repo.AdjustVoteCount(ctx, 999, 1)
	assert.ErrorIs(t, err, contract.ErrRecordNotFound)
}

func TestFindAllOrderingAndPagination(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}

	seedFeature(t, ctx, store, "a", 3)
	seedFeature(t, ctx, store, "b", 1)
	seedFeature(t, ctx, store, "c", 2)

	repo := NewRepositoryFactory(store).NewUnitOfWork(ctx).FeatureRepository()

	byVotes, err := repo.FindAll(ctx, specification.OrderBy{Field: "vote_count", Desc: true})
	require.NoError(t, err)
	require.Len(t, byVotes, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{byVotes[0].Title, byVotes[1].Title, byVotes[2].Title})

	newest, err := repo.FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 1, Offset: 0},
	)
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, "c", newest[0].Title)

	none, err := repo.FindOne(ctx, specification.ByID{ID: 42})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUnknownStoredStatusDecodesAsUnknown(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "legacy", 0)

	m := store.data.features[f.Id]
	m.Status = "archived"
	store.data.features[f.Id] = m

	got, err := NewRepositoryFactory(store).NewUnitOfWork(ctx).FeatureRepository().FindOne(ctx, specification.ByID{ID: f.Id})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnknown, got.Status)
}

func TestUpdateKeepsUnrecognizedStatus(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "legacy", 2)

	m := store.data.features[f.Id]
	m.Status = "archived"
	store.data.features[f.Id] = m

	repo := NewRepositoryFactory(store).NewUnitOfWork(ctx).FeatureRepository()
	loaded, err := repo.FindOne(ctx, specification.ByID{ID: f.Id})
	require.NoError(t, err)
	loaded.Title = "legacy, renamed"
	require.NoError(t, repo.Update(ctx, loaded))

	stored := store.data.features[f.Id]
	assert.Equal(t, "archived", stored.Status)
	assert.Equal(t, "legacy, renamed", stored.Title)
	assert.Equal(t, 2, stored.VoteCount)

	loaded.Status = entity.StatusPlanned
	require.NoError(t, repo.Update(ctx, loaded))
	assert.Equal(t, entity.StatusPlanned.String(), store.data.features[f.Id].Status)
}

func TestForUpdateMatchesLikePlainLookup(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	f := seedFeature(t, ctx, store, "locked", 0)

	uow := NewRepositoryFactory(store).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	got, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: f.Id}, specification.ForUpdate{})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.Id, got.Id)
}
