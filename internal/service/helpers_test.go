package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/memory"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

type fixture struct {
	store   *memory.Store
	factory unitofwork.RepositoryFactory
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{store: store, factory: memory.NewRepositoryFactory(store)}
}

func (f *fixture) product(t *testing.T, owner string) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{Name: "Board", Description: "A product board", OwnerId: owner}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).ProductRepository().Create(ctx, p))
	return p
}

func (f *fixture) feature(t *testing.T, productId int64, title string, status entity.Status, votes int) *entity.Feature {
	t.Helper()
	ctx := context.Background()
	feat := &entity.Feature{
		ProductId:   productId,
		Title:       title,
		Description: "Description of " + title,
		Category:    "New Feature",
		Status:      status,
		AuthorId:    "author",
		VoteCount:   votes,
	}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).FeatureRepository().Create(ctx, feat))
	return feat
}

func (f *fixture) reload(t *testing.T, id int64) *entity.Feature {
	t.Helper()
	ctx := context.Background()
	feat, err := f.factory.NewUnitOfWork(ctx).FeatureRepository().FindOne(ctx, specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, feat)
	return feat
}

// fakeQueue captures payloads handed to the reconcile topic.
type fakeQueue struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (q *fakeQueue) Publish(ctx context.Context, payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *fakeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

// faultyFactory hands out units of work whose repositories fail on the
// operations named in faults.
type faultyFactory struct {
	inner  unitofwork.RepositoryFactory
	faults faults
}

type faults struct {
	adjust      bool
	voteCreate  bool
	voteDelete  bool
	featureFind bool
	begin       bool
	commit      bool
}

func (f *faultyFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &faultyUow{UnitOfWork: f.inner.NewUnitOfWork(ctx), faults: f.faults}
}

type faultyUow struct {
	unitofwork.UnitOfWork
	faults faults
}

func (u *faultyUow) Begin(ctx context.Context) error {
	if u.faults.begin {
		return errDiskFull
	}
	return u.UnitOfWork.Begin(ctx)
}

func (u *faultyUow) Commit() error {
	if u.faults.commit {
		return errDiskFull
	}
	return u.UnitOfWork.Commit()
}

func (u *faultyUow) FeatureRepository() contract.FeatureRepository {
	return &faultyFeatureRepo{FeatureRepository: u.UnitOfWork.FeatureRepository(), faults: u.faults}
}

func (u *faultyUow) VoteRepository() contract.VoteRepository {
	return &faultyVoteRepo{VoteRepository: u.UnitOfWork.VoteRepository(), faults: u.faults}
}

type faultyFeatureRepo struct {
	contract.FeatureRepository
	faults faults
}

func (r *faultyFeatureRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error) {
	if r.faults.featureFind {
		return nil, errDiskFull
	}
	return r.FeatureRepository.FindOne(ctx, specs...)
}

func (r *faultyFeatureRepo) AdjustVoteCount(ctx context.Context, id int64, delta int) (int, error) {
	if r.faults.adjust {
		return 0, errDiskFull
	}
	return r.FeatureRepository.AdjustVoteCount(ctx, id, delta)
}

type faultyVoteRepo struct {
	contract.VoteRepository
	faults faults
}

func (r *faultyVoteRepo) Create(ctx context.Context, vote *entity.Vote) error {
	if r.faults.voteCreate {
		return errDiskFull
	}
	return r.VoteRepository.Create(ctx, vote)
}

func (r *faultyVoteRepo) Delete(ctx context.Context, userId string, featureId int64) (bool, error) {
	if r.faults.voteDelete {
		return false, errDiskFull
	}
	return r.VoteRepository.Delete(ctx, userId, featureId)
}
