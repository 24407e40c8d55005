package memory

import (
	"context"
	"fmt"

	"featureboard-be/internal/repository/contract"
)

type unitOfWork struct {
	store    *Store
	inTx     bool
	snapshot *tables
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.store.mu.Lock()
	u.snapshot = u.store.data.clone()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.snapshot = nil
	u.store.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.data = u.snapshot
	u.inTx = false
	u.snapshot = nil
	u.store.mu.Unlock()
	return nil
}

// run executes fn against the live tables. Inside a transaction the store
// lock is already held by Begin.
func (u *unitOfWork) run(fn func(t *tables) error) error {
	if u.inTx {
		return fn(u.store.data)
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(u.store.data)
}

func (u *unitOfWork) FeatureRepository() contract.FeatureRepository {
	return newFeatureRepository(u)
}

func (u *unitOfWork) VoteRepository() contract.VoteRepository {
	return newVoteRepository(u)
}

func (u *unitOfWork) ProductRepository() contract.ProductRepository {
	return newProductRepository(u)
}

func (u *unitOfWork) CommentRepository() contract.CommentRepository {
	return newCommentRepository(u)
}
