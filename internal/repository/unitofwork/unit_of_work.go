package unitofwork

import (
	"context"

	"featureboard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FeatureRepository() contract.FeatureRepository
	VoteRepository() contract.VoteRepository
	ProductRepository() contract.ProductRepository
	CommentRepository() contract.CommentRepository
}
