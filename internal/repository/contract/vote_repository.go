// FILE: internal/repository/contract/vote_repository.go
package contract

import (
	"context"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/repository/specification"
)

type VoteRepository interface {
	// Create returns ErrDuplicateRecord when the (user, feature) pair exists.
	Create(ctx context.Context, vote *entity.Vote) error
	// Delete reports whether a relation was actually removed.
	Delete(ctx context.Context, userId string, featureId int64) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Vote, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Vote, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
