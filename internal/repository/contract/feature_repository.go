// FILE: internal/repository/contract/feature_repository.go
// Repository interface for feature requests
package contract

import (
	"context"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/repository/specification"
)

type FeatureRepository interface {
	Create(ctx context.Context, feature *entity.Feature) error
	Update(ctx context.Context, feature *entity.Feature) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Feature, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feature, error)

	// AdjustVoteCount adds delta to the stored count, flooring at zero, and
	// returns the count as persisted afterwards.
	AdjustVoteCount(ctx context.Context, id int64, delta int) (int, error)
	SetVoteCount(ctx context.Context, id int64, count int) error
}
