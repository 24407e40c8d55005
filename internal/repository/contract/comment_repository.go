package contract

import (
	"context"

	"featureboard-be/internal/entity"
	"featureboard-be/internal/repository/specification"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Comment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Comment, error)
}
