package service

import (
	"context"
	"errors"
	"time"

	"featureboard-be/internal/dto"
	"featureboard-be/internal/entity"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/repository/contract"
	"featureboard-be/internal/repository/specification"
	"featureboard-be/internal/repository/unitofwork"
	"featureboard-be/pkg/events"
)

type ICommentService interface {
	GetByFeature(ctx context.Context, req *dto.ListCommentsRequest) ([]*dto.CommentResponse, error)
	Show(ctx context.Context, id int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, authorId string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actorId string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actorId string, id int64) error
}

type commentService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewCommentService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	logger logger.ILogger,
) ICommentService {
	return &commentService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// GetByFeature lists comments newest first. A zero Limit returns all of them.
func (s *commentService) GetByFeature(ctx context.Context, req *dto.ListCommentsRequest) ([]*dto.CommentResponse, error) {
	featureId := req.FeatureId
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: featureId})
	if err != nil {
		return nil, entity.StoreUnavailable("list comments", err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}

	specs := []specification.Specification{
		specification.ByFeatureID{FeatureID: featureId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
	}
	if req.Limit > 0 {
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: req.Offset})
	}
	comments, err := uow.CommentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, entity.StoreUnavailable("list comments", err)
	}

	res := make([]*dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		res = append(res, toCommentResponse(c))
	}
	return res, nil
}

func (s *commentService) Show(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	comment, err := s.find(ctx, uow, "show comment", id)
	if err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// Create marks the comment official when its author owns the feature's product.
func (s *commentService) Create(ctx context.Context, authorId string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	const op = "create comment"
	uow := s.uowFactory.NewUnitOfWork(ctx)

	feature, err := uow.FeatureRepository().FindOne(ctx, specification.ByID{ID: req.FeatureId})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if feature == nil {
		return nil, entity.ErrFeatureNotFound
	}

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: feature.ProductId})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	authorName := req.AuthorName
	if authorName == "" {
		authorName = "Anonymous"
	}

	now := time.Now()
	comment := &entity.Comment{
		FeatureId:  feature.Id,
		AuthorId:   authorId,
		AuthorName: authorName,
		Content:    req.Content,
		IsOfficial: product != nil && product.OwnerId == authorId,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uow.CommentRepository().Create(ctx, comment); err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}

	if s.eventPublisher != nil {
		err := s.eventPublisher.Publish(ctx, events.New(events.CommentPosted, map[string]interface{}{
			"comment_id":  comment.Id,
			"feature_id":  feature.Id,
			"product_id":  feature.ProductId,
			"is_official": comment.IsOfficial,
		}))
		if err != nil {
			s.logger.Warn("COMMENT", "Failed to publish event", map[string]interface{}{"error": err.Error()})
		}
	}

	return toCommentResponse(comment), nil
}

func (s *commentService) Update(ctx context.Context, actorId string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	const op = "update comment"
	uow := s.uowFactory.NewUnitOfWork(ctx)

	comment, err := s.find(ctx, uow, op, req.Id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorId != actorId {
		return nil, entity.ErrForbidden
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()
	if err := uow.CommentRepository().Update(ctx, comment); err != nil {
		if errors.Is(err, contract.ErrRecordNotFound) {
			return nil, entity.ErrCommentNotFound
		}
		return nil, entity.StoreUnavailable(op, err)
	}
	return toCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actorId string, id int64) error {
	const op = "delete comment"
	uow := s.uowFactory.NewUnitOfWork(ctx)

	comment, err := s.find(ctx, uow, op, id)
	if err != nil {
		return err
	}
	if comment.AuthorId != actorId {
		return entity.ErrForbidden
	}

	if err := uow.CommentRepository().Delete(ctx, id); err != nil {
		return entity.StoreUnavailable(op, err)
	}
	return nil
}

func (s *commentService) find(ctx context.Context, uow unitofwork.UnitOfWork, op string, id int64) (*entity.Comment, error) {
	comment, err := uow.CommentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, entity.StoreUnavailable(op, err)
	}
	if comment == nil {
		return nil, entity.ErrCommentNotFound
	}
	return comment, nil
}

func toCommentResponse(c *entity.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		Id:         c.Id,
		FeatureId:  c.FeatureId,
		AuthorId:   c.AuthorId,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		IsOfficial: c.IsOfficial,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
