package controller

import (
	"featureboard-be/internal/dto"
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICommentController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	GetByFeature(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type commentController struct {
	service service.ICommentService
}

func NewCommentController(service service.ICommentService) ICommentController {
	return &commentController{service: service}
}

func (c *commentController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	f := api.Group("/feature/v1")
	f.Get(":id/comments", c.GetByFeature)
	f.Post(":id/comments", jwtMiddleware, c.Create)

	h := api.Group("/comment/v1")
	h.Get(":id", c.Show)
	h.Put(":id", jwtMiddleware, c.Update)
	h.Delete(":id", jwtMiddleware, c.Delete)
}

func (c *commentController) GetByFeature(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	req := dto.ListCommentsRequest{
		FeatureId: featureId,
		Limit:     ctx.QueryInt("limit", 0),
		Offset:    ctx.QueryInt("offset", 0),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetByFeature(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get comments", res))
}

func (c *commentController) Create(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.FeatureId = featureId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create comment", res))
}

func (c *commentController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show comment", res))
}

func (c *commentController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCommentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update comment", res))
}

func (c *commentController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), serverutils.UserID(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete comment", nil))
}
