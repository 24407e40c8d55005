// FILE: internal/controller/feature_controller.go
package controller

import (
	"featureboard-be/internal/dto"
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeatureController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	Reconcile(ctx *fiber.Ctx) error
}

type featureController struct {
	service service.IFeatureService
}

func NewFeatureController(service service.IFeatureService) IFeatureController {
	return &featureController{service: service}
}

func (c *featureController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/feature/v1")
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Post("", jwtMiddleware, c.Create)
	h.Put(":id", jwtMiddleware, c.Update)
	h.Patch(":id/status", jwtMiddleware, c.UpdateStatus)
	h.Post(":id/reconcile", jwtMiddleware, c.Reconcile)
}

// GetAll returns the projected feature list
// @Summary List features
// @Param product_id query int false "Product filter"
// @Param sort query string false "votes-desc | votes-asc | date-desc | date-asc"
// @Param status query string false "all or a pipeline status"
// @Router /api/feature/v1 [get]
func (c *featureController) GetAll(ctx *fiber.Ctx) error {
	req := dto.ListFeaturesRequest{
		ProductId: int64(ctx.QueryInt("product_id", 0)),
		Sort:      ctx.Query("sort"),
		Status:    ctx.Query("status"),
	}

	res, err := c.service.GetAll(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all feature", res))
}

func (c *featureController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show feature", res))
}

func (c *featureController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateFeatureRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create feature", res))
}

func (c *featureController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFeatureRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update feature", res))
}

// UpdateStatus moves the feature along the pipeline (product owner only)
// @Router /api/feature/v1/{id}/status [patch]
func (c *featureController) UpdateStatus(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateFeatureStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateStatus(ctx.UserContext(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update feature status", res))
}

func (c *featureController) Reconcile(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Reconcile(ctx.UserContext(), serverutils.UserID(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reconcile vote count", res))
}
