package controller

import (
	"featureboard-be/internal/dto"
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProductController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type productController struct {
	service service.IProductService
}

func NewProductController(service service.IProductService) IProductController {
	return &productController{service: service}
}

func (c *productController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	h := api.Group("/product/v1")
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Post("", jwtMiddleware, c.Create)
	h.Put(":id", jwtMiddleware, c.Update)
}

func (c *productController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext(), ctx.Query("owner_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all product", res))
}

func (c *productController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *productController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProductRequest
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
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create product", res))
}

func (c *productController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateProductRequest
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
	return ctx.JSON(serverutils.SuccessResponse("Success update product", res))
}
