package controller

import (
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRoadmapController interface {
	RegisterRoutes(api fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type roadmapController struct {
	service service.IRoadmapService
}

func NewRoadmapController(service service.IRoadmapService) IRoadmapController {
	return &roadmapController{service: service}
}

func (c *roadmapController) RegisterRoutes(api fiber.Router) {
	api.Get("/roadmap/v1/:productId", c.Show)
}

func (c *roadmapController) Show(ctx *fiber.Ctx) error {
	productId, err := paramID(ctx, "productId")
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.UserContext(), productId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get roadmap", res))
}
