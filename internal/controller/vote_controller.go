package controller

import (
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVoteController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
	HasVoted(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	Mine(ctx *fiber.Ctx) error
	ByFeature(ctx *fiber.Ctx) error
}

type voteController struct {
	service service.IVoteService
}

func NewVoteController(service service.IVoteService) IVoteController {
	return &voteController{service: service}
}

func (c *voteController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	f := api.Group("/feature/v1")
	f.Get(":id/votes", c.ByFeature)
	f.Get(":id/vote", jwtMiddleware, c.HasVoted)
	f.Post(":id/vote", jwtMiddleware, c.Add)
	f.Delete(":id/vote", jwtMiddleware, c.Remove)
	f.Post(":id/vote/toggle", jwtMiddleware, c.Toggle)

	v := api.Group("/vote/v1", jwtMiddleware)
	v.Get("/me", c.Mine)
}

func (c *voteController) HasVoted(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.HasVoted(ctx.UserContext(), serverutils.UserID(ctx), featureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success check vote", res))
}

// Add casts a vote. 409 ALREADY_VOTED when the user already voted.
// @Router /api/feature/v1/{id}/vote [post]
func (c *voteController) Add(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.AddVote(ctx.UserContext(), serverutils.UserID(ctx), featureId)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Vote added", res))
}

// Remove withdraws a vote. 404 VOTE_NOT_FOUND when there is none.
// @Router /api/feature/v1/{id}/vote [delete]
func (c *voteController) Remove(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.RemoveVote(ctx.UserContext(), serverutils.UserID(ctx), featureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vote removed", res))
}

func (c *voteController) Toggle(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.ToggleVote(ctx.UserContext(), serverutils.UserID(ctx), featureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Vote toggled", res))
}

func (c *voteController) Mine(ctx *fiber.Ctx) error {
	res, err := c.service.GetUserVotes(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get user votes", res))
}

func (c *voteController) ByFeature(ctx *fiber.Ctx) error {
	featureId, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetFeatureVotes(ctx.UserContext(), featureId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get feature votes", res))
}
