package handler

import (
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/service"
	internalWS "featureboard-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// BoardFeedHandler upgrades board watchers to a WebSocket that streams the
// product's vote, status and comment events.
type BoardFeedHandler struct {
	productService service.IProductService
	hub            *internalWS.Hub
	logger         logger.ILogger
}

func NewBoardFeedHandler(productService service.IProductService, hub *internalWS.Hub, log logger.ILogger) *BoardFeedHandler {
	return &BoardFeedHandler{
		productService: productService,
		hub:            hub,
		logger:         log,
	}
}

func (h *BoardFeedHandler) ServeWs(c *fiber.Ctx) error {
	productId, err := c.ParamsInt("productId")
	if err != nil || productId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	// unknown products are rejected before the upgrade
	if _, err := h.productService.Show(c.UserContext(), int64(productId)); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := internalWS.NewClient(h.hub, conn, int64(productId))
		h.logger.Info("BoardFeedHandler", "Starting WebSocket session", map[string]interface{}{
			"client_id":  client.Id,
			"product_id": productId,
		})
		client.Serve()
		h.logger.Info("BoardFeedHandler", "WebSocket session ended", map[string]interface{}{
			"client_id":  client.Id,
			"product_id": productId,
		})
	})(c)
}

func (h *BoardFeedHandler) RegisterRoutes(router fiber.Router) {
	board := router.Group("/board/v1")
	board.Get("/:productId/ws", h.ServeWs)
}
