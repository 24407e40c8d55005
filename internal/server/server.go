package server

import (
	"context"
	"log"
	"strings"

	"featureboard-be/internal/bootstrap"
	"featureboard-be/internal/config"
	"featureboard-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB
	})

	app.Use(cors.New(corsConfig(cfg.App.CorsAllowedOrigins)))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

// corsConfig only allows credentials for an explicit origin list. Fiber
// refuses credentials together with a wildcard origin.
func corsConfig(origins string) cors.Config {
	wildcard := false
	for _, origin := range strings.Split(origins, ",") {
		if strings.TrimSpace(origin) == "*" {
			wildcard = true
		}
	}
	if wildcard {
		log.Printf("[WARN] CORS_ALLOWED_ORIGINS contains *, credentials are disabled")
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: !wildcard,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")
	jwtMiddleware := serverutils.JwtMiddleware(cfg.Auth.JWTSecret)

	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})

	c.ProductController.RegisterRoutes(api, jwtMiddleware)
	c.FeatureController.RegisterRoutes(api, jwtMiddleware)
	c.VoteController.RegisterRoutes(api, jwtMiddleware)
	c.CommentController.RegisterRoutes(api, jwtMiddleware)
	c.RoadmapController.RegisterRoutes(api)

	c.BoardFeedHandler.RegisterRoutes(api)
}
