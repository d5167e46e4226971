package server

import (
	"log"

	"visaforge-be/internal/bootstrap"
	"visaforge-be/internal/config"
	"visaforge-be/internal/pkg/serverutils"

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
		// evidence scans and interview recordings
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Stripe-Signature",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	if cfg.App.OtelEnabled {
		app.Use(otelfiber.Middleware())
	}

	app.Use(serverutils.ErrorHandlerMiddleware())

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"ok": true})
	})

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.VisaTypeController.RegisterRoutes(api)
	c.VisaCaseController.RegisterRoutes(api)
	c.EvidenceController.RegisterRoutes(api)
	c.TaskController.RegisterRoutes(api)
	c.PacketController.RegisterRoutes(api)

	c.PaymentController.RegisterRoutes(api)
	c.InterviewController.RegisterRoutes(api)
	c.AssistantController.RegisterRoutes(api)
	c.TranslationController.RegisterRoutes(api)
	c.ContactController.RegisterRoutes(api)
	c.ReminderController.RegisterRoutes(api)
}
