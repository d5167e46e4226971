package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPacketController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
}

type packetController struct {
	service service.IPacketService
	auth    fiber.Handler
}

func NewPacketController(service service.IPacketService, auth fiber.Handler) IPacketController {
	return &packetController{service: service, auth: auth}
}

func (c *packetController) RegisterRoutes(r fiber.Router) {
	r.Post("/forms/generate", c.auth, c.Generate)
}

// Generate answers with a bare {"url": ...}; the web client reads it directly.
func (c *packetController) Generate(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	var req dto.GeneratePacketRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
