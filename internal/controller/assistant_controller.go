package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	DraftAffidavit(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
	auth    fiber.Handler
}

func NewAssistantController(service service.IAssistantService, auth fiber.Handler) IAssistantController {
	return &assistantController{service: service, auth: auth}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai")
	h.Post("/chat", c.auth, c.Chat)
	h.Post("/affidavit", c.auth, c.DraftAffidavit)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *assistantController) DraftAffidavit(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	var req dto.AffidavitRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}
	res, err := c.service.DraftAffidavit(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
