package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
}

type contactController struct {
	service service.IContactService
}

func NewContactController(service service.IContactService) IContactController {
	return &contactController{service: service}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	r.Post("/contact", c.Submit)
}

func (c *contactController) Submit(ctx *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	res, err := c.service.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
