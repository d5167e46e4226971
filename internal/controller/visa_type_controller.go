package controller

import (
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVisaTypeController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type visaTypeController struct {
	service service.IVisaCaseService
}

func NewVisaTypeController(service service.IVisaCaseService) IVisaTypeController {
	return &visaTypeController{service: service}
}

func (c *visaTypeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/visa-types")
	h.Get("", c.List)
	h.Get("/:type", c.Show)
}

func (c *visaTypeController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Visa types", c.service.ListVisaTypes()))
}

func (c *visaTypeController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetVisaType(ctx.Params("type"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Visa type", res))
}
