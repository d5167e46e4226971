package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITranslationController interface {
	RegisterRoutes(r fiber.Router)
	Order(ctx *fiber.Ctx) error
}

type translationController struct {
	service service.ITranslationService
	auth    fiber.Handler
}

func NewTranslationController(service service.ITranslationService, auth fiber.Handler) ITranslationController {
	return &translationController{service: service, auth: auth}
}

func (c *translationController) RegisterRoutes(r fiber.Router) {
	r.Post("/translate", c.auth, c.Order)
}

// Order relays the vendor's status code and body unchanged.
func (c *translationController) Order(ctx *fiber.Ctx) error {
	req := dto.TranslationOrderRequest{
		TargetLang: ctx.FormValue("targetLang"),
		VisaAppId:  ctx.FormValue("visa_app_id"),
		EvidenceId: ctx.FormValue("evidence_id"),
	}

	if header, err := ctx.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			return apperror.Validation("Could not read file")
		}
		defer file.Close()
		req.File = file
		req.Filename = header.Filename
	}

	res, err := c.service.Order(ctx.Context(), &req)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Status(res.Status).Send(res.Body)
}
