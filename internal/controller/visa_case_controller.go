package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IVisaCaseController interface {
	RegisterRoutes(r fiber.Router)
	SubmitQuiz(ctx *fiber.Ctx) error
	Latest(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SaveDraft(ctx *fiber.Ctx) error
}

type visaCaseController struct {
	service service.IVisaCaseService
	auth    fiber.Handler
}

func NewVisaCaseController(service service.IVisaCaseService, auth fiber.Handler) IVisaCaseController {
	return &visaCaseController{service: service, auth: auth}
}

func (c *visaCaseController) RegisterRoutes(r fiber.Router) {
	// evidence and task routes share the /cases prefix, so auth is attached per route
	h := r.Group("/cases")
	h.Post("/quiz", c.auth, c.SubmitQuiz)
	h.Get("/latest", c.auth, c.Latest)
	h.Get("/:id", c.auth, c.Show)
	h.Patch("/:id/draft", c.auth, c.SaveDraft)
}

func (c *visaCaseController) SubmitQuiz(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	var req dto.QuizRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SubmitQuiz(ctx.Context(), userId, serverutils.UserEmail(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Case created", res))
}

func (c *visaCaseController) Latest(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	res, err := c.service.GetLatest(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Latest case", res))
}

func (c *visaCaseController) Show(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.GetByID(ctx.Context(), userId, caseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Case", res))
}

func (c *visaCaseController) SaveDraft(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.SaveDraftRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SaveDraft(ctx.Context(), userId, caseId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Draft saved", res))
}
