package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEvidenceController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Record(ctx *fiber.Ctx) error
	Attach(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
}

type evidenceController struct {
	service service.IEvidenceService
	auth    fiber.Handler
}

func NewEvidenceController(service service.IEvidenceService, auth fiber.Handler) IEvidenceController {
	return &evidenceController{service: service, auth: auth}
}

func (c *evidenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cases/:id")
	h.Get("/progress", c.auth, c.Progress)
	h.Get("/evidence", c.auth, c.List)
	h.Post("/evidence/refresh", c.auth, c.Refresh)
	h.Put("/evidence/:evidenceId", c.auth, c.Record)
	h.Post("/evidence/:evidenceId/files", c.auth, c.Attach)
}

func (c *evidenceController) List(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.List(ctx.Context(), userId, caseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Evidence", res))
}

func (c *evidenceController) Record(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.RecordEvidenceRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Record(ctx.Context(), userId, caseId, ctx.Params("evidenceId"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Evidence recorded", res))
}

func (c *evidenceController) Attach(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Validation("Missing file")
	}
	file, err := header.Open()
	if err != nil {
		return apperror.Validation("Could not read file")
	}
	defer file.Close()

	res, err := c.service.Attach(ctx.Context(), userId, caseId, ctx.Params("evidenceId"), &dto.EvidenceFileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("File uploaded", res))
}

func (c *evidenceController) Refresh(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Refresh(ctx.Context(), userId, caseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Links refreshed", res))
}

func (c *evidenceController) Progress(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	res, err := c.service.Progress(ctx.Context(), userId, caseId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Progress", res))
}
