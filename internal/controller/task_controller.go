package controller

import (
	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITaskController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Seed(ctx *fiber.Ctx) error
	SetStatus(ctx *fiber.Ctx) error
}

type taskController struct {
	service service.ITaskService
	auth    fiber.Handler
}

func NewTaskController(service service.ITaskService, auth fiber.Handler) ITaskController {
	return &taskController{service: service, auth: auth}
}

func (c *taskController) RegisterRoutes(r fiber.Router) {
	r.Get("/cases/:id/tasks", c.auth, c.List)
	r.Post("/cases/:id/tasks/seed", c.auth, c.Seed)
	r.Patch("/tasks/:taskId", c.auth, c.SetStatus)
}

func (c *taskController) List(ctx *fiber.Ctx) error {
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
	return ctx.JSON(serverutils.SuccessResponse("Tasks", res))
}

// Seed accepts an empty body, which seeds the default checklist.
func (c *taskController) Seed(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	caseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.SeedTasksRequest
	if len(ctx.Body()) > 0 {
		if err := bindJSON(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.Seed(ctx.Context(), userId, caseId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks seeded", res))
}

func (c *taskController) SetStatus(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	taskId, err := uuidParam(ctx, "taskId")
	if err != nil {
		return err
	}
	var req dto.SetTaskStatusRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetStatus(ctx.Context(), userId, taskId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task updated", res))
}
