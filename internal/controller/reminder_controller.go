package controller

import (
	"crypto/subtle"
	"time"

	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReminderController interface {
	RegisterRoutes(r fiber.Router)
	DueReminders(ctx *fiber.Ctx) error
}

type reminderController struct {
	service    service.IReminderService
	cronSecret string
}

// NewReminderController guards the sweep with "Bearer <cronSecret>" when a
// secret is configured.
func NewReminderController(service service.IReminderService, cronSecret string) IReminderController {
	return &reminderController{service: service, cronSecret: cronSecret}
}

func (c *reminderController) RegisterRoutes(r fiber.Router) {
	r.Get("/cron/due-reminders", c.DueReminders)
}

func (c *reminderController) DueReminders(ctx *fiber.Ctx) error {
	if c.cronSecret != "" {
		expected := "Bearer " + c.cronSecret
		if subtle.ConstantTimeCompare([]byte(ctx.Get(fiber.HeaderAuthorization)), []byte(expected)) != 1 {
			return apperror.Auth("Unauthorized")
		}
	}

	window := service.DefaultReminderWindow
	if raw := ctx.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return apperror.Validation("Invalid window")
		}
		window = d
	}

	res, err := c.service.Sweep(ctx.Context(), window, ctx.QueryBool("dry_run", false))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
