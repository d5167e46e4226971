package controller

import (
	"fmt"

	"visaforge-be/internal/dto"
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/serverutils"
	"visaforge-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
	auth    fiber.Handler
}

func NewPaymentController(service service.IPaymentService, auth fiber.Handler) IPaymentController {
	return &paymentController{service: service, auth: auth}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Get("/plans", c.GetPlans)
	h.Post("/checkout", c.auth, c.Checkout)

	// Stripe signs the raw body, so this route must never be behind a body-rewriting middleware.
	r.Post("/stripe/webhook", c.Webhook)
}

func (c *paymentController) GetPlans(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", c.service.GetPlans()))
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userId, err := currentUser(ctx)
	if err != nil {
		return err
	}
	var req dto.CheckoutRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateCheckout(ctx.Context(), userId, serverutils.UserEmail(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout session created", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	signature := ctx.Get("Stripe-Signature")
	if signature == "" {
		fmt.Println("[WEBHOOK] Rejected request without Stripe-Signature header")
		return apperror.Validation("Missing stripe-signature")
	}

	// Body() is only valid for the lifetime of the handler; copy before handing it off.
	payload := append([]byte(nil), ctx.Body()...)

	res, err := c.service.HandleWebhook(ctx.Context(), payload, signature)
	if err != nil {
		fmt.Printf("[WEBHOOK] Error: %v\n", err)
		return err
	}
	return ctx.JSON(res)
}
