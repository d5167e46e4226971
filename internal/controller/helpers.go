package controller

import (
	"visaforge-be/internal/pkg/apperror"
	"visaforge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func currentUser(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Auth("Invalid user id in token")
	}
	return id, nil
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validationf("Invalid %s", name)
	}
	return id, nil
}

// bindJSON parses and validates a JSON body into req.
func bindJSON(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}
