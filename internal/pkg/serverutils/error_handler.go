package serverutils

import (
	"errors"

	"visaforge-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindAuth:
		return fiber.StatusUnauthorized
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindUpstream:
		return fiber.StatusBadGateway
	}
	if errors.Is(err, ErrUnauthenticated) {
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

// WriteError renders err with the standard error envelope.
func WriteError(ctx *fiber.Ctx, err error) error {
	code := StatusFor(err)
	res := ErrorResponse(code, err.Error())
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		res.Missing = appErr.Missing
	}
	return ctx.Status(code).JSON(res)
}

// ErrorHandlerMiddleware renders any error returned further down the chain.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}
