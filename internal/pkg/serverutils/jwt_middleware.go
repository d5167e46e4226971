package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

var ErrUnauthenticated = errors.New("not authenticated")

// NewJwtMiddleware verifies Supabase access tokens (HS256, signed with the
// project JWT secret). The "sub" claim is the user id.
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		tokenStr := strings.TrimSpace(authHeader[7:])

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		email, _ := claims["email"].(string)

		ctx.Locals(LocalUserID, sub)
		ctx.Locals(LocalUserEmail, email)
		return ctx.Next()
	}
}

// UserID returns the authenticated user id set by the JWT middleware.
func UserID(ctx *fiber.Ctx) (string, error) {
	id, ok := ctx.Locals(LocalUserID).(string)
	if !ok || id == "" {
		return "", ErrUnauthenticated
	}
	return id, nil
}

func UserEmail(ctx *fiber.Ctx) string {
	email, _ := ctx.Locals(LocalUserEmail).(string)
	return email
}
