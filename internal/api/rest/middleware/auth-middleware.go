package middleware

import (
	"github.com/LumosAcademy/payment_service/internal/domain"
	"github.com/LumosAcademy/payment_service/internal/helper"
	"github.com/LumosAcademy/payment_service/internal/repository"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the access token from the cookie or the
// Authorization header and stores the claims in ctx.Locals.
func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies("access_token")
		if token == "" {
			token = ctx.Get("Authorization")
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized",
			})
		}

		ctx.Locals("user", claims)
		ctx.Locals("userID", uint(claims.UserID))
		return ctx.Next()
	}
}

// AdminOnly allows the request through only when the authenticated account
// still has the admin role. Runs after AuthMiddleware.
func AdminOnly(users repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := ctx.Locals("userID").(uint)
		if !ok || userID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized",
			})
		}

		user, err := users.FindUserById(userID)
		if err != nil || user.Role != domain.RoleAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "admin access required",
			})
		}

		return ctx.Next()
	}
}
