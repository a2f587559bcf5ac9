package middleware

import (
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// APIKey memvalidasi header X-API-Key untuk endpoint device HTTP.
// Kalau required=false, request tanpa header tetap lewat (mode open,
// dipakai saat firmware lama belum dibekali API key).
func APIKey(uc *usecase.APIKeyUsecase, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-API-Key")
		if raw == "" {
			if !required {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "message": "API key wajib disertakan",
			})
		}

		key, err := uc.Verify(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error", "message": "API key tidak valid",
			})
		}

		c.Locals("api_key_id", key.ID)
		c.Locals("api_key_user_id", key.UserID)
		return c.Next()
	}
}
