package middleware

import (
	"github.com/koropati/water-pulsa-be/internal/model"

	"github.com/gofiber/fiber/v2"
)

// Permission menolak request kalau role caller tidak punya capability
// yang diminta. Pengecekan role HANYA lewat model.Can, tidak ada
// perbandingan string role di handler.
func Permission(required model.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error", "message": "Akses ditolak: role tidak valid",
			})
		}

		if !model.Can(role, required) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error", "message": "Akses ditolak: Anda tidak memiliki izin " + string(required),
			})
		}

		return c.Next()
	}
}
