package handler

import (
	"strconv"

	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type APIKeyHandler struct {
	usecase *usecase.APIKeyUsecase
	repo    *repository.APIKeyRepository
}

func NewAPIKeyHandler(u *usecase.APIKeyUsecase, repo *repository.APIKeyRepository) *APIKeyHandler {
	return &APIKeyHandler{usecase: u, repo: repo}
}

func (h *APIKeyHandler) Create(c *fiber.Ctx) error {
	var input struct {
		Label string `json:"label"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}

	userID := c.Locals("user_id").(uint)

	plaintext, key, err := h.usecase.Issue(userID, input.Label)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal membuat API key",
		})
	}

	// api_key plaintext HANYA muncul di respons ini, simpan baik-baik
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "API key berhasil dibuat, simpan karena tidak akan ditampilkan lagi",
		"data": fiber.Map{
			"id":      key.ID,
			"key_id":  key.KeyID,
			"label":   key.Label,
			"api_key": plaintext,
		},
	})
}

func (h *APIKeyHandler) GetAll(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	keys, err := h.repo.GetByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil daftar API key",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil daftar API key",
		"data":    keys,
	})
}

func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "ID tidak valid",
		})
	}

	userID := c.Locals("user_id").(uint)
	if err := h.repo.Revoke(uint(id), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mencabut API key",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "API key berhasil dicabut",
	})
}
