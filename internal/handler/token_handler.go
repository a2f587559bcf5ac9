package handler

import (
	"errors"
	"strconv"

	"github.com/koropati/water-pulsa-be/internal/mailer"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TokenHandler struct {
	tokens  *repository.TokenRepository
	devices *repository.DeviceRepository
	mailer  *mailer.Mailer // boleh nil
}

func NewTokenHandler(tokens *repository.TokenRepository, devices *repository.DeviceRepository, m *mailer.Mailer) *TokenHandler {
	return &TokenHandler{tokens: tokens, devices: devices, mailer: m}
}

func tokenJSON(token model.Token, deviceKey string) fiber.Map {
	return fiber.Map{
		"id":         token.ID,
		"device_id":  token.DeviceID,
		"device_key": deviceKey,
		"token":      token.Token,
		"amount":     model.FromMinor(token.Amount),
		"status":     token.Status,
		"used_at":    token.UsedAt,
		"created_at": token.CreatedAt,
	}
}

// Create menerbitkan token pulsa untuk sebuah device.
func (h *TokenHandler) Create(c *fiber.Ctx) error {
	var input struct {
		DeviceID uint            `json:"device_id"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}

	amount, err := model.ToMinor(input.Amount)
	if err != nil || amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Nominal harus lebih dari nol",
			"errors": fiber.Map{"amount": "positif, maksimal 2 desimal"},
		})
	}

	device, err := h.devices.GetByID(input.DeviceID)
	if errors.Is(err, model.ErrDeviceNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": "Perangkat tidak ditemukan",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil data perangkat",
		})
	}

	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)
	if !model.CanAccessDevice(userID, role, &device) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error", "message": "Akses ditolak: bukan perangkat Anda",
		})
	}

	token, err := h.tokens.Issue(device.ID, amount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal menerbitkan token",
		})
	}

	if h.mailer != nil {
		go h.mailer.TokenIssued(device, token)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Token berhasil diterbitkan",
		"data":    tokenJSON(token, device.DeviceKey),
	})
}

func (h *TokenHandler) GetAll(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)

	deviceIDParam := c.Query("device_id")
	if deviceIDParam != "" {
		deviceID, err := strconv.Atoi(deviceIDParam)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error", "message": "device_id tidak valid",
			})
		}

		device, err := h.devices.GetByID(uint(deviceID))
		if errors.Is(err, model.ErrDeviceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status": "error", "message": "Perangkat tidak ditemukan",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error", "message": "Gagal mengambil data perangkat",
			})
		}
		if !model.CanAccessDevice(userID, role, &device) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error", "message": "Akses ditolak: bukan perangkat Anda",
			})
		}

		tokens, err := h.tokens.GetByDevice(device.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "error", "message": "Gagal mengambil daftar token",
			})
		}
		data := make([]fiber.Map, 0, len(tokens))
		for _, token := range tokens {
			data = append(data, tokenJSON(token, device.DeviceKey))
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Berhasil mengambil daftar token",
			"data":    data,
		})
	}

	// Tanpa filter device: khusus admin, daftar semua token
	if !model.Can(role, model.CapBypassOwnership) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error", "message": "Akses ditolak: sertakan device_id milik Anda",
		})
	}
	tokens, err := h.tokens.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil daftar token",
		})
	}
	data := make([]fiber.Map, 0, len(tokens))
	for _, token := range tokens {
		data = append(data, tokenJSON(token, ""))
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil daftar token",
		"data":    data,
	})
}

func (h *TokenHandler) GetDetail(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "ID token tidak valid",
		})
	}

	token, err := h.tokens.GetByID(uint(id))
	if errors.Is(err, model.ErrTokenNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status": "error", "message": "Token tidak ditemukan",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal mengambil token",
		})
	}

	userID := c.Locals("user_id").(uint)
	role := c.Locals("role").(string)
	if !model.CanAccessDevice(userID, role, &token.Device) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status": "error", "message": "Akses ditolak: bukan perangkat Anda",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Berhasil mengambil detail token",
		"data":    tokenJSON(token, token.Device.DeviceKey),
	})
}
