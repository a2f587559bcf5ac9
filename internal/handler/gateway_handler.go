package handler

import (
	"github.com/koropati/water-pulsa-be/internal/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// GatewayHandler adalah sisi HTTP dari Device Gateway Adapter. Semua
// logika (validasi, pemetaan error) ada di gateway.Adapter; handler ini
// cuma membongkar body dan meneruskan.
type GatewayHandler struct {
	adapter *gateway.Adapter
}

func NewGatewayHandler(adapter *gateway.Adapter) *GatewayHandler {
	return &GatewayHandler{adapter: adapter}
}

type deviceKeyBody struct {
	DeviceKey string `json:"device_key"`
}

func (h *GatewayHandler) Authenticate(c *fiber.Ctx) error {
	var body deviceKeyBody
	if err := c.BodyParser(&body); err != nil {
		return badPayload(c)
	}
	resp, code := h.adapter.Authenticate(body.DeviceKey)
	return c.Status(code).JSON(resp)
}

func (h *GatewayHandler) CheckBalance(c *fiber.Ctx) error {
	var body deviceKeyBody
	if err := c.BodyParser(&body); err != nil {
		return badPayload(c)
	}
	resp, code := h.adapter.CheckBalance(body.DeviceKey)
	return c.Status(code).JSON(resp)
}

func (h *GatewayHandler) LogUsage(c *fiber.Ctx) error {
	var body struct {
		DeviceKey   string          `json:"device_key"`
		UsageAmount decimal.Decimal `json:"usage_amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badPayload(c)
	}
	resp, code := h.adapter.LogUsage(body.DeviceKey, body.UsageAmount)
	return c.Status(code).JSON(resp)
}

func (h *GatewayHandler) RedeemToken(c *fiber.Ctx) error {
	var body struct {
		DeviceKey string `json:"device_key"`
		Token     string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badPayload(c)
	}
	resp, code := h.adapter.RedeemToken(body.DeviceKey, body.Token)
	return c.Status(code).JSON(resp)
}

func (h *GatewayHandler) Heartbeat(c *fiber.Ctx) error {
	var body deviceKeyBody
	if err := c.BodyParser(&body); err != nil {
		return badPayload(c)
	}
	resp, code := h.adapter.Heartbeat(body.DeviceKey)
	return c.Status(code).JSON(resp)
}

func badPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(gateway.ErrorResponse{
		Success: false, Valid: false, Error: "BAD_PAYLOAD", Message: "payload tidak valid",
	})
}
