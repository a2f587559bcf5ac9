package gateway

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Adapter menjembatani dua transport (HTTP dan MQTT) ke operasi
// Settlement Engine yang sama. Validasi dan pemetaan error dilakukan
// DI SINI, satu kali, supaya kedua transport tidak punya aturan sendiri.
type Adapter struct {
	engine *settlement.Engine
}

func NewAdapter(engine *settlement.Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Nama action, dipakai juga sebagai segmen topic MQTT.
const (
	ActionAuth      = "auth"
	ActionBalance   = "balance"
	ActionUsage     = "usage"
	ActionToken     = "token"
	ActionHeartbeat = "heartbeat"
)

type AuthResponse struct {
	Valid    bool   `json:"valid"`
	DeviceID uint   `json:"device_id"`
	Status   string `json:"status"`
}

type BalanceResponse struct {
	Valid     bool            `json:"valid"`
	Balance   decimal.Decimal `json:"balance"`
	LastToken string          `json:"last_token"`
}

type UsageResponse struct {
	Valid            bool            `json:"valid"`
	CanUse           bool            `json:"can_use"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

type RedeemResponse struct {
	Valid   bool            `json:"valid"`
	Balance decimal.Decimal `json:"balance"`
	Amount  decimal.Decimal `json:"amount"`
}

type HeartbeatResponse struct {
	Valid bool `json:"valid"`
}

// ErrorResponse dikirim apa adanya lewat MQTT dan sebagai body HTTP.
// Error berisi kode stabil yang bisa di-branch firmware.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (a *Adapter) Authenticate(deviceKey string) (interface{}, int) {
	if deviceKey == "" {
		return errorResponse("DEVICE_KEY_REQUIRED", "device_key wajib diisi"), fiber.StatusBadRequest
	}
	res, err := a.engine.Authenticate(deviceKey)
	if err != nil {
		return mapError(err)
	}
	return AuthResponse{Valid: true, DeviceID: res.DeviceID, Status: res.Status}, fiber.StatusOK
}

func (a *Adapter) CheckBalance(deviceKey string) (interface{}, int) {
	if deviceKey == "" {
		return errorResponse("DEVICE_KEY_REQUIRED", "device_key wajib diisi"), fiber.StatusBadRequest
	}
	res, err := a.engine.CheckBalance(deviceKey)
	if err != nil {
		return mapError(err)
	}
	return BalanceResponse{
		Valid:     true,
		Balance:   model.FromMinor(res.Balance),
		LastToken: res.LastToken,
	}, fiber.StatusOK
}

func (a *Adapter) LogUsage(deviceKey string, usageAmount decimal.Decimal) (interface{}, int) {
	if deviceKey == "" {
		return errorResponse("DEVICE_KEY_REQUIRED", "device_key wajib diisi"), fiber.StatusBadRequest
	}
	amount, err := model.ToMinor(usageAmount)
	if err != nil {
		return mapError(err)
	}
	res, err := a.engine.LogUsage(deviceKey, amount)
	if err != nil {
		return mapError(err)
	}
	return UsageResponse{
		Valid:            true,
		CanUse:           res.CanUse,
		RemainingBalance: model.FromMinor(res.RemainingBalance),
	}, fiber.StatusOK
}

func (a *Adapter) RedeemToken(deviceKey, token string) (interface{}, int) {
	if deviceKey == "" {
		return errorResponse("DEVICE_KEY_REQUIRED", "device_key wajib diisi"), fiber.StatusBadRequest
	}
	if token == "" {
		return errorResponse("TOKEN_REQUIRED", "token wajib diisi"), fiber.StatusBadRequest
	}
	res, err := a.engine.RedeemToken(deviceKey, token)
	if err != nil {
		return mapError(err)
	}
	return RedeemResponse{
		Valid:   true,
		Balance: model.FromMinor(res.NewBalance),
		Amount:  model.FromMinor(res.Amount),
	}, fiber.StatusOK
}

func (a *Adapter) Heartbeat(deviceKey string) (interface{}, int) {
	if deviceKey == "" {
		return errorResponse("DEVICE_KEY_REQUIRED", "device_key wajib diisi"), fiber.StatusBadRequest
	}
	if err := a.engine.Heartbeat(deviceKey); err != nil {
		return mapError(err)
	}
	return HeartbeatResponse{Valid: true}, fiber.StatusOK
}

type usagePayload struct {
	UsageAmount decimal.Decimal `json:"usage_amount"`
}

type redeemPayload struct {
	Token string `json:"token"`
}

// Handle adalah jalur dispatch untuk transport pesan (MQTT): action dari
// topic, device key dari topic, sisanya dari payload JSON.
func (a *Adapter) Handle(action, deviceKey string, payload []byte) (interface{}, int) {
	switch action {
	case ActionAuth:
		return a.Authenticate(deviceKey)
	case ActionBalance:
		return a.CheckBalance(deviceKey)
	case ActionUsage:
		var body usagePayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return errorResponse("BAD_PAYLOAD", "payload tidak valid"), fiber.StatusBadRequest
		}
		return a.LogUsage(deviceKey, body.UsageAmount)
	case ActionToken:
		var body redeemPayload
		if err := json.Unmarshal(payload, &body); err != nil {
			return errorResponse("BAD_PAYLOAD", "payload tidak valid"), fiber.StatusBadRequest
		}
		return a.RedeemToken(deviceKey, body.Token)
	case ActionHeartbeat:
		return a.Heartbeat(deviceKey)
	default:
		return errorResponse("UNKNOWN_ACTION", "action tidak dikenal: "+action), fiber.StatusNotFound
	}
}

func errorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Valid: false, Error: code, Message: message}
}

// mapError memetakan sentinel settlement ke kode stabil + status HTTP.
// Error storage tidak bocor ke caller, cuma dicatat di log server.
func mapError(err error) (interface{}, int) {
	switch {
	case errors.Is(err, model.ErrDeviceNotFound):
		return errorResponse("DEVICE_NOT_FOUND", "perangkat tidak ditemukan"), fiber.StatusNotFound
	case errors.Is(err, model.ErrDeviceInactive):
		return errorResponse("DEVICE_INACTIVE", "perangkat nonaktif"), fiber.StatusForbidden
	case errors.Is(err, model.ErrTokenNotFound):
		return errorResponse("TOKEN_NOT_FOUND", "token tidak ditemukan"), fiber.StatusNotFound
	case errors.Is(err, model.ErrTokenAlreadyUsed):
		return errorResponse("TOKEN_ALREADY_USED", "token sudah pernah dipakai"), fiber.StatusConflict
	case errors.Is(err, model.ErrTokenDeviceMismatch):
		return errorResponse("TOKEN_DEVICE_MISMATCH", "token bukan untuk perangkat ini"), fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidAmount):
		return errorResponse("INVALID_AMOUNT", "nominal harus lebih dari nol"), fiber.StatusBadRequest
	default:
		log.Printf("gateway: internal error: %v", err)
		return errorResponse("INTERNAL_ERROR", "terjadi kesalahan pada server"), fiber.StatusInternalServerError
	}
}
