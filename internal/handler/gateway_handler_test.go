package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/gateway"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func setupGatewayApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupDB(t)
	adapter := gateway.NewAdapter(settlement.NewEngine(db))
	hdl := handler.NewGatewayHandler(adapter)

	app := fiber.New()
	api := app.Group("/api/device")
	api.Post("/auth", hdl.Authenticate)
	api.Post("/balance", hdl.CheckBalance)
	api.Post("/usage", hdl.LogUsage)
	api.Post("/token", hdl.RedeemToken)
	api.Post("/heartbeat", hdl.Heartbeat)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestGatewayAuthEndpoint(t *testing.T) {
	app, db := setupGatewayApp(t)
	device := model.Device{DeviceKey: "DEV-001", IsActive: true, UserID: 1}
	require.NoError(t, db.Create(&device).Error)

	resp, body := postJSON(t, app, "/api/device/auth", fiber.Map{"device_key": "DEV-001"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "active", body["status"])

	resp, body = postJSON(t, app, "/api/device/auth", fiber.Map{"device_key": "DEV-XXX"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "DEVICE_NOT_FOUND", body["error"])
}

func TestGatewayRedeemAndUsageEndpoints(t *testing.T) {
	app, db := setupGatewayApp(t)
	device := model.Device{DeviceKey: "DEV-001", IsActive: true, UserID: 1}
	require.NoError(t, db.Create(&device).Error)

	token, err := repository.NewTokenRepository(db).Issue(device.ID, 50_00)
	require.NoError(t, err)

	resp, body := postJSON(t, app, "/api/device/token",
		fiber.Map{"device_key": "DEV-001", "token": token.Token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "50", body["balance"])

	// Redeem ulang: konflik, bukan sukses ganda
	resp, body = postJSON(t, app, "/api/device/token",
		fiber.Map{"device_key": "DEV-001", "token": token.Token})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "TOKEN_ALREADY_USED", body["error"])

	resp, body = postJSON(t, app, "/api/device/usage",
		fiber.Map{"device_key": "DEV-001", "usage_amount": "20"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["can_use"])
	assert.Equal(t, "30", body["remaining_balance"])

	// Saldo kurang: HTTP 200 dengan can_use=false
	resp, body = postJSON(t, app, "/api/device/usage",
		fiber.Map{"device_key": "DEV-001", "usage_amount": "1000"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["can_use"])
	assert.Equal(t, "30", body["remaining_balance"])
}

func TestGatewayBalanceEndpointLazyZero(t *testing.T) {
	app, db := setupGatewayApp(t)
	device := model.Device{DeviceKey: "DEV-001", IsActive: true, UserID: 1}
	require.NoError(t, db.Create(&device).Error)

	resp, body := postJSON(t, app, "/api/device/balance", fiber.Map{"device_key": "DEV-001"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["balance"])
	assert.Equal(t, "", body["last_token"])
}
