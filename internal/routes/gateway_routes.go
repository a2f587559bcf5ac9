package routes

import (
	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/gateway"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/middleware"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupGatewayRoutes memasang endpoint device-facing. Adapter yang sama
// dipakai bridge MQTT, jadi kedua transport lewat jalur bisnis yang sama.
func SetupGatewayRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, adapter *gateway.Adapter) {
	hdl := handler.NewGatewayHandler(adapter)
	apiKeys := usecase.NewAPIKeyUsecase(repository.NewAPIKeyRepository(db))

	api := app.Group("/api/device", middleware.APIKey(apiKeys, cfg.RequireDeviceAPIKey))
	api.Post("/auth", hdl.Authenticate)
	api.Post("/balance", hdl.CheckBalance)
	api.Post("/usage", hdl.LogUsage)
	api.Post("/token", hdl.RedeemToken)
	api.Post("/heartbeat", hdl.Heartbeat)
}
