package routes

import (
	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/middleware"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDeviceRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	hdl := handler.NewDeviceHandler(
		repository.NewDeviceRepository(db),
		repository.NewBalanceRepository(db),
		repository.NewUsageLogRepository(db),
	)

	api := app.Group("/api/devices", middleware.Auth(cfg.JWTSecret))

	api.Get("/", middleware.Permission(model.CapViewReports), hdl.GetAll)
	api.Get("/:id", middleware.Permission(model.CapViewReports), hdl.GetDetail)
	api.Get("/:id/balance", middleware.Permission(model.CapViewReports), hdl.GetBalance)
	api.Get("/:id/usages", middleware.Permission(model.CapViewReports), hdl.GetUsages)
	api.Get("/:id/usages/summary", middleware.Permission(model.CapViewReports), hdl.GetUsageSummary)

	api.Post("/", middleware.Permission(model.CapManageDevices), hdl.Create)
	api.Put("/:id", middleware.Permission(model.CapManageDevices), hdl.Update)
	api.Put("/:id/toggle", middleware.Permission(model.CapManageDevices), hdl.Toggle)
	api.Delete("/:id", middleware.Permission(model.CapManageDevices), hdl.Delete)
}
