package routes

import (
	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/mailer"
	"github.com/koropati/water-pulsa-be/internal/middleware"
	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTokenRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, m *mailer.Mailer) {
	hdl := handler.NewTokenHandler(
		repository.NewTokenRepository(db),
		repository.NewDeviceRepository(db),
		m,
	)

	api := app.Group("/api/tokens", middleware.Auth(cfg.JWTSecret))
	api.Post("/", middleware.Permission(model.CapIssueTokens), hdl.Create)
	api.Get("/", middleware.Permission(model.CapViewReports), hdl.GetAll)
	api.Get("/:id", middleware.Permission(model.CapViewReports), hdl.GetDetail)
}
