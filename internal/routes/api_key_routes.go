package routes

import (
	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/middleware"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAPIKeyRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	repo := repository.NewAPIKeyRepository(db)
	uc := usecase.NewAPIKeyUsecase(repo)
	hdl := handler.NewAPIKeyHandler(uc, repo)

	api := app.Group("/api/keys", middleware.Auth(cfg.JWTSecret))
	api.Post("/", hdl.Create)
	api.Get("/", hdl.GetAll)
	api.Delete("/:id", hdl.Revoke)
}
