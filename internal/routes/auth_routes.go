package routes

import (
	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/handler"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	repo := repository.NewUserRepository(db)
	uc := usecase.NewUserUsecase(repo, cfg.JWTSecret)
	hdl := handler.NewAuthHandler(uc)

	api := app.Group("/api/auth")
	api.Post("/register", hdl.Register)
	api.Post("/login", hdl.Login)
}
