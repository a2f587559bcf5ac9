package handler

import (
	"errors"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	usecase *usecase.UserUsecase
}

func NewAuthHandler(u *usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{usecase: u}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}
	if input.Email == "" || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Email dan password wajib diisi",
		})
	}

	// Registrasi publik selalu jadi USER; role lain diberikan admin
	user, err := h.usecase.Register(input.Name, input.Email, input.Password, model.RoleUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "message": "Gagal registrasi",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Registrasi berhasil",
		"data":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Input tidak valid",
		})
	}

	token, user, err := h.usecase.Login(input.Email, input.Password)
	if err != nil {
		status := fiber.StatusUnauthorized
		message := "Email atau password salah"
		if errors.Is(err, usecase.ErrUserInactive) {
			status = fiber.StatusForbidden
			message = "Akun Anda dinonaktifkan"
		}
		return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Login berhasil",
		"data": fiber.Map{
			"token": token,
			"user":  user,
		},
	})
}
