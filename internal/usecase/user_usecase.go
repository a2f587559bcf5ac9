package usecase

import (
	"errors"
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredential = errors.New("email atau password salah")
	ErrUserInactive      = errors.New("akun dinonaktifkan")
)

type UserUsecase struct {
	repo      *repository.UserRepository
	jwtSecret []byte
}

func NewUserUsecase(repo *repository.UserRepository, jwtSecret string) *UserUsecase {
	return &UserUsecase{repo: repo, jwtSecret: []byte(jwtSecret)}
}

func (u *UserUsecase) Register(name, email, password, role string) (model.User, error) {
	if role == "" {
		role = model.RoleUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		IsActive: true,
	}
	if err := u.repo.Create(&user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (u *UserUsecase) Login(email, password string) (string, model.User, error) {
	user, err := u.repo.GetByEmail(email)
	if err != nil {
		return "", model.User{}, ErrInvalidCredential
	}
	if !user.IsActive {
		return "", model.User{}, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", model.User{}, ErrInvalidCredential
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return "", model.User{}, err
	}

	return signed, user, nil
}
