package usecase

import (
	"errors"
	"strings"
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/secure"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidAPIKey = errors.New("API key tidak valid")

// Format key yang dipegang klien: "<keyID>.<secret>". keyID dipakai
// untuk lookup, secret diverifikasi terhadap hash bcrypt di database.
type APIKeyUsecase struct {
	repo *repository.APIKeyRepository
}

func NewAPIKeyUsecase(repo *repository.APIKeyRepository) *APIKeyUsecase {
	return &APIKeyUsecase{repo: repo}
}

// Issue membuat API key baru. Plaintext hanya dikembalikan sekali di sini.
func (u *APIKeyUsecase) Issue(userID uint, label string) (string, model.APIKey, error) {
	secret, err := secure.RandomString(secure.TokenLength)
	if err != nil {
		return "", model.APIKey{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", model.APIKey{}, err
	}

	key := model.APIKey{
		KeyID:      uuid.NewString(),
		SecretHash: string(hash),
		Label:      label,
		UserID:     userID,
		IsActive:   true,
	}
	if err := u.repo.Create(&key); err != nil {
		return "", model.APIKey{}, err
	}

	return key.KeyID + "." + secret, key, nil
}

// Verify memvalidasi plaintext API key dan mengembalikan baris key-nya.
func (u *APIKeyUsecase) Verify(plaintext string) (model.APIKey, error) {
	keyID, secret, found := strings.Cut(plaintext, ".")
	if !found || keyID == "" || secret == "" {
		return model.APIKey{}, ErrInvalidAPIKey
	}

	key, err := u.repo.GetByKeyID(keyID)
	if err != nil {
		return model.APIKey{}, ErrInvalidAPIKey
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)); err != nil {
		return model.APIKey{}, ErrInvalidAPIKey
	}

	// Best effort, kegagalan update last_used tidak menggagalkan auth
	_ = u.repo.TouchLastUsed(key.ID, time.Now())

	return key, nil
}
