package repository

import (
	"errors"
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/secure"

	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Issue menerbitkan token pulsa baru untuk sebuah device.
// Secret dibuat dari crypto/rand, status awal selalu unused.
func (r *TokenRepository) Issue(deviceID uint, amount int64) (model.Token, error) {
	if amount <= 0 {
		return model.Token{}, model.ErrInvalidAmount
	}

	secret, err := secure.RandomString(secure.TokenLength)
	if err != nil {
		return model.Token{}, err
	}

	token := model.Token{
		DeviceID: deviceID,
		Amount:   amount,
		Token:    secret,
		Status:   model.TokenStatusUnused,
	}
	if err := r.db.Create(&token).Error; err != nil {
		return model.Token{}, err
	}
	return token, nil
}

// FindBySecret mencari token berdasarkan string eksternalnya,
// sekalian preload device pemiliknya untuk validasi redeem.
func (r *TokenRepository) FindBySecret(secret string) (model.Token, error) {
	var token model.Token
	err := r.db.Preload("Device").Where("token = ?", secret).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return token, model.ErrTokenNotFound
	}
	return token, err
}

// MarkUsed membalik status unused -> used lewat UPDATE bersyarat.
// Dua redeem yang balapan pada token yang sama: cuma satu yang kena
// baris, sisanya dapat ErrTokenAlreadyUsed.
func (r *TokenRepository) MarkUsed(tokenID uint, at time.Time) error {
	res := r.db.Model(&model.Token{}).
		Where("id = ? AND status = ?", tokenID, model.TokenStatusUnused).
		Updates(map[string]interface{}{
			"status":  model.TokenStatusUsed,
			"used_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrTokenAlreadyUsed
	}
	return nil
}

func (r *TokenRepository) GetByID(id uint) (model.Token, error) {
	var token model.Token
	err := r.db.Preload("Device").First(&token, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return token, model.ErrTokenNotFound
	}
	return token, err
}

func (r *TokenRepository) GetByDevice(deviceID uint) ([]model.Token, error) {
	var tokens []model.Token
	err := r.db.Where("device_id = ?", deviceID).Order("id desc").Find(&tokens).Error
	return tokens, err
}

func (r *TokenRepository) GetAll() ([]model.Token, error) {
	var tokens []model.Token
	err := r.db.Order("id desc").Find(&tokens).Error
	return tokens, err
}
