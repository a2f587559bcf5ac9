package repository

import (
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"

	"gorm.io/gorm"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *model.APIKey) error {
	return r.db.Create(key).Error
}

func (r *APIKeyRepository) GetByKeyID(keyID string) (model.APIKey, error) {
	var key model.APIKey
	err := r.db.Where("key_id = ? AND is_active = ?", keyID, true).First(&key).Error
	return key, err
}

func (r *APIKeyRepository) GetByUser(userID uint) ([]model.APIKey, error) {
	var keys []model.APIKey
	err := r.db.Where("user_id = ?", userID).Order("id desc").Find(&keys).Error
	return keys, err
}

func (r *APIKeyRepository) TouchLastUsed(id uint, at time.Time) error {
	return r.db.Model(&model.APIKey{}).Where("id = ?", id).Update("last_used_at", at).Error
}

// Revoke menonaktifkan API key (soft, flag saja).
func (r *APIKeyRepository) Revoke(id uint, userID uint) error {
	return r.db.Model(&model.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", false).Error
}
