package repository

import (
	"errors"
	"time"

	"github.com/koropati/water-pulsa-be/internal/model"

	"gorm.io/gorm"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(device *model.Device) error {
	return r.db.Create(device).Error
}

func (r *DeviceRepository) GetByID(id uint) (model.Device, error) {
	var device model.Device
	err := r.db.First(&device, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return device, model.ErrDeviceNotFound
	}
	return device, err
}

// FindByKey mencari device berdasarkan device key eksternal.
// Ini SATU-SATUNYA jalur lookup by key; HTTP dan MQTT lewat sini
// supaya aturan bisnisnya tidak bercabang.
func (r *DeviceRepository) FindByKey(key string) (model.Device, error) {
	var device model.Device
	err := r.db.Where("device_key = ?", key).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return device, model.ErrDeviceNotFound
	}
	return device, err
}

// FindActiveByKey seperti FindByKey tapi menolak device nonaktif.
func (r *DeviceRepository) FindActiveByKey(key string) (model.Device, error) {
	device, err := r.FindByKey(key)
	if err != nil {
		return device, err
	}
	if !device.IsActive {
		return device, model.ErrDeviceInactive
	}
	return device, nil
}

func (r *DeviceRepository) GetAll() ([]model.Device, error) {
	var devices []model.Device
	err := r.db.Order("id").Find(&devices).Error
	return devices, err
}

func (r *DeviceRepository) GetByOwner(userID uint) ([]model.Device, error) {
	var devices []model.Device
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&devices).Error
	return devices, err
}

func (r *DeviceRepository) Update(device *model.Device) error {
	return r.db.Save(device).Error
}

func (r *DeviceRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&model.Device{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *DeviceRepository) TouchLastSeen(id uint, at time.Time) error {
	return r.db.Model(&model.Device{}).Where("id = ?", id).Update("last_seen_at", at).Error
}

// Delete menghapus device beserta token, saldo, dan log pemakaiannya
// dalam satu transaksi (hard delete, dipakai admin saja).
func (r *DeviceRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("device_id = ?", id).Delete(&model.Token{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("device_id = ?", id).Delete(&model.UsageLog{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("device_id = ?", id).Delete(&model.Balance{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Device{}, id).Error
	})
}
