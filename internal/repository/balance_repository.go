package repository

import (
	"errors"

	"github.com/koropati/water-pulsa-be/internal/model"

	"gorm.io/gorm"
)

// BalanceRepository adalah ledger saldo per device. Semua mutasi memakai
// UPDATE atomik di level SQL (bukan read-modify-write), jadi invariant
// saldo tetap aman walau isolasi transaksi database-nya longgar.
type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

// Get membaca saldo tanpa membuat baris baru. Device tanpa baris saldo
// dibaca sebagai saldo 0.
func (r *BalanceRepository) Get(deviceID uint) (model.Balance, error) {
	var balance model.Balance
	err := r.db.Where("device_id = ?", deviceID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Balance{DeviceID: deviceID}, nil
	}
	return balance, err
}

// GetOrCreate mengembalikan baris saldo, membuatnya di 0 kalau belum ada.
// Idempotent per device (dijaga unique index device_id).
func (r *BalanceRepository) GetOrCreate(deviceID uint) (model.Balance, error) {
	var balance model.Balance
	err := r.db.Where(model.Balance{DeviceID: deviceID}).FirstOrCreate(&balance).Error
	return balance, err
}

// Credit menambah saldo dan mencatat token terakhir yang di-redeem.
func (r *BalanceRepository) Credit(deviceID uint, amount int64, tokenMarker string) (model.Balance, error) {
	if amount <= 0 {
		return model.Balance{}, model.ErrInvalidAmount
	}
	if _, err := r.GetOrCreate(deviceID); err != nil {
		return model.Balance{}, err
	}

	err := r.db.Model(&model.Balance{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"last_token": tokenMarker,
		}).Error
	if err != nil {
		return model.Balance{}, err
	}
	return r.Get(deviceID)
}

// Debit mengurangi saldo HANYA jika saldo mencukupi. UPDATE bersyarat:
// kalau tidak ada baris yang kena, saldo tidak cukup dan tidak berubah.
func (r *BalanceRepository) Debit(deviceID uint, amount int64) (model.Balance, error) {
	if amount <= 0 {
		return model.Balance{}, model.ErrInvalidAmount
	}
	if _, err := r.GetOrCreate(deviceID); err != nil {
		return model.Balance{}, err
	}

	res := r.db.Model(&model.Balance{}).
		Where("device_id = ? AND balance >= ?", deviceID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return model.Balance{}, res.Error
	}
	if res.RowsAffected == 0 {
		current, err := r.Get(deviceID)
		if err != nil {
			return model.Balance{}, err
		}
		return current, model.ErrInsufficientBalance
	}
	return r.Get(deviceID)
}
