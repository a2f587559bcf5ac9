package model

import "gorm.io/gorm"

// Balance menyimpan saldo berjalan per device (relasi 1-1 dengan Device).
// Baris dibuat lazy saat redeem/usage pertama, mulai dari 0.
type Balance struct {
	gorm.Model
	DeviceID  uint   `json:"device_id" gorm:"uniqueIndex;not null"`
	Balance   int64  `json:"balance" gorm:"not null;default:0"` // Minor unit, tidak boleh negatif
	LastToken string `json:"last_token" gorm:"size:64"`         // Token terakhir yang di-redeem

	Device Device `json:"-" gorm:"foreignKey:DeviceID"`
}
