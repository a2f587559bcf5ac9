package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TokenStatusUnused = "unused"
	TokenStatusUsed   = "used"
)

// Token adalah voucher pulsa prepaid sekali pakai untuk satu device.
// Transisi status: unused -> used, sekali saja, tidak bisa dibalik.
type Token struct {
	gorm.Model
	DeviceID uint       `json:"device_id" gorm:"index;not null"`
	Amount   int64      `json:"amount" gorm:"not null"` // Minor unit (2 desimal)
	Token    string     `json:"token" gorm:"uniqueIndex;size:64;not null"` // Secret yang dipegang pembeli
	Status   string     `json:"status" gorm:"size:16;default:unused"`
	UsedAt   *time.Time `json:"used_at"`

	Device Device `json:"-" gorm:"foreignKey:DeviceID"`
}
