package model

import "gorm.io/gorm"

// UsageLog adalah catatan pemakaian yang sudah terdebit, append-only.
// Tidak pernah diubah setelah dibuat.
type UsageLog struct {
	gorm.Model
	DeviceID uint  `json:"device_id" gorm:"index;not null"`
	Amount   int64 `json:"amount" gorm:"not null"` // Minor unit, selalu > 0

	Device Device `json:"-" gorm:"foreignKey:DeviceID"`
}
