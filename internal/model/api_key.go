package model

import (
	"time"

	"gorm.io/gorm"
)

// APIKey dipakai klien non-interaktif (integrasi kasir/vending) untuk
// mengakses endpoint device lewat HTTP. Secret hanya ditampilkan sekali
// saat dibuat, yang disimpan cuma hash bcrypt-nya.
type APIKey struct {
	gorm.Model
	KeyID      string     `json:"key_id" gorm:"uniqueIndex;size:36;not null"` // Bagian publik (uuid)
	SecretHash string     `json:"-" gorm:"size:128;not null"`
	Label      string     `json:"label"`
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	LastUsedAt *time.Time `json:"last_used_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
