package model

import (
	"time"

	"gorm.io/gorm"
)

type Device struct {
	gorm.Model
	DeviceKey  string     `json:"device_key" gorm:"uniqueIndex;size:64;not null"` // Handle eksternal yang dipakai firmware
	Name       string     `json:"name"`
	Location   string     `json:"location"`
	IsActive   bool       `json:"is_active" gorm:"default:true"`
	LastSeenAt *time.Time `json:"last_seen_at"` // Diupdate lewat heartbeat
	UserID     uint       `json:"user_id" gorm:"index"` // Pemilik device

	User User `json:"-" gorm:"foreignKey:UserID"`
}
