package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-"`
	Role     string `json:"role" gorm:"default:USER"` // SUPER_ADMIN, ADMIN, STAFF, USER
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
