package config

import (
	"fmt"

	"github.com/koropati/water-pulsa-be/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDB membuka koneksi MySQL dan menjalankan auto migration.
// Handle dikembalikan ke caller (dependency injection), tidak ada global DB.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate membuat tabel otomatis berdasarkan struct di folder model.
// Dipisah agar test suite bisa memakai database sendiri (sqlite in-memory).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.APIKey{},
		&model.Device{},
		&model.Token{},
		&model.Balance{},
		&model.UsageLog{},
	)
}
