package database

import (
	"log"

	"github.com/koropati/water-pulsa-be/internal/model"
	"github.com/koropati/water-pulsa-be/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAll mengisi data awal: akun super admin, satu device demo,
// dan satu token pulsa siap redeem untuk uji coba firmware.
func SeedAll(db *gorm.DB) {
	// 1. Akun Super Admin pertama
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

	admin := model.User{
		Name:     "Administrator Utama",
		Email:    "admin@waterpulsa.id",
		Password: string(hashedPassword),
		Role:     model.RoleSuperAdmin,
		IsActive: true,
	}
	result := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin)
	if result.Error == nil {
		// Paksa password tetap admin123 walau akun sudah ada
		db.Model(&admin).Update("password", string(hashedPassword))
		log.Println("Seeding admin berhasil!")
	}

	// 2. Device demo
	device := model.Device{
		DeviceKey: "DEMO-0001",
		Name:      "Dispenser Demo",
		Location:  "Kantor Pusat",
		IsActive:  true,
		UserID:    admin.ID,
	}
	db.Where(model.Device{DeviceKey: device.DeviceKey}).FirstOrCreate(&device)

	// 3. Satu token siap redeem (kalau device demo belum punya token)
	tokenRepo := repository.NewTokenRepository(db)
	existing, err := tokenRepo.GetByDevice(device.ID)
	if err == nil && len(existing) == 0 {
		token, err := tokenRepo.Issue(device.ID, 50_00)
		if err != nil {
			log.Printf("Gagal menerbitkan token demo: %v", err)
			return
		}
		log.Printf("Token demo untuk %s: %s (nominal %s)",
			device.DeviceKey, token.Token, model.FromMinor(token.Amount).StringFixed(2))
	}
}
