package main

import (
	"fmt"
	"log"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("Memulai database seeding...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: file .env tidak ditemukan, memakai environment variables sistem.")
	}

	cfg := config.Load()
	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal(err)
	}

	database.SeedAll(db)

	fmt.Println("Seeding selesai!")
}
