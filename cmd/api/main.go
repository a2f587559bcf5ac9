package main

import (
	"log"

	"github.com/koropati/water-pulsa-be/config"
	"github.com/koropati/water-pulsa-be/internal/gateway"
	"github.com/koropati/water-pulsa-be/internal/mailer"
	"github.com/koropati/water-pulsa-be/internal/mqtt"
	"github.com/koropati/water-pulsa-be/internal/repository"
	"github.com/koropati/water-pulsa-be/internal/routes"
	"github.com/koropati/water-pulsa-be/internal/settlement"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: file .env tidak ditemukan, memakai environment variables sistem.")
	}

	cfg := config.Load()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Inti settlement + notifier saldo rendah (opsional)
	engine := settlement.NewEngine(db)
	m := mailer.New(cfg, repository.NewUserRepository(db))
	if m != nil {
		engine.SetNotifier(m, cfg.LowBalanceThreshold)
	}
	adapter := gateway.NewAdapter(engine)

	app := fiber.New()

	// Middleware global
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAuthRoutes(app, db, cfg)
	routes.SetupDeviceRoutes(app, db, cfg)
	routes.SetupTokenRoutes(app, db, cfg, m)
	routes.SetupAPIKeyRoutes(app, db, cfg)
	routes.SetupGatewayRoutes(app, db, cfg, adapter)

	// Bridge MQTT, hidup hanya kalau broker dikonfigurasi
	if cfg.MQTTBroker != "" {
		bridge := mqtt.NewBridge(cfg, adapter)
		if err := bridge.Start(); err != nil {
			log.Fatal(err)
		}
		defer bridge.Stop()
		log.Printf("Bridge MQTT terhubung ke %s (prefix %s)", cfg.MQTTBroker, cfg.MQTTPrefix)
	}

	log.Printf("Server siap di port :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal(err)
	}
}
