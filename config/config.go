package config

import (
	"os"
	"strconv"
)

// Config menampung semua konfigurasi aplikasi dari environment variables.
// Di-inject lewat constructor, tidak disimpan sebagai global.
type Config struct {
	AppPort   string
	JWTSecret string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// MQTT Bridge (kosongkan MQTTBroker untuk mematikan bridge)
	MQTTBroker   string // contoh: tcp://localhost:1883
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string
	MQTTPrefix   string // prefix topic, contoh: waterpulsa

	// Mailer (kosongkan SMTPHost untuk mematikan notifikasi email)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// Batas saldo rendah (minor unit) untuk email peringatan
	LowBalanceThreshold int64

	// Jika true, endpoint device HTTP wajib pakai API key
	RequireDeviceAPIKey bool
}

func Load() *Config {
	return &Config{
		AppPort:   GetEnv("APP_PORT", "3000"),
		JWTSecret: GetEnv("JWT_SECRET", "rahasia-jangan-dipakai-di-production"),

		DBUser: GetEnv("DB_USER", "root"),
		DBPass: GetEnv("DB_PASS", ""),
		DBHost: GetEnv("DB_HOST", "127.0.0.1"),
		DBPort: GetEnv("DB_PORT", "3306"),
		DBName: GetEnv("DB_NAME", "water_pulsa_db"),

		MQTTBroker:   GetEnv("MQTT_BROKER", ""),
		MQTTClientID: GetEnv("MQTT_CLIENT_ID", "water-pulsa-be"),
		MQTTUsername: GetEnv("MQTT_USERNAME", ""),
		MQTTPassword: GetEnv("MQTT_PASSWORD", ""),
		MQTTPrefix:   GetEnv("MQTT_PREFIX", "waterpulsa"),

		SMTPHost: GetEnv("SMTP_HOST", ""),
		SMTPPort: GetEnvAsInt("SMTP_PORT", 587),
		SMTPUser: GetEnv("SMTP_USER", ""),
		SMTPPass: GetEnv("SMTP_PASS", ""),
		MailFrom: GetEnv("MAIL_FROM", "noreply@waterpulsa.id"),

		LowBalanceThreshold: int64(GetEnvAsInt("LOW_BALANCE_THRESHOLD", 1000)),

		RequireDeviceAPIKey: GetEnv("REQUIRE_DEVICE_API_KEY", "false") == "true",
	}
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
