// Package config loads the service configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the binary needs at startup.
type Config struct {
	ListenAddr    string
	JWTSecret     string
	AdminUser     string
	AdminPassword string
	Operator      string
	CORSOrigin    string
	UploadDir     string
}

// Load reads the configuration, falling back to development defaults for
// anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	return Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8081"),
		JWTSecret:     getenv("JWT_SECRET", "arzflow_dev_secret"),
		AdminUser:     getenv("ADMIN_USER", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		Operator:      getenv("OPERATOR_LABEL", "admin"),
		CORSOrigin:    getenv("CORS_ORIGIN", "http://localhost:5173"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
