package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// JwtKey signs and verifies all session tokens.
var JwtKey []byte

// LoadEnv reads the optional .env file and resolves the JWT secret. A missing
// .env is fine in production where variables come from the environment.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("environment variable JWT_SECRET is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}

// ServerAddr returns the listen address, defaulting to :8080.
func ServerAddr() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}
