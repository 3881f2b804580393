package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds process-level settings sourced from the environment.
type Config struct {
	Port     string
	LogLevel string
}

// Load reads .env (if present) and resolves settings with defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	cfg := Config{
		Port:     os.Getenv("PORT"),
		LogLevel: os.Getenv("LOG_LEVEL"),
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg
}
