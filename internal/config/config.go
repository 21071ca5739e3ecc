// Package config loads process configuration from the environment: an
// optional .env file plus os.Getenv fallbacks.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting the server needs.
type Config struct {
	Port        string
	Host        string
	JWTSecret   string
	DatabaseURL string
}

// Load reads a .env file (when APP_ENV is not "production") and then the
// environment, applying defaults for
// anything unset. SESSION_JWT_SECRET and LEADERBOARD_DATABASE_URL are
// both optional: when absent, handshake auth and the leaderboard are
// simply disabled rather than treated as a configuration error.
func Load() *Config {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] no .env file loaded: %v", err)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	host := os.Getenv("HOST")
	if host == "" {
		host = "localhost"
	}

	return &Config{
		Port:        port,
		Host:        host,
		JWTSecret:   os.Getenv("SESSION_JWT_SECRET"),
		DatabaseURL: os.Getenv("LEADERBOARD_DATABASE_URL"),
	}
}
