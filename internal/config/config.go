// internal/config/config.go
//
// Environment configuration for the Qwixx server.
// Values come from the process environment, optionally seeded from a .env
// file in development (godotenv). Missing keys fall back to defaults.
//
// Environment variables:
//   PORT=5175
//   LOG_LEVEL=info
//   DB_PATH=./data/qwixx.db   (empty keeps tables in memory)
//   JWT_SECRET=...            (signs table tokens)
//   TOKEN_TTL_HOURS=24
//   CLIENT_ORIGIN=http://localhost:5173
//   DICE_SEED=0               (0 picks a random seed)

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved server configuration.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	JWTSecret    string
	TokenTTL     time.Duration
	ClientOrigin string
	DiceSeed     int64
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env files.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       os.Getenv("DB_PATH"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:     time.Duration(getInt("TOKEN_TTL_HOURS", 24)) * time.Hour,
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DiceSeed:     int64(getInt("DICE_SEED", 0)),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
