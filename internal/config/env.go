package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env and .env.local into the process environment.
// Existing variables are never overwritten, so CI-provided values win
// over checked-in defaults. Missing files are not an error.
func LoadEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment file", "path", path)
		}
	}
}
