package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads environment variables from .env and .env.local when
// present. Variables already set in the process environment win.
func loadEnvFiles() {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("Failed to load environment file", slog.String("path", path), slog.String("error", err.Error()))
			}
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("path", path))
	}
}
