package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"controlgastos/internal/cli"
	"controlgastos/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     logLevel(),
		Component: "cli",
	})
	log.SetDefault(logger)

	os.Exit(cli.Execute())
}

func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
