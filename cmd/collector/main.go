package main

import (
	"llmmonitor/internal/config"
	logpkg "llmmonitor/internal/log"
	"llmmonitor/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	dotenvErr := godotenv.Load()

	logger := logpkg.CreateLogger()
	defer func() {
		if appLog, ok := logger.(*logpkg.AppLogger); ok {
			_ = appLog.Close()
		}
	}()

	if dotenvErr != nil {
		logger.Warn("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadCollectorConfigFromEnv(logger)
	if err != nil {
		logger.Fatal("Failed to load collector configuration: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Fatal("Failed to create collector: %v", err)
	}
	defer func() { _ = srv.Close() }()

	if err := srv.Run(); err != nil {
		logger.Fatal("Collector error: %v", err)
	}
}
