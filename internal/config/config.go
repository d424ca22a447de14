package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	GatewayBaseURL    string
	GatewayPrivateKey string
	DbUser            string
	DbPassword        string
	DbHost            string
	DbName            string
	DbPort            string
	SSLMode           string
	Port              int
}

func Load() (*Config, error) {
	// Load .env file (only in development)
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment variables")
	}

	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	cfg := &Config{
		GatewayBaseURL:    os.Getenv("GATEWAY_BASE_URL"),
		GatewayPrivateKey: os.Getenv("GATEWAY_PRIVATE_KEY"),
		DbUser:            os.Getenv("DB_USER"),
		DbPassword:        os.Getenv("DB_PASSWORD"),
		DbHost:            os.Getenv("DB_HOST"),
		DbName:            os.Getenv("DB_NAME"),
		DbPort:            os.Getenv("DB_PORT"),
		SSLMode:           os.Getenv("SSL_MODE"),
		Port:              port,
	}

	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("GATEWAY_BASE_URL is required")
	}
	if cfg.GatewayPrivateKey == "" {
		return nil, fmt.Errorf("GATEWAY_PRIVATE_KEY is required")
	}
	return cfg, nil
}
