package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	BotToken    string
	DatabaseURL string
	AdminID     int64 // optional, 0 when unset
}

func Load() (Config, error) {
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return Config{}, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	var adminID int64
	if raw := os.Getenv("ADMIN_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("ADMIN_ID must be an integer: %w", err)
		}
		adminID = id
	}

	return Config{
		BotToken:    token,
		DatabaseURL: dsn,
		AdminID:     adminID,
	}, nil
}
