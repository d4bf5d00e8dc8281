// Package config loads application settings from the environment, with
// .env.dev / .env.prod files selected by APP_ENV filling in anything unset.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	DBPath            string // empty means storage.ResolveDBPath's default
	CalendarID        string
	DiscordWebhookURL string
}

// Load reads the env file for the current APP_ENV (dev by default) without
// overriding variables already exported, then snapshots the settings.
func Load() *Config {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	if appEnv == "prod" {
		_ = godotenv.Load(".env.prod")
	} else {
		_ = godotenv.Load(".env.dev")
	}

	cfg := &Config{
		AppEnv:            appEnv,
		DBPath:            os.Getenv("DAYQUEST_DB"),
		CalendarID:        os.Getenv("CALENDAR_ID"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	return cfg
}
