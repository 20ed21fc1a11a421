package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the daemon and CLI.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	ReportInterval time.Duration
	AlarmResync    time.Duration
}

// Load reads configuration from environment variables with sane defaults.
// The Telegram settings are optional; without a token notifications go to
// the process log.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReportInterval: parseHours(strings.TrimSpace(os.Getenv("REPORT_INTERVAL_HOURS"))),
		AlarmResync:    parseSeconds(strings.TrimSpace(os.Getenv("ALARM_RESYNC_SECONDS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskapp.db"
	}

	if cfg.AlarmResync == 0 {
		cfg.AlarmResync = time.Minute
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q", raw)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := time.ParseDuration(raw + "s")
	if err != nil || seconds <= 0 {
		return 0
	}
	return seconds
}
