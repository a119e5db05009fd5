package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the bot and its HTTP surface.
type Config struct {
	TelegramToken   string
	DatabaseURL     string
	ListenAddr      string
	ReminderAPIKey  string
	SweepInterval   time.Duration // 0 disables the internal sweep schedule
	SummaryTime     string        // HH:MM, empty disables the internal summary schedule
	SkipDelegated   bool
	TelegramPolling bool
	Development     bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:      strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		ReminderAPIKey:  strings.TrimSpace(os.Getenv("REMINDER_API_KEY")),
		SweepInterval:   parseInterval(strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_MINUTES"))),
		SummaryTime:     strings.TrimSpace(os.Getenv("DAILY_SUMMARY_TIME")),
		SkipDelegated:   parseBool(os.Getenv("REMINDERS_SKIP_DELEGATED")),
		TelegramPolling: parseBool(os.Getenv("TELEGRAM_POLLING")),
		Development:     parseBool(os.Getenv("DEVELOPMENT")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "accountability.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Hour
	}
	if cfg.SummaryTime == "" {
		cfg.SummaryTime = "08:00"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
