package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken  string
	DatabaseURL    string
	ReportInterval time.Duration
	WeeklyReportAt string
	Location       *time.Location

	OpenAIKey   string
	OpenAIModel string

	NotionToken      string
	NotionDatabaseID string
	NotionTitleProp  string

	MetricsAddr string
}

// NotionEnabled reports whether weekly pages can be exported to Notion.
func (c Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

// CoachEnabled reports whether a language model is configured.
func (c Config) CoachEnabled() bool {
	return c.OpenAIKey != ""
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first when present.
func Load() (Config, error) {
	cfg, err := LoadStore()
	if err != nil {
		return cfg, err
	}
	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	return cfg, nil
}

// LoadStore is Load without the Telegram requirement, for tools that only
// touch the database.
func LoadStore() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[cfg] .env: %v", err)
	}

	cfg := Config{
		TelegramToken:    env("TELEGRAM_TOKEN"),
		DatabaseURL:      env("DATABASE_URL"),
		ReportInterval:   parseInterval(env("REPORT_INTERVAL_HOURS")),
		WeeklyReportAt:   env("WEEKLY_REPORT_AT"),
		OpenAIKey:        env("OPENAI_API_KEY"),
		OpenAIModel:      env("OPENAI_MODEL"),
		NotionToken:      env("NOTION_TOKEN"),
		NotionDatabaseID: env("NOTION_DATABASE_ID"),
		NotionTitleProp:  env("NOTION_TITLE_PROP"),
		MetricsAddr:      env("METRICS_ADDR"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "weekly_planner.db"
	}
	if cfg.WeeklyReportAt == "" {
		cfg.WeeklyReportAt = "Mon 09:00"
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.NotionTitleProp == "" {
		cfg.NotionTitleProp = "Name"
	}

	cfg.Location = time.Local
	if tz := env("TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid TZ %q: %w", tz, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
