package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TELEGRAM_TOKEN", "DATABASE_URL", "REPORT_INTERVAL_HOURS", "WEEKLY_REPORT_AT", "TZ",
		"OPENAI_API_KEY", "OPENAI_MODEL", "NOTION_TOKEN", "NOTION_DATABASE_ID", "NOTION_TITLE_PROP", "METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresTelegramToken(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, "weekly_planner.db", cfg.DatabaseURL)
	assert.Equal(t, "Mon 09:00", cfg.WeeklyReportAt)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "Name", cfg.NotionTitleProp)
	assert.Equal(t, time.Duration(0), cfg.ReportInterval)
	assert.False(t, cfg.NotionEnabled())
	assert.False(t, cfg.CoachEnabled())
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", " token ")
	t.Setenv("REPORT_INTERVAL_HOURS", "6")
	t.Setenv("TZ", "Asia/Seoul")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("NOTION_TOKEN", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, 6*time.Hour, cfg.ReportInterval)
	assert.Equal(t, "Asia/Seoul", cfg.Location.String())
	assert.True(t, cfg.NotionEnabled())
	assert.True(t, cfg.CoachEnabled())
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("TZ", "Mars/Olympus")
	_, err := LoadStore()
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseInterval(""))
	assert.Equal(t, time.Duration(0), parseInterval("-2"))
	assert.Equal(t, time.Duration(0), parseInterval("abc"))
	assert.Equal(t, 90*time.Minute, parseInterval("1.5"))
}
