package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "offboarding", cfg.Database.DBName)
	assert.Equal(t, 8, cfg.Auth.TokenTTLHours)
	assert.Equal(t, "noreply@company.co.za", cfg.SMTP.From)

	assert.Equal(t, "hr@company.co.za", cfg.Notify.HREmail)
	assert.Equal(t, "hr@company.co.za", cfg.Notify.DefaultEmail)
	assert.Equal(t, "it@company.co.za", cfg.Notify.FallbackEmails["it"])
	assert.Equal(t, "payroll@company.co.za", cfg.Notify.FallbackEmails["payroll"])
	assert.Equal(t, 30, cfg.Notify.RetentionDays)

	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, 24, cfg.Reminder.IntervalHours)
	assert.Equal(t, 30, cfg.Reminder.ErrorRetryMins)
	assert.Equal(t, 2, cfg.Reminder.ArchiveAgeYears)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFromFile(t *testing.T) {
	content := `
env: production
server:
  port: 9090
database:
  dbname: offboarding_prod
notify:
  retention_days: 60
reminder:
  enabled: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "offboarding_prod", cfg.Database.DBName)
	assert.Equal(t, 60, cfg.Notify.RetentionDays)
	assert.False(t, cfg.Reminder.Enabled)

	// 未覆盖的键仍使用默认值
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 24, cfg.Reminder.IntervalHours)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestIsProduction(t *testing.T) {
	assert.False(t, IsProduction(nil))
	assert.False(t, IsProduction(&Config{Env: "development"}))
	assert.True(t, IsProduction(&Config{Env: "production"}))
}
