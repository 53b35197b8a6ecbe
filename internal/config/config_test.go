package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir 切到临时目录，避免读到仓库里的 .env 文件
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	chdir(t)
	t.Setenv(BaseURLEnv, "")

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "Sheet1", cfg.Cases.SheetName)
	assert.Equal(t, 1, cfg.Cases.HeaderRow)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	chdir(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := chdir(t)
	t.Setenv(BaseURLEnv, "")
	t.Setenv("SMOKE_BYPASS", "secret")

	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
base_url: https://league.example.com
timeout: 5s
rate_per_sec: 2
error_bodies: true
headers:
  x-vercel-protection-bypass: ${SMOKE_BYPASS}
report:
  excel_path: report.xlsx
  metrics_path: smoke.prom
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://league.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2.0, cfg.RatePerSec)
	assert.True(t, cfg.ErrorBodies)
	assert.Equal(t, "secret", cfg.Headers["x-vercel-protection-bypass"])
	assert.Equal(t, "report.xlsx", cfg.Report.ExcelPath)
	assert.Equal(t, "smoke.prom", cfg.Report.MetricsPath)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvOverridesBaseURL(t *testing.T) {
	dir := chdir(t)
	t.Setenv(BaseURLEnv, "http://127.0.0.1:3000")

	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "base_url: https://league.example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.BaseURL)
}

func TestDotEnvFileProvidesBaseURL(t *testing.T) {
	dir := chdir(t)
	// 清空后再 Unsetenv，t.Setenv 负责在结束时恢复
	t.Setenv(BaseURLEnv, "")
	require.NoError(t, os.Unsetenv(BaseURLEnv))

	writeFile(t, filepath.Join(dir, ".env.local"), BaseURLEnv+"=http://localhost:7007\n")
	writeFile(t, filepath.Join(dir, ".env"), BaseURLEnv+"=http://localhost:8008\n")

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:7007", cfg.BaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.BaseURL = "localhost:6006" }},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://localhost" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.RatePerSec = -1 }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	require.NoError(t, Defaults().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
